package extraction

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-spice-must-parse/internal/model"
)

const bigBazaarAlert = "Your A/c XX1234 is debited with Rs.1,250.50 on 25-Nov-24 for purchase at BIG BAZAAR. Available balance: Rs.45,230.75."

type recordingObserver struct {
	rejected map[Stage]int
	accepted []model.Transaction
	mu       sync.Mutex
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{rejected: make(map[Stage]int)}
}

func (o *recordingObserver) ObserveAccepted(txn model.Transaction) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.accepted = append(o.accepted, txn)
}

func (o *recordingObserver) ObserveRejected(stage Stage) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rejected[stage]++
}

func TestAssemble_BankAlert(t *testing.T) {
	e := newTestEngine(t)

	txn, stage := e.Assemble(bigBazaarAlert)
	require.Equal(t, StageAccepted, stage)

	assert.True(t, decimal.RequireFromString("1250.50").Equal(txn.Amount))
	assert.Equal(t, model.DirectionDebit, txn.Direction)
	assert.Equal(t, "BIG BAZAAR", txn.Merchant)
	assert.Equal(t, model.CategoryGroceries, txn.Category)
	assert.True(t, time.Date(2024, 11, 25, 0, 0, 0, 0, time.UTC).Equal(txn.Date))
	assert.InDelta(t, 0.815, txn.Confidence, 1e-9)
	assert.Equal(t, bigBazaarAlert, txn.Description)

	require.NotNil(t, txn.BalanceAfter)
	assert.True(t, decimal.RequireFromString("45230.75").Equal(*txn.BalanceAfter))
	assert.Empty(t, txn.AccountLastFour)
	assert.Empty(t, txn.ReferenceNumber)
}

func TestAssemble_Defaults(t *testing.T) {
	e := newTestEngine(t)

	txn, stage := e.Assemble("  Rs 500 debited  ")
	require.Equal(t, StageAccepted, stage)

	assert.Equal(t, "Rs 500 debited", txn.Description)
	assert.Equal(t, fixedNow, txn.Date)
	assert.Equal(t, model.UnknownMerchant, txn.Merchant)
	assert.Equal(t, model.CategoryOther, txn.Category)
	assert.InDelta(t, 0.9*WeightAmount+0.8*WeightDirection, txn.Confidence, 1e-9)
	assert.Nil(t, txn.BalanceAfter)
}

func TestAssemble_Rejections(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name    string
		message string
		want    Stage
	}{
		{"empty", "", StageTooShort},
		{"short after trim", "   paid 5    ", StageTooShort},
		{"short with multibyte currency", "paid ₹500", StageTooShort},
		{"promotional", "SALE ALERT! Get 50% off on all products at Big Bazaar! Hurry! Limited time offer.", StageNoKeyword},
		{"chatter", "Hello there, how are you doing today?", StageNoKeyword},
		{"keyword without amount", "Your payment was successful", StageNoAmount},
		{"phone number only", "Call Rs 9876543210 for balance queries", StageNoAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn, stage := e.Assemble(tt.message)
			assert.Equal(t, tt.want, stage)
			assert.Equal(t, model.Transaction{}, txn)
		})
	}
}

func TestAssemble_LowConfidence(t *testing.T) {
	e, err := New(Config{MinConfidence: 0.9, Location: time.UTC})
	require.NoError(t, err)

	_, stage := e.Assemble(bigBazaarAlert)
	assert.Equal(t, StageLowConfidence, stage)
}

func TestAssemble_NotifiesObserver(t *testing.T) {
	obs := newRecordingObserver()
	e, err := New(Config{Observer: obs, Location: time.UTC})
	require.NoError(t, err)

	e.Assemble(bigBazaarAlert)
	e.Assemble("short")
	e.Assemble("Your payment was successful")

	assert.Len(t, obs.accepted, 1)
	assert.Equal(t, 1, obs.rejected[StageTooShort])
	assert.Equal(t, 1, obs.rejected[StageNoAmount])
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "accepted", StageAccepted.String())
	assert.Equal(t, "too_short", StageTooShort.String())
	assert.Equal(t, "no_keyword", StageNoKeyword.String())
	assert.Equal(t, "no_amount", StageNoAmount.String())
	assert.Equal(t, "low_confidence", StageLowConfidence.String())
	assert.Equal(t, "unknown", Stage(42).String())
}

func TestProcessText(t *testing.T) {
	e := newTestEngine(t)

	text := "Rs 500 debited at DMART on 01/11/2024\n\nSALE! Get offers now\n\nINR 200 credited from SALARY"
	txns := e.ProcessText(text)
	require.Len(t, txns, 2)

	assert.True(t, decimal.NewFromInt(500).Equal(txns[0].Amount))
	assert.Equal(t, "DMART", txns[0].Merchant)
	assert.Equal(t, model.CategoryGroceries, txns[0].Category)
	assert.True(t, time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC).Equal(txns[0].Date))

	assert.True(t, decimal.NewFromInt(200).Equal(txns[1].Amount))
	assert.Equal(t, model.DirectionCredit, txns[1].Direction)
	assert.Equal(t, "SALARY", txns[1].Merchant)
}

func TestProcessText_Idempotent(t *testing.T) {
	e := newTestEngine(t)

	text := bigBazaarAlert + "\n\nRs 300 paid today to SWIGGY\n\nINR 200 credited from SALARY"
	first := e.ProcessText(text)
	second := e.ProcessText(text)

	require.Len(t, first, 3)
	assert.Equal(t, first, second)

	assert.Equal(t, fixedNow, first[1].Date)
	assert.Equal(t, fixedNow, first[2].Date)
}

func TestProcessText_NoTransactions(t *testing.T) {
	e := newTestEngine(t)
	assert.Empty(t, e.ProcessText("SALE ALERT! Get 50% off on all products at Big Bazaar! Hurry! Limited time offer."))
	assert.Empty(t, e.ProcessText(""))
}

func TestValidate(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name string
		txn  model.Transaction
		want bool
	}{
		{"valid", model.Transaction{Amount: decimal.NewFromInt(100), Confidence: 0.5}, true},
		{"zero amount", model.Transaction{Amount: decimal.Zero, Confidence: 0.5}, false},
		{"negative amount", model.Transaction{Amount: decimal.NewFromInt(-5), Confidence: 0.5}, false},
		{"too large", model.Transaction{Amount: decimal.NewFromInt(2_000_000), Confidence: 0.5}, false},
		{"at limit", model.Transaction{Amount: decimal.NewFromInt(1_000_000), Confidence: 0.5}, true},
		{"low confidence", model.Transaction{Amount: decimal.NewFromInt(100), Confidence: 0.2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Validate(tt.txn))
		})
	}
}

func TestWithClock(t *testing.T) {
	e := newTestEngine(t)
	later := fixedNow.AddDate(0, 1, 0)
	shifted := e.WithClock(func() time.Time { return later })

	got := shifted.ExtractDate("paid today")
	assert.Equal(t, later, got.Value)

	orig := e.ExtractDate("paid today")
	assert.Equal(t, fixedNow, orig.Value)
}
