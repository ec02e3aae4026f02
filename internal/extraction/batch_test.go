package extraction

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-spice-must-parse/internal/model"
)

func TestProcessBatch(t *testing.T) {
	e := newTestEngine(t)

	texts := []string{
		bigBazaarAlert,
		"nothing interesting here at all",
		"INR 200 credited from SALARY\n\nRs 75 paid at CHAI POINT on 02/11/2024",
	}

	txns := e.ProcessBatch(texts)
	require.Len(t, txns, 3)
	assert.True(t, decimal.RequireFromString("1250.50").Equal(txns[0].Amount))
	assert.True(t, decimal.NewFromInt(200).Equal(txns[1].Amount))
	assert.True(t, decimal.NewFromInt(75).Equal(txns[2].Amount))
}

func TestProcessBatch_Empty(t *testing.T) {
	e := newTestEngine(t)
	assert.Empty(t, e.ProcessBatch(nil))
}

func TestProcessBatchWithProgress(t *testing.T) {
	e := newTestEngine(t)

	texts := make([]string, 25)
	for i := range texts {
		texts[i] = fmt.Sprintf("Rs %d debited at SHOP NUMBER %d", i+1, i)
	}

	var calls, last int
	txns := e.ProcessBatchWithProgress(texts, func(done, total int) {
		calls++
		last = done
		assert.Equal(t, len(texts), total)
	})

	assert.Equal(t, len(texts), calls)
	assert.Equal(t, len(texts), last)
	require.Len(t, txns, len(texts))
	for i, txn := range txns {
		assert.True(t, decimal.NewFromInt(int64(i+1)).Equal(txn.Amount), "position %d", i)
	}
}

type panickingObserver struct {
	merchant string
}

func (o panickingObserver) ObserveAccepted(txn model.Transaction) {
	if txn.Merchant == o.merchant {
		panic("observer failure")
	}
}

func (panickingObserver) ObserveRejected(Stage) {}

func TestProcessBatch_RecoversFromPanics(t *testing.T) {
	e, err := New(Config{Observer: panickingObserver{merchant: "BIG BAZAAR"}, Location: time.UTC})
	require.NoError(t, err)

	txns := e.ProcessBatch([]string{bigBazaarAlert, "INR 200 credited from SALARY"})
	require.Len(t, txns, 1)
	assert.Equal(t, "SALARY", txns[0].Merchant)
}

func TestProcessBatchGrouped(t *testing.T) {
	e := newTestEngine(t)

	groups := e.ProcessBatchGrouped([]string{
		"INR 200 credited from SALARY\n\nRs 75 paid at CHAI POINT on 02/11/2024",
		"nothing interesting here at all",
		bigBazaarAlert,
	}, nil)

	require.Len(t, groups, 3)
	assert.Len(t, groups[0], 2)
	assert.Empty(t, groups[1])
	require.Len(t, groups[2], 1)
	assert.True(t, decimal.RequireFromString("1250.50").Equal(groups[2][0].Amount))
}
