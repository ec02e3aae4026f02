package extraction

import (
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Veraticus/the-spice-must-parse/internal/model"
)

// Field weights of the aggregate confidence. They sum to one and, together
// with the acceptance threshold, decide which candidates are accepted.
const (
	WeightAmount    = 0.5
	WeightDate      = 0.2
	WeightDirection = 0.15
	WeightMerchant  = 0.1
	WeightCategory  = 0.05
)

// Stage is the terminal state a message reaches in the assembler.
type Stage int

// Assembler stages.
const (
	StageAccepted Stage = iota
	StageTooShort
	StageNoKeyword
	StageNoAmount
	StageLowConfidence
)

// String returns the stage name used in logs and metric labels.
func (s Stage) String() string {
	switch s {
	case StageAccepted:
		return "accepted"
	case StageTooShort:
		return "too_short"
	case StageNoKeyword:
		return "no_keyword"
	case StageNoAmount:
		return "no_amount"
	case StageLowConfidence:
		return "low_confidence"
	default:
		return "unknown"
	}
}

// Assemble runs a single message through the gates and extractors. The
// transaction is only meaningful when the returned stage is StageAccepted.
func (e *Engine) Assemble(message string) (model.Transaction, Stage) {
	txn, stage := e.assemble(message)
	if e.observer != nil {
		if stage == StageAccepted {
			e.observer.ObserveAccepted(txn)
		} else {
			e.observer.ObserveRejected(stage)
		}
	}
	if stage != StageAccepted {
		slog.Debug("Message rejected", "stage", stage.String(), "length", utf8.RuneCountInString(message))
	}
	return txn, stage
}

func (e *Engine) assemble(message string) (model.Transaction, Stage) {
	message = strings.TrimSpace(message)
	if utf8.RuneCountInString(message) < MinMessageLength {
		return model.Transaction{}, StageTooShort
	}

	if !e.hasIndicator(message) {
		return model.Transaction{}, StageNoKeyword
	}

	amount := e.ExtractAmount(message)
	if !amount.Found || !amount.Value.IsPositive() {
		return model.Transaction{}, StageNoAmount
	}

	date := e.ExtractDate(message)
	direction := e.ExtractDirection(message)
	merchant := e.ExtractMerchant(message)
	category := e.Categorize(message, merchant.Value)

	confidence := amount.Confidence*WeightAmount +
		date.Confidence*WeightDate +
		direction.Confidence*WeightDirection +
		merchant.Confidence*WeightMerchant +
		category.Confidence*WeightCategory

	if confidence < e.minConfidence {
		return model.Transaction{}, StageLowConfidence
	}

	txn := model.Transaction{
		Description: message,
		Amount:      amount.Value,
		Date:        valueOr(date, e.now()),
		Direction:   direction.Value,
		Merchant:    valueOr(merchant, model.UnknownMerchant),
		Category:    valueOr(category, model.CategoryOther),
		Confidence:  confidence,
	}

	md := e.ExtractMetadata(message)
	txn.AccountLastFour = md.AccountLastFour
	txn.ReferenceNumber = md.ReferenceNumber
	txn.BalanceAfter = md.BalanceAfter

	return txn, StageAccepted
}

func (e *Engine) hasIndicator(message string) bool {
	lower := strings.ToLower(message)
	for _, indicator := range e.indicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

func valueOr[T any](f Field[T], fallback T) T {
	if f.Found {
		return f.Value
	}
	return fallback
}

// ProcessText segments a text blob and returns every accepted candidate in message order.
func (e *Engine) ProcessText(text string) []model.Transaction {
	var txns []model.Transaction
	for message := range e.Segments(text) {
		if txn, stage := e.Assemble(message); stage == StageAccepted {
			txns = append(txns, txn)
		}
	}
	return txns
}

// Validate reports whether a candidate has a plausible positive amount and
// meets the engine's confidence threshold.
func (e *Engine) Validate(txn model.Transaction) bool {
	if !txn.Amount.IsPositive() || txn.Amount.GreaterThan(maxAmount) {
		return false
	}
	return txn.Confidence >= e.minConfidence
}

// WithClock returns a copy of the engine that resolves relative and missing
// dates against now.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	clone := *e
	clone.now = now
	return &clone
}
