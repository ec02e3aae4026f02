package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-spice-must-parse/internal/model"
)

// syncBuffer provides thread-safe access to a bytes.Buffer.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func sampleTransactions() []model.Transaction {
	return []model.Transaction{
		{
			Date:        time.Date(2024, 11, 28, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.RequireFromString("1250.5"),
			Description: "Rs. 1250.50 debited at BIG BAZAAR on 28-11-2024",
			Merchant:    "Big Bazaar",
			Direction:   model.DirectionDebit,
			Category:    model.CategoryGroceries,
			Confidence:  0.8,
		},
		{
			Date:        time.Date(2024, 11, 29, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.NewFromInt(50000),
			Description: "Salary of Rs 50000 credited to your account",
			Merchant:    model.UnknownMerchant,
			Direction:   model.DirectionCredit,
			Category:    model.CategoryOther,
			Confidence:  0.42,
		},
	}
}

func TestRenderTransactions(t *testing.T) {
	out := RenderTransactions(sampleTransactions())

	for _, want := range []string{"DATE", "MERCHANT", "2024-11-28", "1250.50", "Big Bazaar", "groceries", "0.80", "50000.00", "credit", "0.42"} {
		assert.Contains(t, out, want)
	}

	assert.Contains(t, RenderTransactions(nil), "No transactions found")
}

func TestRenderRecommendations(t *testing.T) {
	recs := []model.Recommendation{
		{
			Type:                    model.RecommendationSubscription,
			Title:                   "Review Subscriptions",
			Description:             "You have 2 recurring subscriptions",
			Difficulty:              model.DifficultyEasy,
			Category:                "entertainment",
			ActionItems:             []string{"Cancel unused services"},
			PotentialMonthlySavings: 149.5,
		},
	}

	out := RenderRecommendations(recs)
	assert.Contains(t, out, "1. Review Subscriptions")
	assert.Contains(t, out, "149.50")
	assert.Contains(t, out, "easy")
	assert.Contains(t, out, "Cancel unused services")

	assert.Contains(t, RenderRecommendations(nil), "No savings opportunities found")
}

func TestRenderPotential(t *testing.T) {
	out := RenderPotential(model.SavingsPotential{
		TotalMonthlyPotential:  780,
		CurrentMonthlySpending: 1200,
		PotentialSavingsRate:   65,
		RecommendationsCount:   5,
		EasyWins:               1,
		MediumEffort:           4,
	})

	assert.Contains(t, out, "Savings Potential")
	assert.Contains(t, out, "780.00")
	assert.Contains(t, out, "1200.00")
	assert.Contains(t, out, "65.0%")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleTransactions()))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "1250.5", decoded[0]["amount"])
	assert.Equal(t, "debit", decoded[0]["direction"])
	assert.NotContains(t, decoded[0], "balance_after")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a b", truncate("a \n  b", 10))
	assert.Equal(t, "₹₹₹₹…", truncate("₹₹₹₹₹₹₹", 5))
}

func TestBatchProgress(t *testing.T) {
	var buf bytes.Buffer
	progress := NewBatchProgress(&buf, 3, "Extracting")

	callback := progress.Callback()
	callback(1, 3)
	callback(3, 3)
	progress.Finish()

	assert.True(t, progress.IsFinished())
	assert.Contains(t, buf.String(), "Extracting")
}

func TestReadAll(t *testing.T) {
	got, err := ReadAll(context.Background(), strings.NewReader("Rs 500 debited\n"))
	require.NoError(t, err)
	assert.Equal(t, "Rs 500 debited\n", got)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	blocked, w := io.Pipe()
	defer func() { _ = w.Close() }()

	_, err = ReadAll(ctx, blocked)
	assert.ErrorIs(t, err, ErrInputCancelled)
}

func TestInterruptHandler(t *testing.T) {
	t.Run("interrupt cancels and explains", func(t *testing.T) {
		output := &syncBuffer{}
		handler := NewInterruptHandler(output)
		ctx := handler.HandleInterrupts(context.Background(), true)

		handler.interrupt()
		handler.interrupt()

		<-ctx.Done()
		assert.True(t, handler.WasInterrupted())
		assert.Equal(t, 1, strings.Count(output.String(), "Extraction interrupted!"))
		assert.Contains(t, output.String(), "were saved")
	})

	t.Run("no save message when not saving", func(t *testing.T) {
		output := &syncBuffer{}
		handler := NewInterruptHandler(output)
		_ = handler.HandleInterrupts(context.Background(), false)

		handler.interrupt()

		assert.NotContains(t, output.String(), "were saved")
	})

	t.Run("parent cancel is not an interrupt", func(t *testing.T) {
		output := &syncBuffer{}
		handler := NewInterruptHandler(output)
		parent, cancel := context.WithCancel(context.Background())
		ctx := handler.HandleInterrupts(parent, true)

		cancel()
		<-ctx.Done()

		assert.False(t, handler.WasInterrupted())
		assert.Empty(t, output.String())
	})

	t.Run("stop is not an interrupt", func(t *testing.T) {
		output := &syncBuffer{}
		handler := NewInterruptHandler(output)
		ctx := handler.HandleInterrupts(context.Background(), false)

		handler.Stop()
		<-ctx.Done()

		assert.False(t, handler.WasInterrupted())
	})

	t.Run("nil writer defaults to stderr", func(t *testing.T) {
		assert.NotNil(t, NewInterruptHandler(nil).writer)
	})
}
