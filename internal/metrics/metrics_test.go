package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-spice-must-parse/internal/extraction"
)

func newObservedEngine(t *testing.T) (*extraction.Engine, *Metrics) {
	t.Helper()

	m := New()
	engine, err := extraction.New(extraction.Config{
		Now:      func() time.Time { return time.Date(2024, 11, 30, 12, 0, 0, 0, time.UTC) },
		Location: time.UTC,
		Observer: m,
	})
	require.NoError(t, err)
	return engine, m
}

func TestMetrics_ObservesEngine(t *testing.T) {
	engine, m := newObservedEngine(t)

	text := "Rs. 500 debited from A/c XX1234 at SWIGGY on 28-11-2024.\n\n" +
		"Your OTP is 4821, do not share it with anyone.\n\n" +
		"ok"
	txns := engine.ProcessText(text)
	require.Len(t, txns, 1)

	assert.InDelta(t, 1, testutil.ToFloat64(m.Messages.WithLabelValues("accepted")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Messages.WithLabelValues("no_keyword")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Messages.WithLabelValues("too_short")), 0)
	assert.InDelta(t, 500, testutil.ToFloat64(m.Amounts.WithLabelValues("debit")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Categories.WithLabelValues(string(txns[0].Category))), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.Confidence))
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	first := New()
	second := New()

	first.ObserveRejected(extraction.StageNoAmount)

	assert.InDelta(t, 1, testutil.ToFloat64(first.Messages.WithLabelValues("no_amount")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(second.Messages.WithLabelValues("no_amount")), 0)
	assert.NotSame(t, first.Registry(), second.Registry())
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.ObserveRejected(extraction.StageLowConfidence)

	path := filepath.Join(t.TempDir(), "spice.prom")
	require.NoError(t, m.WriteTextfile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `spice_extraction_messages_total{outcome="low_confidence"} 1`)

	err = m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "spice.prom"))
	assert.Error(t, err)
}
