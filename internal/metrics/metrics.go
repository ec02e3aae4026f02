// Package metrics records extraction outcomes as Prometheus metrics and
// writes them in the node_exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Veraticus/the-spice-must-parse/internal/extraction"
	"github.com/Veraticus/the-spice-must-parse/internal/model"
)

// Metrics observes an extraction engine. Each instance owns its registry, so
// several engines (and tests) never collide on registration.
//
// Metrics:
//   - spice_extraction_messages_total{outcome} - segments by assembly outcome
//   - spice_extraction_confidence - overall confidence of accepted candidates
//   - spice_extraction_amount_total{direction} - summed accepted amounts
//   - spice_extraction_category_total{category} - accepted candidates per category
type Metrics struct {
	registry   *prometheus.Registry
	Messages   *prometheus.CounterVec
	Confidence prometheus.Histogram
	Amounts    *prometheus.CounterVec
	Categories *prometheus.CounterVec
}

var _ extraction.Observer = (*Metrics)(nil)

// New creates the extraction metrics on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		Messages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spice_extraction_messages_total",
				Help: "Total number of segments assembled, by outcome",
			},
			[]string{"outcome"},
		),
		Confidence: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "spice_extraction_confidence",
				Help:    "Overall confidence of accepted candidates",
				Buckets: prometheus.LinearBuckets(0.3, 0.1, 8),
			},
		),
		Amounts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spice_extraction_amount_total",
				Help: "Sum of accepted candidate amounts, by direction",
			},
			[]string{"direction"},
		),
		Categories: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spice_extraction_category_total",
				Help: "Total number of accepted candidates, by category",
			},
			[]string{"category"},
		),
	}
}

// ObserveAccepted records an accepted candidate.
func (m *Metrics) ObserveAccepted(txn model.Transaction) {
	m.Messages.WithLabelValues(extraction.StageAccepted.String()).Inc()
	m.Confidence.Observe(txn.Confidence)
	m.Amounts.WithLabelValues(string(txn.Direction)).Add(txn.Amount.InexactFloat64())
	m.Categories.WithLabelValues(string(txn.Category)).Inc()
}

// ObserveRejected records a segment that did not produce a candidate.
func (m *Metrics) ObserveRejected(stage extraction.Stage) {
	m.Messages.WithLabelValues(stage.String()).Inc()
}

// Registry exposes the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile atomically writes the current metric values to path.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
