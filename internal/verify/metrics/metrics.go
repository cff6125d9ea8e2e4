// Package metrics provides Prometheus metrics for the verification engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all verification engine metrics.
type Metrics struct {
	// Verdict outcomes by validity and reason
	VerdictsTotal *prometheus.CounterVec

	// Single-verification latency
	VerifyDurationSeconds prometheus.Histogram

	// Bulk request batch sizes
	BulkBatchSize prometheus.Histogram

	// Lookup endpoint results (found, not_found)
	LookupsTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered.
func New() *Metrics {
	return &Metrics{
		VerdictsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veripay_verify_verdicts_total",
			Help: "Total number of verification verdicts by outcome and reason",
		}, []string{"outcome", "reason"}),

		VerifyDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "veripay_verify_duration_seconds",
			Help:    "Duration of single invoice verifications",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),

		BulkBatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "veripay_verify_bulk_batch_size",
			Help:    "Number of items per bulk verification request",
			Buckets: []float64{1, 5, 10, 25, 50, 100},
		}),

		LookupsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veripay_invoice_lookups_total",
			Help: "Total number of invoice lookups by result",
		}, []string{"result"}),
	}
}

// IncrementVerdict records a verdict by validity and reason.
func (m *Metrics) IncrementVerdict(valid bool, reason string) {
	outcome := "invalid"
	if valid {
		outcome = "valid"
	}
	m.VerdictsTotal.WithLabelValues(outcome, reason).Inc()
}

// ObserveVerifyLatency records the duration of one verification.
func (m *Metrics) ObserveVerifyLatency(d time.Duration) {
	m.VerifyDurationSeconds.Observe(d.Seconds())
}

// ObserveBatchSize records the size of a bulk verification request.
func (m *Metrics) ObserveBatchSize(n int) {
	m.BulkBatchSize.Observe(float64(n))
}

// IncrementLookup records a lookup endpoint result.
func (m *Metrics) IncrementLookup(result string) {
	m.LookupsTotal.WithLabelValues(result).Inc()
}
