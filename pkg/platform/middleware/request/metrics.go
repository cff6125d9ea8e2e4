package request

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the router-level collectors. Per-verdict counters live with
// the verification engine; this only tracks how long each endpoint takes.
type Metrics struct {
	EndpointLatency *prometheus.HistogramVec
}

// NewMetrics registers the collectors on the default registry. Call it once
// per process; promauto panics on duplicate registration.
func NewMetrics() *Metrics {
	return &Metrics{
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "veripay_endpoint_latency_seconds",
			Help:    "Wall-clock time spent serving each endpoint.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// ObserveEndpointLatency records one request's duration for an endpoint.
func (m *Metrics) ObserveEndpointLatency(endpoint string, durationSeconds float64) {
	m.EndpointLatency.WithLabelValues(endpoint).Observe(durationSeconds)
}
