package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	matchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobscope",
			Name:      "match_requests_total",
			Help:      "Total match queries by outcome",
		},
		[]string{"outcome"},
	)

	matchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "jobscope",
			Name:      "match_duration_seconds",
			Help:      "End-to-end match query duration (vectorize + infer + rank)",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	modelLoadDuration = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "jobscope",
			Name:      "model_load_duration_seconds",
			Help:      "Duration of the one-time artifact load",
		},
	)
)

// RegisterMatchingMetrics registers matching metrics explicitly (no init()),
// so tests exercising the matching service do not touch the global registry.
func RegisterMatchingMetrics() {
	prometheus.MustRegister(matchRequestsTotal)
	prometheus.MustRegister(matchDuration)
	prometheus.MustRegister(modelLoadDuration)
}

// ObserveMatch records one match query with its outcome label.
func ObserveMatch(outcome string, d time.Duration) {
	matchRequestsTotal.WithLabelValues(outcome).Inc()
	matchDuration.Observe(d.Seconds())
}

// ObserveModelLoad records the one-time artifact load duration.
func ObserveModelLoad(d time.Duration) {
	modelLoadDuration.Set(d.Seconds())
}
