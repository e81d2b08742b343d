package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the scan pipeline.
type Metrics struct {
	ScansTotal      *prometheus.CounterVec
	RejectionsTotal *prometheus.CounterVec
	ConflictRetries prometheus.Counter
	ResolveDuration prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ScansTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "attendance",
			Name:      "scans_total",
			Help:      "Committed attendance records by mode and action.",
		}, []string{"mode", "action"}),
		RejectionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "attendance",
			Name:      "rejections_total",
			Help:      "Scans rejected by policy, by reason.",
		}, []string{"reason"}),
		ConflictRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "attendance",
			Name:      "ledger_conflict_retries_total",
			Help:      "Conditional appends retried after a ledger conflict.",
		}),
		ResolveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "attendance",
			Name:      "resolve_duration_seconds",
			Help:      "End-to-end resolve-and-commit latency.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
