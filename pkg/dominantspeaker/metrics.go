package dominantspeaker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is optional Prometheus instrumentation for a Conference's
// decision loop. A nil *Metrics is always safe to use: every call site
// that touches it checks for nil first, so instrumentation never changes
// decision outcomes. Grounded on the pack's orchestrator/metrics.go
// promauto style.
type Metrics struct {
	ticks            prometheus.Counter
	decisions        prometheus.Counter
	decisionDuration prometheus.Histogram
	dominantChanges  prometheus.Counter
	workerSpawns     prometheus.Counter
	spawnFailures    prometheus.Counter
	evictions        prometheus.Counter
}

// NewMetrics registers a fresh set of collectors on reg. Pass
// prometheus.DefaultRegisterer to use the global registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ticks: factory.NewCounter(prometheus.CounterOpts{
			Name: "domsd_decision_ticks_total",
			Help: "Total decision worker ticks across all conferences.",
		}),
		decisions: factory.NewCounter(prometheus.CounterOpts{
			Name: "domsd_decisions_total",
			Help: "Total global decision-rule evaluations.",
		}),
		decisionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "domsd_decision_duration_seconds",
			Help:    "Time spent evaluating the global decision rule.",
			Buckets: prometheus.DefBuckets,
		}),
		dominantChanges: factory.NewCounter(prometheus.CounterOpts{
			Name: "domsd_dominant_changes_total",
			Help: "Total dominant-speaker transitions fired to observers.",
		}),
		workerSpawns: factory.NewCounter(prometheus.CounterOpts{
			Name: "domsd_worker_spawns_total",
			Help: "Total decision worker spawns.",
		}),
		spawnFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "domsd_worker_spawn_failures_total",
			Help: "Total decision worker spawn attempts rejected by the pool.",
		}),
		evictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "domsd_speaker_evictions_total",
			Help: "Total speakers evicted by the idle sweep.",
		}),
	}
}
