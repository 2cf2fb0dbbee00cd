package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initHealingMetrics() {
	r.RepairsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mycelium_repairs_total",
			Help: "Total number of damage-and-repair invocations",
		},
		[]string{"status"},
	)

	r.RepairEdgesGrownTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "mycelium_repair_edges_grown_total",
			Help: "Cumulative number of edges grown during repair",
		},
	)

	r.RepairUnreachablePairsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "mycelium_repair_unreachable_pairs_total",
			Help: "Node pairs left unreconnected after budget exhaustion",
		},
	)

	r.RepairDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mycelium_repair_duration_seconds",
			Help:    "Repair invocation duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
	)

	r.MirrorOpsDroppedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "mycelium_mirror_ops_dropped_total",
			Help: "Mirror operations dropped due to backpressure",
		},
	)
}
