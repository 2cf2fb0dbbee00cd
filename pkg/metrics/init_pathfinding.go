package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPathfindingMetrics() {
	r.PathDiscoveriesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mycelium_path_discoveries_total",
			Help: "Total number of path discovery invocations",
		},
		[]string{"status"},
	)

	r.PathsPerDiscovery = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mycelium_paths_per_discovery",
			Help:    "Number of paths returned per discovery invocation",
			Buckets: []float64{0, 1, 2, 3, 5, 8},
		},
	)

	r.PathCost = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mycelium_path_cost",
			Help:    "Total effective cost of discovered paths",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)
}
