package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mycelium_graph_nodes_total",
			Help: "Total number of nodes in the graph",
		},
	)

	r.GraphEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mycelium_graph_edges_total",
			Help: "Total number of edges in the graph",
		},
	)

	r.GraphDamagedNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mycelium_graph_damaged_nodes",
			Help: "Number of nodes currently marked damaged",
		},
	)

	r.GraphDamagedEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mycelium_graph_damaged_edges",
			Help: "Number of edges currently marked damaged",
		},
	)

	r.GraphGrownEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mycelium_graph_grown_edges",
			Help: "Number of edges created by the healing controller",
		},
	)
}
