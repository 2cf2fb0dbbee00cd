// Package metrics exposes the engine's operational metrics through a
// dedicated prometheus registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry creates a registry with all engine metrics registered.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initGraphMetrics()
	r.initPathfindingMetrics()
	r.initFlowMetrics()
	r.initHealingMetrics()
	return r
}

// Handler returns an HTTP handler serving this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests and custom exposition.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// UpdateGraph refreshes the graph population gauges.
func (r *Registry) UpdateGraph(nodes, edges, damagedNodes, damagedEdges, grownEdges uint64) {
	r.GraphNodesTotal.Set(float64(nodes))
	r.GraphEdgesTotal.Set(float64(edges))
	r.GraphDamagedNodes.Set(float64(damagedNodes))
	r.GraphDamagedEdges.Set(float64(damagedEdges))
	r.GraphGrownEdges.Set(float64(grownEdges))
}

// RecordDiscovery records a path discovery invocation.
func (r *Registry) RecordDiscovery(status string, pathCount int, costs []float64) {
	r.PathDiscoveriesTotal.WithLabelValues(status).Inc()
	if status != "ok" {
		return
	}
	r.PathsPerDiscovery.Observe(float64(pathCount))
	for _, c := range costs {
		r.PathCost.Observe(c)
	}
}

// RecordFlow records a distribution run.
func (r *Registry) RecordFlow(status string, delivered, unmetDemand float64, rounds int) {
	r.FlowRunsTotal.WithLabelValues(status).Inc()
	if status != "ok" && status != "partial" {
		return
	}
	r.FlowDeliveredTotal.Add(delivered)
	r.FlowRoundsPerRun.Observe(float64(rounds))
	r.FlowUnmetDemandLastRun.Set(unmetDemand)
}

// RecordRepair records a damage-and-repair invocation.
func (r *Registry) RecordRepair(status string, edgesGrown, unreachablePairs int, duration time.Duration) {
	r.RepairsTotal.WithLabelValues(status).Inc()
	if status != "ok" {
		return
	}
	r.RepairEdgesGrownTotal.Add(float64(edgesGrown))
	r.RepairUnreachablePairsTotal.Add(float64(unreachablePairs))
	r.RepairDuration.Observe(duration.Seconds())
}
