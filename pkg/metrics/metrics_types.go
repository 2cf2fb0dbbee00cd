package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the engine
type Registry struct {
	// Graph Metrics
	GraphNodesTotal   prometheus.Gauge
	GraphEdgesTotal   prometheus.Gauge
	GraphDamagedNodes prometheus.Gauge
	GraphDamagedEdges prometheus.Gauge
	GraphGrownEdges   prometheus.Gauge

	// Pathfinding Metrics
	PathDiscoveriesTotal *prometheus.CounterVec
	PathsPerDiscovery    prometheus.Histogram
	PathCost             prometheus.Histogram

	// Flow Metrics
	FlowRunsTotal          *prometheus.CounterVec
	FlowDeliveredTotal     prometheus.Counter
	FlowRoundsPerRun       prometheus.Histogram
	FlowUnmetDemandLastRun prometheus.Gauge

	// Healing Metrics
	RepairsTotal                *prometheus.CounterVec
	RepairEdgesGrownTotal       prometheus.Counter
	RepairUnreachablePairsTotal prometheus.Counter
	RepairDuration              prometheus.Histogram

	// Mirror Metrics
	MirrorOpsDroppedTotal prometheus.Counter

	registry *prometheus.Registry
}
