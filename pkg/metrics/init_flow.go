package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initFlowMetrics() {
	r.FlowRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mycelium_flow_runs_total",
			Help: "Total number of flow distribution runs",
		},
		[]string{"status"},
	)

	r.FlowDeliveredTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "mycelium_flow_delivered_total",
			Help: "Cumulative resource quantity delivered to sinks",
		},
	)

	r.FlowRoundsPerRun = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mycelium_flow_rounds_per_run",
			Help:    "Distribution rounds executed per run",
			Buckets: []float64{1, 2, 4, 8, 16, 32},
		},
	)

	r.FlowUnmetDemandLastRun = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mycelium_flow_unmet_demand_last_run",
			Help: "Total unmet demand after the most recent run",
		},
	)
}
