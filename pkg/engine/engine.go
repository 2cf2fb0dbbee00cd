// Package engine assembles the mycelium network model, pathfinding, flow
// distribution, and self-healing behind one facade.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/dd0wney/cluso-mycelium/pkg/algorithms"
	"github.com/dd0wney/cluso-mycelium/pkg/analysis"
	"github.com/dd0wney/cluso-mycelium/pkg/config"
	"github.com/dd0wney/cluso-mycelium/pkg/graph"
	"github.com/dd0wney/cluso-mycelium/pkg/healing"
	"github.com/dd0wney/cluso-mycelium/pkg/logging"
	"github.com/dd0wney/cluso-mycelium/pkg/metrics"
	"github.com/dd0wney/cluso-mycelium/pkg/mirror"
)

// Engine owns a network and exposes the resilience operations over it.
type Engine struct {
	cfg     config.Config
	graph   *graph.Graph
	healer  *healing.Controller
	log     logging.Logger
	metrics *metrics.Registry
	mirror  *mirror.Dispatcher

	lastRepair time.Duration
}

// New builds an engine from configuration. A mirror driver in cfg opens the
// matching backend; an empty driver runs purely in-memory.
func New(ctx context.Context, cfg config.Config, log logging.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if log == nil {
		log = logging.NewNopLogger()
	}

	e := &Engine{
		cfg:     cfg,
		log:     log.With(logging.Component("engine")),
		metrics: metrics.NewRegistry(),
	}

	backend, err := openBackend(ctx, cfg.Mirror)
	if err != nil {
		return nil, err
	}
	var m mirror.Mirror
	if backend != nil {
		e.mirror = mirror.NewDispatcher(backend, log)
		e.mirror.OnDrop(e.metrics.MirrorOpsDroppedTotal.Inc)
		m = e.mirror
	}

	e.graph = graph.NewWithOptions(graph.Options{
		Mirror:             m,
		Logger:             log,
		ReinforcementFloor: cfg.Flow.ReinforcementFloor,
	})
	e.healer = healing.NewController(e.graph, cfg.Healing, cfg.Pathfinding.PenaltyMultiplier, log, e.metrics)
	return e, nil
}

func openBackend(ctx context.Context, cfg config.Mirror) (mirror.Backend, error) {
	switch cfg.Driver {
	case "":
		return nil, nil
	case "memory":
		return mirror.NewMemoryBackend(), nil
	case "postgres":
		return mirror.NewPGBackend(ctx, cfg.DatabaseURL)
	case "nng":
		return mirror.NewNNGBackend(cfg.ListenAddr)
	default:
		return nil, fmt.Errorf("unknown mirror driver: %s", cfg.Driver)
	}
}

// Graph exposes the underlying network for topology construction.
func (e *Engine) Graph() *graph.Graph {
	return e.graph
}

// Metrics exposes the engine's metrics registry.
func (e *Engine) Metrics() *metrics.Registry {
	return e.metrics
}

// DiscoverPaths finds up to maxPaths cost-diverse routes between two nodes.
// Exactly zero maxPaths uses the configured default; negative is rejected.
func (e *Engine) DiscoverPaths(source, target string, maxPaths int) ([]algorithms.Path, error) {
	if maxPaths < 0 {
		e.metrics.RecordDiscovery("error", 0, nil)
		return nil, graph.InvalidArgumentError("DiscoverPaths", "paths", "negative path count")
	}
	if maxPaths == 0 {
		maxPaths = e.cfg.Pathfinding.MaxPaths
	}
	paths, err := algorithms.DiscoverPaths(e.graph, source, target, maxPaths, e.cfg.Pathfinding.PenaltyMultiplier)
	if err != nil {
		e.metrics.RecordDiscovery("error", 0, nil)
		return nil, err
	}

	costs := make([]float64, len(paths))
	for i, p := range paths {
		costs[i] = p.Cost
	}
	e.metrics.RecordDiscovery("ok", len(paths), costs)
	e.updateGraphMetrics()
	e.log.Debug("paths discovered",
		logging.NodeID(source),
		logging.String("target", target),
		logging.Count(len(paths)),
	)
	return paths, nil
}

// DistributeFlow runs one steady-state distribution from sources to sinks.
func (e *Engine) DistributeFlow(sources []algorithms.Source, sinks []algorithms.Sink) (*algorithms.FlowResult, error) {
	opts := algorithms.FlowOptions{
		RoundLimit:        e.cfg.Flow.RoundLimit,
		ReinforcementRate: e.cfg.Flow.ReinforcementRate,
		DecayRate:         e.cfg.Flow.DecayRate,
	}
	result, err := algorithms.Distribute(e.graph, sources, sinks, opts)
	if err != nil {
		e.metrics.RecordFlow("error", 0, 0, 0)
		return nil, err
	}

	status := "ok"
	if !result.Converged {
		status = "partial"
	}
	e.metrics.RecordFlow(status, result.Delivered, total(result.UnmetDemand), result.Rounds)
	e.updateGraphMetrics()
	e.log.Info("flow distributed",
		logging.Float64("delivered", result.Delivered),
		logging.Int("rounds", result.Rounds),
		logging.Bool("converged", result.Converged),
	)
	return result, nil
}

// ApplyDamage marks nodes damaged and repairs the topology within the
// configured growth budget.
func (e *Engine) ApplyDamage(nodeIDs []string) (*healing.Report, error) {
	report, err := e.healer.ApplyDamage(nodeIDs)
	if err != nil {
		return nil, err
	}
	e.lastRepair = report.Elapsed
	e.updateGraphMetrics()
	return report, nil
}

// MetricsSnapshot measures the current network without mutating it. The
// snapshot carries the elapsed time of the most recent repair pass.
func (e *Engine) MetricsSnapshot() analysis.Snapshot {
	e.updateGraphMetrics()
	snap := analysis.Take(e.graph)
	snap.LastRepairDuration = e.lastRepair
	return snap
}

// Close flushes the mirror and releases its backend.
func (e *Engine) Close() error {
	if e.mirror == nil {
		return nil
	}
	return e.mirror.Close()
}

func (e *Engine) updateGraphMetrics() {
	stats := e.graph.Statistics()
	e.metrics.UpdateGraph(stats.NodeCount, stats.EdgeCount,
		stats.DamagedNodes, stats.DamagedEdges, stats.GrownEdges)
}

func total(m map[string]float64) float64 {
	var sum float64
	for _, v := range m {
		sum += v
	}
	return sum
}
