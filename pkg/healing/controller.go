// Package healing implements the damage response: marking failed nodes,
// redistributing their resource stock, and restoring connectivity by
// rediscovering routes or growing compensating edges under a budget.
package healing

import (
	"sort"
	"time"

	"github.com/dd0wney/cluso-mycelium/pkg/algorithms"
	"github.com/dd0wney/cluso-mycelium/pkg/config"
	"github.com/dd0wney/cluso-mycelium/pkg/graph"
	"github.com/dd0wney/cluso-mycelium/pkg/logging"
	"github.com/dd0wney/cluso-mycelium/pkg/metrics"
)

// Controller orchestrates damage application and topological repair.
type Controller struct {
	graph   *graph.Graph
	cfg     config.Healing
	penalty float64
	log     logging.Logger
	metrics *metrics.Registry
}

// NewController creates a controller over the given graph. The metrics
// registry may be nil.
func NewController(g *graph.Graph, cfg config.Healing, penaltyMultiplier float64, log logging.Logger, reg *metrics.Registry) *Controller {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Controller{
		graph:   g,
		cfg:     cfg,
		penalty: penaltyMultiplier,
		log:     log.With(logging.Component("healing")),
		metrics: reg,
	}
}

// brokenPair is a node pair that damage disconnected, with its pre-damage
// shortest distance.
type brokenPair struct {
	u, v      string
	priorDist float64
}

// ApplyDamage marks the listed nodes damaged, redistributes their stock to
// surviving neighbors, and attempts to restore connectivity for every pair
// the damage separated. Pairs are processed closest-first by pre-damage
// distance; once the growth budget is spent the remainder is reported as
// unreachable, which is a normal outcome, not an error.
//
// Invoking again with the same damage set and no intervening topology
// change grows zero new edges: discovery now finds the edges grown before.
func (c *Controller) ApplyDamage(nodeIDs []string) (*Report, error) {
	start := time.Now()

	// All-or-nothing validation before any mutation.
	for _, id := range nodeIDs {
		if !c.graph.HasNode(id) {
			if c.metrics != nil {
				c.metrics.RecordRepair("error", 0, 0, 0)
			}
			return nil, graph.UnknownNodeError("ApplyDamage", id)
		}
	}

	report := newReport(nodeIDs)

	pre := snapshotHealthy(c.graph)
	preComponents := algorithms.Components(c.graph)
	report.ComponentsBefore = len(preComponents)

	c.markDamage(dedupe(nodeIDs))

	afterDamage := algorithms.Components(c.graph)
	report.ComponentsAfterDamage = len(afterDamage)

	pairs := c.brokenPairs(pre, preComponents, afterDamage)
	c.reconnect(pairs, report)

	afterRepair := algorithms.Components(c.graph)
	report.ComponentsAfterRepair = len(afterRepair)
	report.Elapsed = time.Since(start)

	c.log.Info("repair complete",
		logging.Count(len(report.EdgesAdded)),
		logging.Int("pairs_reconnected", report.PairsReconnected),
		logging.Int("pairs_unreachable", report.PairsUnreachable),
		logging.Int("components_after", report.ComponentsAfterRepair),
		logging.Elapsed(report.Elapsed),
	)
	if c.metrics != nil {
		c.metrics.RecordRepair("ok", len(report.EdgesAdded), report.PairsUnreachable, report.Elapsed)
	}

	return report, nil
}

// markDamage flags each node and spreads its remaining stock across its
// surviving healthy neighbors before the mark takes effect.
func (c *Controller) markDamage(ids []string) {
	for _, id := range ids {
		node, err := c.graph.GetNode(id)
		if err != nil || node.Health == graph.Damaged {
			continue
		}

		neighbors, _ := c.graph.HealthyNeighbors(id)
		if node.ResourceLevel > 0 && len(neighbors) > 0 {
			share := node.ResourceLevel / float64(len(neighbors))
			for _, edge := range neighbors {
				c.graph.AddResource(edge.Key.Other(id), share)
			}
			c.graph.SetResourceLevel(id, 0)
			c.log.Debug("stock redistributed",
				logging.NodeID(id),
				logging.Float64("share", share),
				logging.Count(len(neighbors)),
			)
		}

		c.graph.MarkNodeHealth(id, graph.Damaged)
	}
}

// brokenPairs lists pairs reachable before damage but separated after,
// ordered by ascending pre-damage distance, then identifiers.
func (c *Controller) brokenPairs(pre algorithms.CostGraph, preComponents, afterDamage [][]string) []brokenPair {
	afterIndex := algorithms.ComponentIndex(afterDamage)

	pairs := make([]brokenPair, 0)
	for _, comp := range preComponents {
		for i := 0; i < len(comp); i++ {
			ci, iOK := afterIndex[comp[i]]
			if !iOK {
				continue // node itself is damaged now
			}
			for j := i + 1; j < len(comp); j++ {
				cj, jOK := afterIndex[comp[j]]
				if !jOK || ci == cj {
					continue
				}
				path, _, found := algorithms.ShortestPath(pre, comp[i],
					map[string]bool{comp[j]: true}, algorithms.SearchOptions{})
				if !found {
					continue
				}
				pairs = append(pairs, brokenPair{u: comp[i], v: comp[j], priorDist: path.Cost})
			}
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].priorDist != pairs[j].priorDist {
			return pairs[i].priorDist < pairs[j].priorDist
		}
		if pairs[i].u != pairs[j].u {
			return pairs[i].u < pairs[j].u
		}
		return pairs[i].v < pairs[j].v
	})
	return pairs
}

// reconnect walks the broken pairs: pairs that rediscover a route need no
// structural change; the rest get a grown edge while the budget lasts.
func (c *Controller) reconnect(pairs []brokenPair, report *Report) {
	budget := c.cfg.GrowthBudget

	for _, p := range pairs {
		paths, err := algorithms.DiscoverPaths(c.graph, p.u, p.v, 1, c.penalty)
		if err != nil {
			continue
		}
		if len(paths) > 0 {
			report.PairsReconnected++
			continue
		}

		if budget <= 0 {
			report.PairsUnreachable++
			continue
		}

		baseCost := c.cfg.GrowthCostPenalty * p.priorDist
		edge, err := c.graph.AddGrownEdge(p.u, p.v, baseCost, c.cfg.GrowthCapacity)
		if err != nil {
			c.log.Warn("edge growth failed",
				logging.Edge(p.u, p.v),
				logging.Error(err),
			)
			report.PairsUnreachable++
			continue
		}

		budget--
		report.EdgesAdded = append(report.EdgesAdded, edge.Key)
		report.PairsReconnected++
		c.log.Info("compensating edge grown",
			logging.Edge(edge.Key.A, edge.Key.B),
			logging.Cost(baseCost),
			logging.Int("budget_left", budget),
		)
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
