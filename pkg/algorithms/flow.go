package algorithms

import (
	"sort"

	"github.com/dd0wney/cluso-mycelium/pkg/graph"
)

// Flow distribution defaults. The original reinforcement constants were
// empirically chosen; these are tunable configuration, not load-bearing
// magic numbers.
const (
	DefaultRoundLimit        = 16
	DefaultReinforcementRate = 0.1
	DefaultDecayRate         = 0.05
)

// Source supplies resource into the network.
type Source struct {
	Node   string
	Supply float64
}

// Sink demands resource from the network.
type Sink struct {
	Node   string
	Demand float64
}

// FlowOptions tunes a distribution run. Zero values select defaults.
type FlowOptions struct {
	// RoundLimit bounds the number of distribution rounds. Hitting it is
	// partial success, never an error.
	RoundLimit int
	// ReinforcementRate scales how strongly carried flow shrinks an edge's
	// effective cost. Must lie in (0, 1].
	ReinforcementRate float64
	// DecayRate is the per-round drift of idle edges back toward base cost.
	// Must lie in (0, 1].
	DecayRate float64
}

func (o *FlowOptions) applyDefaults() {
	if o.RoundLimit <= 0 {
		o.RoundLimit = DefaultRoundLimit
	}
	if o.ReinforcementRate <= 0 {
		o.ReinforcementRate = DefaultReinforcementRate
	}
	if o.DecayRate <= 0 {
		o.DecayRate = DefaultDecayRate
	}
}

// FlowResult reports a distribution run.
type FlowResult struct {
	// Delivered is the total quantity moved from sources to sinks. Never
	// exceeds min(total supply, total demand).
	Delivered float64
	// Rounds actually executed.
	Rounds int
	// Converged is false only when the round limit cut distribution short.
	Converged bool
	// EdgeFlows is the quantity carried per edge across the whole run.
	EdgeFlows map[graph.EdgeKey]float64
	// RemainingSupply per source after the run.
	RemainingSupply map[string]float64
	// UnmetDemand per sink after the run.
	UnmetDemand map[string]float64
}

// Distribute moves resource from sources to sinks along cheapest available
// capacity-respecting paths, like nutrients through a mycelial mat. Each
// round routes every source with remaining supply to its nearest unmet sink
// by current effective cost, then reinforces edges that carried flow and
// decays idle ones. Validation happens before any mutation.
func Distribute(g *graph.Graph, sources []Source, sinks []Sink, opts FlowOptions) (*FlowResult, error) {
	opts.applyDefaults()
	if opts.ReinforcementRate > 1 {
		return nil, graph.InvalidArgumentError("Distribute", "flow", "reinforcement rate above 1")
	}
	if opts.DecayRate > 1 {
		return nil, graph.InvalidArgumentError("Distribute", "flow", "decay rate above 1")
	}

	supply := make(map[string]float64, len(sources))
	for _, s := range sources {
		if s.Supply < 0 {
			return nil, graph.InvalidArgumentError("Distribute", "source", "negative supply")
		}
		if !g.HasNode(s.Node) {
			return nil, graph.UnknownNodeError("Distribute", s.Node)
		}
		supply[s.Node] += s.Supply
	}
	demand := make(map[string]float64, len(sinks))
	for _, s := range sinks {
		if s.Demand < 0 {
			return nil, graph.InvalidArgumentError("Distribute", "sink", "negative demand")
		}
		if !g.HasNode(s.Node) {
			return nil, graph.UnknownNodeError("Distribute", s.Node)
		}
		demand[s.Node] += s.Demand
	}

	sourceIDs := sortedKeys(supply)

	// Residual capacity per edge for this whole run; the capacity invariant
	// is per-invocation, usage history is cumulative.
	residual := make(map[graph.EdgeKey]float64)
	for _, e := range g.Edges() {
		residual[e.Key] = e.Capacity
	}

	result := &FlowResult{
		EdgeFlows:       make(map[graph.EdgeKey]float64),
		RemainingSupply: supply,
		UnmetDemand:     demand,
	}

	for round := 1; round <= opts.RoundLimit; round++ {
		result.Rounds = round
		roundFlows := make(map[graph.EdgeKey]float64)
		progress := false

		for _, src := range sourceIDs {
			if supply[src] <= costEpsilon {
				continue
			}
			// A node that is both source and unmet sink satisfies itself
			// first, without touching any edge.
			if demand[src] > costEpsilon {
				amount := minFloat(supply[src], demand[src])
				supply[src] -= amount
				demand[src] -= amount
				result.Delivered += amount
				progress = true
			}
			targets := unmetSinks(demand)
			delete(targets, src)
			if len(targets) == 0 {
				continue
			}

			path, sink, found := ShortestPath(g, src, targets, SearchOptions{Residual: residual})
			if !found {
				continue
			}

			amount := minFloat(supply[src], demand[sink], bottleneck(path, residual))
			if amount <= costEpsilon {
				continue
			}

			supply[src] -= amount
			demand[sink] -= amount
			for _, key := range path.Edges {
				residual[key] -= amount
				roundFlows[key] += amount
				result.EdgeFlows[key] += amount
				g.RecordEdgeUse(key)
			}
			// Move the stock itself; levels clamp at node capacity.
			g.AddResource(src, -amount)
			g.AddResource(sink, amount)

			result.Delivered += amount
			progress = true
		}

		reinforceAndDecay(g, roundFlows, opts)

		if !progress {
			result.Converged = true
			break
		}
		if total(supply) <= costEpsilon || total(demand) <= costEpsilon {
			result.Converged = true
			break
		}
	}

	return result, nil
}

// reinforceAndDecay strengthens pathways that carried flow this round and
// lets unused healthy edges drift back toward their base cost.
func reinforceAndDecay(g *graph.Graph, roundFlows map[graph.EdgeKey]float64, opts FlowOptions) {
	for _, e := range g.Edges() {
		if e.Health == graph.Damaged {
			continue
		}
		carried := roundFlows[e.Key]
		if carried > 0 && e.Capacity > 0 {
			frac := carried / e.Capacity
			if frac > 1 {
				frac = 1
			}
			factor := 1 - opts.ReinforcementRate*frac
			if factor <= 0 {
				factor = costEpsilon
			}
			g.ReinforceEdge(e.Key, factor)
		} else {
			g.DecayEdge(e.Key, opts.DecayRate)
		}
	}
}

func unmetSinks(demand map[string]float64) map[string]bool {
	targets := make(map[string]bool, len(demand))
	for id, d := range demand {
		if d > costEpsilon {
			targets[id] = true
		}
	}
	return targets
}

func bottleneck(p Path, residual map[graph.EdgeKey]float64) float64 {
	if len(p.Edges) == 0 {
		return 0
	}
	min := residual[p.Edges[0]]
	for _, key := range p.Edges[1:] {
		if residual[key] < min {
			min = residual[key]
		}
	}
	return min
}

func minFloat(vals ...float64) float64 {
	min := vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

func total(m map[string]float64) float64 {
	var sum float64
	for _, v := range m {
		sum += v
	}
	return sum
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
