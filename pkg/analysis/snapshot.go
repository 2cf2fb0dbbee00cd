// Package analysis computes read-only resilience measurements over a
// network without mutating it.
package analysis

import (
	"sort"
	"time"

	"golang.org/x/exp/maps"

	"github.com/dd0wney/cluso-mycelium/pkg/algorithms"
	"github.com/dd0wney/cluso-mycelium/pkg/graph"
)

// Snapshot is a point-in-time view of network health and connectivity.
type Snapshot struct {
	Nodes                 int     `json:"nodes"`
	Edges                 int     `json:"edges"`
	DamagedNodes          int     `json:"damaged_nodes"`
	DamagedEdges          int     `json:"damaged_edges"`
	GrownEdges            int     `json:"grown_edges"`
	Components            int     `json:"components"`
	LargestComponentRatio float64 `json:"largest_component_ratio"`
	MeanPathHops          float64 `json:"mean_path_hops"`
	TotalResource         float64 `json:"total_resource"`
	TotalCapacity         float64 `json:"total_capacity"`
	// LastRepairDuration is the elapsed time of the most recent repair
	// pass. The graph carries no repair history, so Take leaves it zero;
	// the engine fills it in from the healing report.
	LastRepairDuration time.Duration `json:"last_repair_duration"`
}

// Take measures the graph. LargestComponentRatio divides the largest
// healthy component by the total node count, damaged nodes included, so
// the ratio falls as damage accumulates even when survivors stay joined.
// MeanPathHops averages shortest-path hop counts over all node pairs in
// the largest component.
func Take(g *graph.Graph) Snapshot {
	stats := g.Statistics()
	snap := Snapshot{
		Nodes:        int(stats.NodeCount),
		Edges:        int(stats.EdgeCount),
		DamagedNodes: int(stats.DamagedNodes),
		DamagedEdges: int(stats.DamagedEdges),
		GrownEdges:   int(stats.GrownEdges),
	}

	for _, node := range g.Nodes() {
		snap.TotalResource += node.ResourceLevel
		snap.TotalCapacity += node.Capacity
	}

	components := algorithms.Components(g)
	snap.Components = len(components)
	largest := algorithms.LargestComponent(components)
	if stats.NodeCount > 0 {
		snap.LargestComponentRatio = float64(len(largest)) / float64(stats.NodeCount)
	}
	snap.MeanPathHops = meanPathHops(g, largest)
	return snap
}

// meanPathHops runs a BFS from every member of the component and averages
// hop counts across ordered pairs. Edge costs are ignored; this measures
// topological stretch, not transport cost.
func meanPathHops(g *graph.Graph, component []string) float64 {
	if len(component) < 2 {
		return 0
	}

	member := make(map[string]bool, len(component))
	for _, id := range component {
		member[id] = true
	}

	var totalHops, pairs int
	for _, src := range component {
		dist := bfsHops(g, src, member)
		for id, d := range dist {
			if id != src {
				totalHops += d
				pairs++
			}
		}
	}
	if pairs == 0 {
		return 0
	}
	return float64(totalHops) / float64(pairs)
}

func bfsHops(g *graph.Graph, src string, member map[string]bool) map[string]int {
	dist := map[string]int{src: 0}
	queue := []string{src}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		edges, err := g.HealthyNeighbors(cur)
		if err != nil {
			continue
		}
		for _, edge := range edges {
			next := edge.Key.Other(cur)
			if !member[next] {
				continue
			}
			if _, seen := dist[next]; seen {
				continue
			}
			dist[next] = dist[cur] + 1
			queue = append(queue, next)
		}
	}
	return dist
}

// DegreeDistribution maps degree to the number of nodes holding it,
// counting healthy edges only.
func DegreeDistribution(g *graph.Graph) map[int]int {
	out := make(map[int]int)
	for _, id := range g.HealthyNodeIDs() {
		edges, err := g.HealthyNeighbors(id)
		if err != nil {
			continue
		}
		out[len(edges)]++
	}
	return out
}

// Degrees returns the distinct degrees present, ascending.
func Degrees(dist map[int]int) []int {
	keys := maps.Keys(dist)
	sort.Ints(keys)
	return keys
}
