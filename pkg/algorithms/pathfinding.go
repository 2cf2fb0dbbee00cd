// Package algorithms implements the engine's graph computations: hyphal
// growth pathfinding, nutrient flow distribution, and connected components.
// All searches traverse only healthy nodes and edges.
package algorithms

import (
	"sort"

	"github.com/dd0wney/cluso-mycelium/pkg/graph"
)

// DefaultPenaltyMultiplier is the per-acceptance cost inflation applied to
// edges of already discovered paths. Values above 1 push later searches
// toward unused routes.
const DefaultPenaltyMultiplier = 2.0

// Path is an ordered walk from a source to a target. Cost is the sum of the
// true effective costs of its edges, without any transient search penalty.
type Path struct {
	Nodes []string
	Edges []graph.EdgeKey
	Cost  float64
}

// Len returns the number of edges in the path.
func (p Path) Len() int { return len(p.Edges) }

// DiscoverPaths finds up to k diverse paths between source and target,
// mimicking hyphal growth: each accepted path's edges are penalized by the
// multiplier for the remainder of the invocation, so subsequent searches
// prefer fresh routes. Overlap between returned paths is tolerated, not
// forbidden. Results are ordered by ascending cost, then edge count, then
// node sequence. A disconnected pair yields an empty slice and no error.
//
// penaltyMultiplier must be greater than 1; zero selects the default.
// Each accepted path increments the usage counter of its edges.
func DiscoverPaths(g *graph.Graph, source, target string, k int, penaltyMultiplier float64) ([]Path, error) {
	if k <= 0 {
		return nil, graph.InvalidArgumentError("DiscoverPaths", "path count", "k must be positive")
	}
	if penaltyMultiplier == 0 {
		penaltyMultiplier = DefaultPenaltyMultiplier
	}
	if penaltyMultiplier <= 1 {
		return nil, graph.InvalidArgumentError("DiscoverPaths", "penalty", "multiplier must exceed 1")
	}
	if !g.HasNode(source) {
		return nil, graph.UnknownNodeError("DiscoverPaths", source)
	}
	if !g.HasNode(target) {
		return nil, graph.UnknownNodeError("DiscoverPaths", target)
	}

	if source == target {
		return []Path{{Nodes: []string{source}}}, nil
	}

	// Invocation-scoped depletion pressure. Persistent edge state is never
	// modified by the search itself.
	overrides := make(map[graph.EdgeKey]float64)
	targets := map[string]bool{target: true}

	paths := make([]Path, 0, k)
	seen := make(map[string]bool)

	// Penalties compound, so a saturated route eventually yields to an
	// unused one. The attempt budget bounds the invocation when no
	// alternative exists.
	for attempts := 4 * k; attempts > 0 && len(paths) < k; attempts-- {
		path, _, found := ShortestPath(g, source, targets, SearchOptions{Overrides: overrides})
		if !found {
			break
		}

		sig := pathSignature(path)
		if !seen[sig] {
			seen[sig] = true
			paths = append(paths, path)
			for _, key := range path.Edges {
				g.RecordEdgeUse(key)
			}
		}

		for _, key := range path.Edges {
			if _, ok := overrides[key]; !ok {
				overrides[key] = 1.0
			}
			overrides[key] *= penaltyMultiplier
		}
	}

	sortPaths(paths)
	return paths, nil
}

func pathSignature(p Path) string {
	sig := ""
	for _, n := range p.Nodes {
		sig += n + "\x00"
	}
	return sig
}

// sortPaths orders by cost, then edge count, then lexicographic node
// sequence, matching the engine's deterministic ranking contract.
func sortPaths(paths []Path) {
	sort.Slice(paths, func(i, j int) bool {
		if paths[i].Cost != paths[j].Cost {
			return paths[i].Cost < paths[j].Cost
		}
		if paths[i].Len() != paths[j].Len() {
			return paths[i].Len() < paths[j].Len()
		}
		return lessNodeSeq(paths[i].Nodes, paths[j].Nodes)
	})
}

func lessNodeSeq(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
