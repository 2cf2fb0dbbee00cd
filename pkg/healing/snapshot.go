package healing

import (
	"github.com/dd0wney/cluso-mycelium/pkg/graph"
)

// healthySnapshot is a frozen copy of the graph's healthy adjacency, taken
// before damage is applied. Distance queries against it give the pre-damage
// shortest distances used to price grown edges.
type healthySnapshot struct {
	neighbors map[string][]*graph.Edge
}

func snapshotHealthy(g *graph.Graph) *healthySnapshot {
	snap := &healthySnapshot{neighbors: make(map[string][]*graph.Edge)}
	for _, id := range g.HealthyNodeIDs() {
		edges, err := g.HealthyNeighbors(id)
		if err != nil {
			continue
		}
		snap.neighbors[id] = edges
	}
	return snap
}

func (s *healthySnapshot) HealthyNeighbors(id string) ([]*graph.Edge, error) {
	return s.neighbors[id], nil
}
