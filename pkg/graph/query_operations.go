package graph

import (
	"sort"
)

// Neighbors returns clones of all edges incident to a node, sorted by the
// opposite endpoint's identifier.
func (g *Graph) Neighbors(id string) ([]*Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	adj, exists := g.adjacency[id]
	if !exists {
		return nil, UnknownNodeError("Neighbors", id)
	}

	neighbors := make([]string, 0, len(adj))
	for n := range adj {
		neighbors = append(neighbors, n)
	}
	sort.Strings(neighbors)

	edges := make([]*Edge, 0, len(neighbors))
	for _, n := range neighbors {
		edges = append(edges, g.edges[adj[n]].Clone())
	}
	return edges, nil
}

// HealthyNeighbors returns clones of traversable incident edges: both the
// edge and the opposite endpoint must be healthy. A damaged node has no
// traversable edges at all.
func (g *Graph) HealthyNeighbors(id string) ([]*Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	node, exists := g.nodes[id]
	if !exists {
		return nil, UnknownNodeError("HealthyNeighbors", id)
	}
	if node.Health == Damaged {
		return nil, nil
	}

	adj := g.adjacency[id]
	neighbors := make([]string, 0, len(adj))
	for n := range adj {
		neighbors = append(neighbors, n)
	}
	sort.Strings(neighbors)

	edges := make([]*Edge, 0, len(neighbors))
	for _, n := range neighbors {
		edge := g.edges[adj[n]]
		if edge.Health == Damaged || g.nodes[n].Health == Damaged {
			continue
		}
		edges = append(edges, edge.Clone())
	}
	return edges, nil
}

// Degree returns the number of edges incident to a node.
func (g *Graph) Degree(id string) (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	adj, exists := g.adjacency[id]
	if !exists {
		return 0, UnknownNodeError("Degree", id)
	}
	return len(adj), nil
}

// Nodes returns clones of all nodes, sorted by identifier.
func (g *Graph) Nodes() []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	nodes := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n.Clone())
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes
}

// NodeIDs returns all node identifiers, sorted.
func (g *Graph) NodeIDs() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// HealthyNodeIDs returns identifiers of all healthy nodes, sorted.
func (g *Graph) HealthyNodeIDs() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ids := make([]string, 0, len(g.nodes))
	for id, n := range g.nodes {
		if n.Health == Healthy {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Edges returns clones of all edges, sorted by key.
func (g *Graph) Edges() []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	edges := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		edges = append(edges, e.Clone())
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].Key.Less(edges[j].Key) })
	return edges
}

// Statistics scans the graph and summarizes its contents. O(V + E).
func (g *Graph) Statistics() Statistics {
	g.mu.RLock()
	defer g.mu.RUnlock()

	stats := Statistics{
		NodeCount: uint64(len(g.nodes)),
		EdgeCount: uint64(len(g.edges)),
	}
	for _, n := range g.nodes {
		if n.Health == Damaged {
			stats.DamagedNodes++
		}
	}
	for _, e := range g.edges {
		if e.Health == Damaged {
			stats.DamagedEdges++
		}
		if e.Grown {
			stats.GrownEdges++
		}
	}
	return stats
}
