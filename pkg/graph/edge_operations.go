package graph

import (
	"time"

	"github.com/dd0wney/cluso-mycelium/pkg/logging"
)

// AddEdge inserts a new healthy edge between two existing, distinct nodes.
// baseCost must be positive; capacity must be non-negative.
func (g *Graph) AddEdge(a, b string, baseCost, capacity float64) (*Edge, error) {
	return g.addEdge("AddEdge", a, b, baseCost, capacity, false)
}

// AddGrownEdge inserts an edge flagged as grown by the healing controller.
func (g *Graph) AddGrownEdge(a, b string, baseCost, capacity float64) (*Edge, error) {
	return g.addEdge("AddGrownEdge", a, b, baseCost, capacity, true)
}

func (g *Graph) addEdge(op, a, b string, baseCost, capacity float64, grown bool) (*Edge, error) {
	if a == b {
		return nil, InvalidArgumentError(op, "edge", "self-loop")
	}
	if baseCost <= 0 {
		return nil, InvalidArgumentError(op, "edge", "non-positive base cost")
	}
	if capacity < 0 {
		return nil, InvalidArgumentError(op, "edge", "negative capacity")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.nodes[a]; !exists {
		return nil, UnknownEndpointError(op, a)
	}
	if _, exists := g.nodes[b]; !exists {
		return nil, UnknownEndpointError(op, b)
	}

	key := NewEdgeKey(a, b)
	if _, exists := g.edges[key]; exists {
		return nil, DuplicateError(op, "edge", key.String())
	}

	now := time.Now().Unix()
	edge := &Edge{
		Key:           key,
		BaseCost:      baseCost,
		Reinforcement: 1.0,
		Capacity:      capacity,
		Health:        Healthy,
		Grown:         grown,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	g.edges[key] = edge
	g.adjacency[a][b] = key
	g.adjacency[b][a] = key

	g.mirrorEdge(edge)
	g.log.Debug("edge added",
		logging.Edge(key.A, key.B),
		logging.Cost(baseCost),
		logging.Bool("grown", grown),
	)

	return edge.Clone(), nil
}

// GetEdge retrieves the edge between two nodes.
func (g *Graph) GetEdge(a, b string) (*Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	key := NewEdgeKey(a, b)
	edge, exists := g.edges[key]
	if !exists {
		return nil, NotFoundError("GetEdge", "edge", key.String())
	}
	return edge.Clone(), nil
}

// HasEdge reports whether an edge exists between two nodes.
func (g *Graph) HasEdge(a, b string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, exists := g.edges[NewEdgeKey(a, b)]
	return exists
}

// RemoveEdge deletes the edge between two nodes.
func (g *Graph) RemoveEdge(a, b string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := NewEdgeKey(a, b)
	if _, exists := g.edges[key]; !exists {
		return NotFoundError("RemoveEdge", "edge", key.String())
	}

	delete(g.edges, key)
	delete(g.adjacency[key.A], key.B)
	delete(g.adjacency[key.B], key.A)

	g.mirrorDeleteEdge(key)
	g.log.Debug("edge removed", logging.Edge(key.A, key.B))

	return nil
}

// MarkEdgeHealth transitions an edge's health state.
func (g *Graph) MarkEdgeHealth(a, b string, h Health) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := NewEdgeKey(a, b)
	edge, exists := g.edges[key]
	if !exists {
		return NotFoundError("MarkEdgeHealth", "edge", key.String())
	}
	if edge.Health == h {
		return nil
	}

	edge.Health = h
	edge.UpdatedAt = time.Now().Unix()
	g.mirrorEdge(edge)

	return nil
}

// RecordEdgeUse increments an edge's usage counter. The counter is a
// historical signal and never decreases.
func (g *Graph) RecordEdgeUse(key EdgeKey) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	edge, exists := g.edges[key]
	if !exists {
		return NotFoundError("RecordEdgeUse", "edge", key.String())
	}
	edge.UsageCount++
	return nil
}

// ReinforceEdge scales an edge's reinforcement factor down by the given
// factor in (0, 1], modeling strengthening through use. The result is
// clamped to the reinforcement floor so effective cost stays positive.
func (g *Graph) ReinforceEdge(key EdgeKey, factor float64) error {
	if factor <= 0 || factor > 1 {
		return InvalidArgumentError("ReinforceEdge", "edge", "factor outside (0, 1]")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	edge, exists := g.edges[key]
	if !exists {
		return NotFoundError("ReinforceEdge", "edge", key.String())
	}

	edge.Reinforcement *= factor
	if edge.Reinforcement < g.floor {
		edge.Reinforcement = g.floor
	}
	edge.UpdatedAt = time.Now().Unix()
	return nil
}

// DecayEdge drifts an edge's reinforcement back toward 1.0 (effective cost
// toward base cost) by the given rate in (0, 1].
func (g *Graph) DecayEdge(key EdgeKey, rate float64) error {
	if rate <= 0 || rate > 1 {
		return InvalidArgumentError("DecayEdge", "edge", "rate outside (0, 1]")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	edge, exists := g.edges[key]
	if !exists {
		return NotFoundError("DecayEdge", "edge", key.String())
	}

	edge.Reinforcement += (1.0 - edge.Reinforcement) * rate
	edge.UpdatedAt = time.Now().Unix()
	return nil
}
