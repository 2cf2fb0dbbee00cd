package graph

import (
	"time"

	"github.com/dd0wney/cluso-mycelium/pkg/logging"
)

// AddNode inserts a new healthy node with the given resource stock and
// capacity. The stock is clamped to [0, capacity].
func (g *Graph) AddNode(id string, resourceLevel, capacity float64) (*Node, error) {
	if id == "" {
		return nil, InvalidArgumentError("AddNode", "node", "empty identifier")
	}
	if capacity < 0 {
		return nil, InvalidArgumentError("AddNode", "node", "negative capacity")
	}
	if resourceLevel < 0 {
		return nil, InvalidArgumentError("AddNode", "node", "negative resource level")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.nodes[id]; exists {
		return nil, DuplicateError("AddNode", "node", id)
	}

	now := time.Now().Unix()
	node := &Node{
		ID:            id,
		ResourceLevel: clamp(resourceLevel, 0, capacity),
		Capacity:      capacity,
		Health:        Healthy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	g.nodes[id] = node
	g.adjacency[id] = make(map[string]EdgeKey)

	g.mirrorNode(node)
	g.log.Debug("node added", logging.NodeID(id), logging.Float64("capacity", capacity))

	return node.Clone(), nil
}

// GetNode retrieves a node by identifier.
func (g *Graph) GetNode(id string) (*Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	node, exists := g.nodes[id]
	if !exists {
		return nil, UnknownNodeError("GetNode", id)
	}
	return node.Clone(), nil
}

// HasNode reports whether a node exists.
func (g *Graph) HasNode(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, exists := g.nodes[id]
	return exists
}

// RemoveNode deletes a node and all its incident edges.
func (g *Graph) RemoveNode(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.nodes[id]; !exists {
		return NotFoundError("RemoveNode", "node", id)
	}

	for neighbor, key := range g.adjacency[id] {
		delete(g.edges, key)
		delete(g.adjacency[neighbor], id)
		g.mirrorDeleteEdge(key)
	}
	delete(g.adjacency, id)
	delete(g.nodes, id)

	g.mirrorDeleteNode(id)
	g.log.Debug("node removed", logging.NodeID(id))

	return nil
}

// SetResourceLevel replaces a node's resource stock, clamped to
// [0, capacity]. Returns the applied level.
func (g *Graph) SetResourceLevel(id string, level float64) (float64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	node, exists := g.nodes[id]
	if !exists {
		return 0, UnknownNodeError("SetResourceLevel", id)
	}

	node.ResourceLevel = clamp(level, 0, node.Capacity)
	node.UpdatedAt = time.Now().Unix()
	return node.ResourceLevel, nil
}

// AddResource adjusts a node's resource stock by delta, clamped to
// [0, capacity]. Returns the applied level.
func (g *Graph) AddResource(id string, delta float64) (float64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	node, exists := g.nodes[id]
	if !exists {
		return 0, UnknownNodeError("AddResource", id)
	}

	node.ResourceLevel = clamp(node.ResourceLevel+delta, 0, node.Capacity)
	node.UpdatedAt = time.Now().Unix()
	return node.ResourceLevel, nil
}

// MarkNodeHealth transitions a node's health state. Damaging a node also
// damages every incident edge; restoring a node does not resurrect them.
func (g *Graph) MarkNodeHealth(id string, h Health) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	node, exists := g.nodes[id]
	if !exists {
		return UnknownNodeError("MarkNodeHealth", id)
	}
	if node.Health == h {
		return nil
	}

	now := time.Now().Unix()
	node.Health = h
	node.UpdatedAt = now

	if h == Damaged {
		for _, key := range g.adjacency[id] {
			edge := g.edges[key]
			if edge.Health == Damaged {
				continue
			}
			edge.Health = Damaged
			edge.UpdatedAt = now
			g.mirrorEdge(edge)
		}
	}

	g.mirrorNode(node)
	g.log.Debug("node health changed", logging.NodeID(id), logging.String("health", h.String()))

	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
