package mirror

import "sync"

// MemoryBackend keeps the mirrored state in maps. It backs tests and doubles
// as a queryable in-process replica of the live graph.
type MemoryBackend struct {
	mu    sync.Mutex
	nodes map[string]NodeAttrs
	edges map[EdgeRef]EdgeAttrs
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		nodes: make(map[string]NodeAttrs),
		edges: make(map[EdgeRef]EdgeAttrs),
	}
}

func (b *MemoryBackend) Apply(op Op) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch op.Kind {
	case OpUpsertNode:
		if op.NodeAttrs != nil {
			b.nodes[op.NodeID] = *op.NodeAttrs
		}
	case OpUpsertEdge:
		if op.Edge != nil && op.EdgeAttrs != nil {
			b.edges[*op.Edge] = *op.EdgeAttrs
		}
	case OpDeleteNode:
		delete(b.nodes, op.NodeID)
		for ref := range b.edges {
			if ref.A == op.NodeID || ref.B == op.NodeID {
				delete(b.edges, ref)
			}
		}
	case OpDeleteEdge:
		if op.Edge != nil {
			delete(b.edges, *op.Edge)
		}
	}
	return nil
}

// Node returns the mirrored attributes of a node, if present.
func (b *MemoryBackend) Node(id string) (NodeAttrs, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	attrs, ok := b.nodes[id]
	return attrs, ok
}

// Edge returns the mirrored attributes of an edge, if present.
func (b *MemoryBackend) Edge(ref EdgeRef) (EdgeAttrs, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	attrs, ok := b.edges[ref]
	return attrs, ok
}

// Counts returns the mirrored node and edge totals.
func (b *MemoryBackend) Counts() (nodes, edges int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.nodes), len(b.edges)
}

func (b *MemoryBackend) Close() error { return nil }
