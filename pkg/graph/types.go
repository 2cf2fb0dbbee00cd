package graph

// Health represents the health state of a node or edge
type Health uint8

const (
	// Healthy elements participate in discovery and flow
	Healthy Health = iota
	// Damaged elements are excluded from traversal entirely, not merely deprioritized
	Damaged
)

// String returns the string representation of a health state
func (h Health) String() string {
	switch h {
	case Healthy:
		return "healthy"
	case Damaged:
		return "damaged"
	default:
		return "unknown"
	}
}

// Node represents a junction in the mycelial network
type Node struct {
	ID            string
	ResourceLevel float64 // current stock, clamped to [0, Capacity]
	Capacity      float64
	Health        Health
	CreatedAt     int64
	UpdatedAt     int64
}

// Clone returns a deep copy of the node
func (n *Node) Clone() *Node {
	clone := *n
	return &clone
}

// EdgeKey identifies an undirected edge by its canonically ordered endpoints (A < B)
type EdgeKey struct {
	A string
	B string
}

// NewEdgeKey builds a canonical key for the unordered pair (a, b)
func NewEdgeKey(a, b string) EdgeKey {
	if b < a {
		a, b = b, a
	}
	return EdgeKey{A: a, B: b}
}

// Other returns the endpoint opposite to id, or "" if id is not an endpoint
func (k EdgeKey) Other(id string) string {
	switch id {
	case k.A:
		return k.B
	case k.B:
		return k.A
	default:
		return ""
	}
}

// String returns a printable form of the key
func (k EdgeKey) String() string {
	return k.A + "--" + k.B
}

// Less orders keys lexicographically, for deterministic iteration
func (k EdgeKey) Less(other EdgeKey) bool {
	if k.A != other.A {
		return k.A < other.A
	}
	return k.B < other.B
}

// Edge represents an undirected transport channel between two nodes.
//
// EffectiveCost is derived: BaseCost scaled by the reinforcement factor.
// The factor stays within [reinforcement floor, 1], so effective cost is
// always positive and never exceeds the base cost.
type Edge struct {
	Key           EdgeKey
	BaseCost      float64
	Reinforcement float64
	Capacity      float64 // maximum flow per distribution
	UsageCount    uint64  // historical selection counter, never decremented
	Health        Health
	Grown         bool // created by the healing controller rather than initial topology
	CreatedAt     int64
	UpdatedAt     int64
}

// EffectiveCost returns the reinforcement-scaled traversal cost
func (e *Edge) EffectiveCost() float64 {
	return e.BaseCost * e.Reinforcement
}

// Clone returns a deep copy of the edge
func (e *Edge) Clone() *Edge {
	clone := *e
	return &clone
}

// Statistics summarizes current graph contents
type Statistics struct {
	NodeCount    uint64
	EdgeCount    uint64
	DamagedNodes uint64
	DamagedEdges uint64
	GrownEdges   uint64
}
