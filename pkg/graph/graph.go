// Package graph implements the mutable attributed graph underlying the
// mycelium resilience engine: nodes with resource stock and health, undirected
// edges with reinforcement-scaled costs, and fire-and-forget mirroring of
// structural mutations to an external store.
package graph

import (
	"sync"

	"github.com/dd0wney/cluso-mycelium/pkg/logging"
	"github.com/dd0wney/cluso-mycelium/pkg/mirror"
)

// DefaultReinforcementFloor bounds how far reinforcement may shrink an
// edge's effective cost. Must stay above zero so costs remain positive.
const DefaultReinforcementFloor = 0.25

// Options configures a Graph.
type Options struct {
	// Mirror receives every structural mutation; nil disables mirroring.
	Mirror mirror.Mirror
	// Logger for mutation events; nil discards.
	Logger logging.Logger
	// ReinforcementFloor is the lower bound on edge reinforcement factors.
	// Zero selects DefaultReinforcementFloor.
	ReinforcementFloor float64
}

// Graph is the in-memory mycelial network model. All exported methods are
// safe for concurrent use behind a single RWMutex; accessors return clones
// so callers never alias internal state.
type Graph struct {
	mu        sync.RWMutex
	nodes     map[string]*Node
	edges     map[EdgeKey]*Edge
	adjacency map[string]map[string]EdgeKey // node -> neighbor -> edge key

	mirror mirror.Mirror
	log    logging.Logger
	floor  float64
}

// New creates an empty graph with default options and no mirror.
func New() *Graph {
	return NewWithOptions(Options{})
}

// NewWithOptions creates an empty graph with the given options.
func NewWithOptions(opts Options) *Graph {
	log := opts.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}
	floor := opts.ReinforcementFloor
	if floor <= 0 {
		floor = DefaultReinforcementFloor
	}
	return &Graph{
		nodes:     make(map[string]*Node),
		edges:     make(map[EdgeKey]*Edge),
		adjacency: make(map[string]map[string]EdgeKey),
		mirror:    opts.Mirror,
		log:       log.With(logging.Component("graph")),
		floor:     floor,
	}
}

// ReinforcementFloor returns the configured lower bound for reinforcement.
func (g *Graph) ReinforcementFloor() float64 {
	return g.floor
}

// Mirror hooks. Callers hold g.mu; the dispatcher never blocks, so the
// lock is not held across any I/O.

func (g *Graph) mirrorNode(n *Node) {
	if g.mirror == nil {
		return
	}
	g.mirror.UpsertNode(n.ID, mirror.NodeAttrs{
		ResourceLevel: n.ResourceLevel,
		Capacity:      n.Capacity,
		Health:        n.Health.String(),
	})
}

func (g *Graph) mirrorEdge(e *Edge) {
	if g.mirror == nil {
		return
	}
	g.mirror.UpsertEdge(mirror.EdgeRef{A: e.Key.A, B: e.Key.B}, mirror.EdgeAttrs{
		BaseCost:      e.BaseCost,
		EffectiveCost: e.EffectiveCost(),
		Capacity:      e.Capacity,
		UsageCount:    e.UsageCount,
		Health:        e.Health.String(),
		Grown:         e.Grown,
	})
}

func (g *Graph) mirrorDeleteNode(id string) {
	if g.mirror == nil {
		return
	}
	g.mirror.DeleteNode(id)
}

func (g *Graph) mirrorDeleteEdge(key EdgeKey) {
	if g.mirror == nil {
		return
	}
	g.mirror.DeleteEdge(mirror.EdgeRef{A: key.A, B: key.B})
}
