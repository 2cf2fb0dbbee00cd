// Package mirror streams graph mutations to an external persistent store.
//
// Mirroring is strictly fire-and-forget: the engine never waits for, or acts
// on, the outcome of a mirror write. Failures are observable only in logs and
// metrics. If no mirror is configured the engine runs purely in-memory.
package mirror

import (
	"sync"

	"github.com/dd0wney/cluso-mycelium/pkg/logging"
)

// NodeAttrs carries the mirrored attributes of a node.
type NodeAttrs struct {
	ResourceLevel float64 `json:"resource_level"`
	Capacity      float64 `json:"capacity"`
	Health        string  `json:"health"`
}

// EdgeAttrs carries the mirrored attributes of an edge.
type EdgeAttrs struct {
	BaseCost      float64 `json:"base_cost"`
	EffectiveCost float64 `json:"effective_cost"`
	Capacity      float64 `json:"capacity"`
	UsageCount    uint64  `json:"usage_count"`
	Health        string  `json:"health"`
	Grown         bool    `json:"grown"`
}

// EdgeRef identifies an undirected edge by its canonically ordered endpoints.
type EdgeRef struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Mirror is the capability set the engine needs from an external store.
type Mirror interface {
	UpsertNode(id string, attrs NodeAttrs)
	UpsertEdge(ref EdgeRef, attrs EdgeAttrs)
	DeleteNode(id string)
	DeleteEdge(ref EdgeRef)
	Close() error
}

// OpKind distinguishes mirrored mutation kinds on the wire.
type OpKind string

const (
	OpUpsertNode OpKind = "upsert_node"
	OpUpsertEdge OpKind = "upsert_edge"
	OpDeleteNode OpKind = "delete_node"
	OpDeleteEdge OpKind = "delete_edge"
)

// Op is a single mirrored mutation.
type Op struct {
	Kind      OpKind    `json:"kind"`
	NodeID    string    `json:"node_id,omitempty"`
	Edge      *EdgeRef  `json:"edge,omitempty"`
	NodeAttrs *NodeAttrs `json:"node_attrs,omitempty"`
	EdgeAttrs *EdgeAttrs `json:"edge_attrs,omitempty"`
}

// Backend applies mirrored ops to a concrete store. Implementations may
// block; the dispatcher keeps them off the engine's critical path.
type Backend interface {
	Apply(op Op) error
	Close() error
}

// Dispatcher is an async Mirror that feeds a Backend through a bounded
// queue. When the queue is full ops are dropped and counted, never blocking
// the caller.
type Dispatcher struct {
	backend Backend
	log     logging.Logger
	queue   chan Op
	done    chan struct{}
	wg      sync.WaitGroup

	mu      sync.Mutex
	closed  bool
	dropped uint64
	onDrop  func()
}

// DefaultQueueDepth bounds the dispatcher's in-flight op queue.
const DefaultQueueDepth = 1024

// NewDispatcher starts a dispatcher draining into backend.
func NewDispatcher(backend Backend, log logging.Logger) *Dispatcher {
	if log == nil {
		log = logging.NewNopLogger()
	}
	d := &Dispatcher{
		backend: backend,
		log:     log.With(logging.Component("mirror")),
		queue:   make(chan Op, DefaultQueueDepth),
		done:    make(chan struct{}),
	}
	d.wg.Add(1)
	go d.drain()
	return d
}

func (d *Dispatcher) drain() {
	defer d.wg.Done()
	for op := range d.queue {
		if err := d.backend.Apply(op); err != nil {
			d.log.Warn("mirror write failed",
				logging.String("kind", string(op.Kind)),
				logging.Error(err),
			)
		}
	}
}

// enqueue hands an op to the drain goroutine without ever blocking. The
// mutex is held across the send so Close cannot close the queue between
// the closed check and the select.
func (d *Dispatcher) enqueue(op Op) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}

	select {
	case d.queue <- op:
		d.mu.Unlock()
	default:
		d.dropped++
		dropped := d.dropped
		hook := d.onDrop
		d.mu.Unlock()
		if hook != nil {
			hook()
		}
		d.log.Warn("mirror queue full, op dropped",
			logging.String("kind", string(op.Kind)),
			logging.Uint64("dropped_total", dropped),
		)
	}
}

// UpsertNode mirrors a node insert or attribute change.
func (d *Dispatcher) UpsertNode(id string, attrs NodeAttrs) {
	d.enqueue(Op{Kind: OpUpsertNode, NodeID: id, NodeAttrs: &attrs})
}

// UpsertEdge mirrors an edge insert or attribute change.
func (d *Dispatcher) UpsertEdge(ref EdgeRef, attrs EdgeAttrs) {
	d.enqueue(Op{Kind: OpUpsertEdge, Edge: &ref, EdgeAttrs: &attrs})
}

// DeleteNode mirrors a node removal.
func (d *Dispatcher) DeleteNode(id string) {
	d.enqueue(Op{Kind: OpDeleteNode, NodeID: id})
}

// DeleteEdge mirrors an edge removal.
func (d *Dispatcher) DeleteEdge(ref EdgeRef) {
	d.enqueue(Op{Kind: OpDeleteEdge, Edge: &ref})
}

// OnDrop registers a hook invoked once per discarded op.
func (d *Dispatcher) OnDrop(fn func()) {
	d.mu.Lock()
	d.onDrop = fn
	d.mu.Unlock()
}

// Dropped returns the number of ops discarded due to backpressure.
func (d *Dispatcher) Dropped() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}

// Close drains pending ops and closes the backend. Concurrent enqueues
// either land before the queue closes or see the closed flag and return.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	close(d.queue)
	d.wg.Wait()
	return d.backend.Close()
}
