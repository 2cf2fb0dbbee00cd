package algorithms

import (
	"container/heap"

	"github.com/dd0wney/cluso-mycelium/pkg/graph"
)

// CostGraph is the neighbor view the search primitives operate on. The live
// graph satisfies it directly; the healing controller satisfies it with a
// pre-damage snapshot.
type CostGraph interface {
	// HealthyNeighbors returns the traversable edges incident to a node.
	HealthyNeighbors(id string) ([]*graph.Edge, error)
}

// SearchOptions parameterizes a single shortest-path search.
type SearchOptions struct {
	// Overrides multiplies an edge's effective cost during this search only.
	// Used by path discovery to simulate resource depletion on already
	// accepted routes. Persistent edge state is never touched.
	Overrides map[graph.EdgeKey]float64
	// Residual, if non-nil, excludes edges whose remaining capacity is not
	// positive. Used by flow distribution.
	Residual map[graph.EdgeKey]float64
}

const costEpsilon = 1e-9

// pqItem is a heap entry under the lazy decrease-key strategy: stale entries
// are pushed rather than updated and skipped on pop.
type pqItem struct {
	id   string
	cost float64
	hops int
}

type searchPQ []pqItem

func (pq searchPQ) Len() int { return len(pq) }

// Less orders by cost, then hop count, then identifier, which makes pop
// order fully deterministic.
func (pq searchPQ) Less(i, j int) bool {
	if pq[i].cost != pq[j].cost {
		return pq[i].cost < pq[j].cost
	}
	if pq[i].hops != pq[j].hops {
		return pq[i].hops < pq[j].hops
	}
	return pq[i].id < pq[j].id
}

func (pq searchPQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *searchPQ) Push(x any) { *pq = append(*pq, x.(pqItem)) }

func (pq *searchPQ) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

type searchState struct {
	cost float64
	hops int
	prev string
}

// ShortestPath runs Dijkstra from source over healthy elements until any of
// the target nodes is settled. Ties are broken by fewer edges, then by
// lowest predecessor identifier, so results are deterministic. Returns the
// path, the target reached, and whether any target was reachable.
func ShortestPath(cg CostGraph, source string, targets map[string]bool, opts SearchOptions) (Path, string, bool) {
	if targets[source] {
		return Path{Nodes: []string{source}}, source, true
	}

	state := map[string]searchState{source: {}}
	settled := make(map[string]bool)

	pq := searchPQ{{id: source}}
	heap.Init(&pq)

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(pqItem)
		if settled[item.id] {
			continue
		}
		settled[item.id] = true

		if targets[item.id] {
			return reconstruct(cg, state, source, item.id), item.id, true
		}

		edges, err := cg.HealthyNeighbors(item.id)
		if err != nil {
			continue
		}
		cur := state[item.id]
		for _, edge := range edges {
			if opts.Residual != nil && opts.Residual[edge.Key] <= costEpsilon {
				continue
			}
			step := edge.EffectiveCost()
			if m, ok := opts.Overrides[edge.Key]; ok {
				step *= m
			}

			next := edge.Key.Other(item.id)
			cand := searchState{cost: cur.cost + step, hops: cur.hops + 1, prev: item.id}
			known, seen := state[next]
			if !seen || better(cand, known) {
				state[next] = cand
				heap.Push(&pq, pqItem{id: next, cost: cand.cost, hops: cand.hops})
			}
		}
	}

	return Path{}, "", false
}

// better reports whether candidate a should replace known state b.
func better(a, b searchState) bool {
	if a.cost < b.cost-costEpsilon {
		return true
	}
	if a.cost > b.cost+costEpsilon {
		return false
	}
	if a.hops != b.hops {
		return a.hops < b.hops
	}
	return a.prev < b.prev
}

// reconstruct walks predecessors back from target and rebuilds the node and
// edge sequences, recomputing the true (override-free) total cost.
func reconstruct(cg CostGraph, state map[string]searchState, source, target string) Path {
	nodes := []string{target}
	for cur := target; cur != source; {
		cur = state[cur].prev
		nodes = append(nodes, cur)
	}
	// Reverse into source -> target order
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}

	path := Path{Nodes: nodes, Edges: make([]graph.EdgeKey, 0, len(nodes)-1)}
	for i := 0; i+1 < len(nodes); i++ {
		key := graph.NewEdgeKey(nodes[i], nodes[i+1])
		path.Edges = append(path.Edges, key)
		path.Cost += edgeCost(cg, nodes[i], key)
	}
	return path
}

func edgeCost(cg CostGraph, from string, key graph.EdgeKey) float64 {
	edges, err := cg.HealthyNeighbors(from)
	if err != nil {
		return 0
	}
	for _, e := range edges {
		if e.Key == key {
			return e.EffectiveCost()
		}
	}
	return 0
}
