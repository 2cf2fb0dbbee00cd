package algorithms

import (
	"container/list"
	"sort"

	"github.com/dd0wney/cluso-mycelium/pkg/graph"
)

// Components finds the connected components of the healthy subgraph using
// BFS. Damaged nodes form no component at all. Node IDs within a component
// are sorted, and components are ordered by their lowest member, so output
// is deterministic.
func Components(g *graph.Graph) [][]string {
	visited := make(map[string]bool)
	components := make([][]string, 0)

	for _, start := range g.HealthyNodeIDs() {
		if visited[start] {
			continue
		}

		component := make([]string, 0)
		queue := list.New()
		queue.PushBack(start)
		visited[start] = true

		for queue.Len() > 0 {
			id := queue.Remove(queue.Front()).(string)
			component = append(component, id)

			edges, err := g.HealthyNeighbors(id)
			if err != nil {
				continue
			}
			for _, edge := range edges {
				next := edge.Key.Other(id)
				if !visited[next] {
					visited[next] = true
					queue.PushBack(next)
				}
			}
		}

		sort.Strings(component)
		components = append(components, component)
	}

	sort.Slice(components, func(i, j int) bool {
		return components[i][0] < components[j][0]
	})
	return components
}

// ComponentIndex maps each node to the index of its component in the
// Components output.
func ComponentIndex(components [][]string) map[string]int {
	index := make(map[string]int)
	for i, comp := range components {
		for _, id := range comp {
			index[id] = i
		}
	}
	return index
}

// LargestComponent returns the member list of the biggest component, or nil
// for an empty graph. Size ties resolve to the component with the lowest
// member, which is first in Components order.
func LargestComponent(components [][]string) []string {
	var largest []string
	for _, comp := range components {
		if len(comp) > len(largest) {
			largest = comp
		}
	}
	return largest
}
