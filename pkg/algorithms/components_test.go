package algorithms

import (
	"reflect"
	"testing"

	"github.com/dd0wney/cluso-mycelium/pkg/graph"
)

func TestComponents_SingleComponent(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "c"}, map[[2]string]float64{
		{"a", "b"}: 1,
		{"b", "c"}: 1,
	})

	components := Components(g)
	if len(components) != 1 {
		t.Fatalf("Expected 1 component, got %d", len(components))
	}
	if !reflect.DeepEqual(components[0], []string{"a", "b", "c"}) {
		t.Errorf("Unexpected component members: %v", components[0])
	}
}

func TestComponents_DamageSplits(t *testing.T) {
	// Chain a-b-c-d; damaging b leaves {a} and {c, d}
	g := buildGraph(t, []string{"a", "b", "c", "d"}, map[[2]string]float64{
		{"a", "b"}: 1,
		{"b", "c"}: 1,
		{"c", "d"}: 1,
	})
	g.MarkNodeHealth("b", graph.Damaged)

	components := Components(g)
	if len(components) != 2 {
		t.Fatalf("Expected 2 components, got %d: %v", len(components), components)
	}
	if !reflect.DeepEqual(components[0], []string{"a"}) {
		t.Errorf("Expected first component {a}, got %v", components[0])
	}
	if !reflect.DeepEqual(components[1], []string{"c", "d"}) {
		t.Errorf("Expected second component {c, d}, got %v", components[1])
	}
}

func TestComponents_DamagedNodesExcluded(t *testing.T) {
	g := buildGraph(t, []string{"a", "b"}, map[[2]string]float64{{"a", "b"}: 1})
	g.MarkNodeHealth("a", graph.Damaged)

	components := Components(g)
	if len(components) != 1 || components[0][0] != "b" {
		t.Errorf("Expected only {b}, got %v", components)
	}
}

func TestComponents_Empty(t *testing.T) {
	g := graph.New()
	if components := Components(g); len(components) != 0 {
		t.Errorf("Expected no components for empty graph, got %v", components)
	}
}

func TestLargestComponent(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "x", "y", "z"}, map[[2]string]float64{
		{"a", "b"}: 1,
		{"x", "y"}: 1,
		{"y", "z"}: 1,
	})

	largest := LargestComponent(Components(g))
	if !reflect.DeepEqual(largest, []string{"x", "y", "z"}) {
		t.Errorf("Expected largest component {x, y, z}, got %v", largest)
	}
}

func TestComponentIndex(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "c"}, map[[2]string]float64{{"a", "b"}: 1})

	index := ComponentIndex(Components(g))
	if index["a"] != index["b"] {
		t.Error("Expected a and b in the same component")
	}
	if index["a"] == index["c"] {
		t.Error("Expected c in its own component")
	}
}
