package healing

import (
	"testing"

	"github.com/dd0wney/cluso-mycelium/pkg/algorithms"
	"github.com/dd0wney/cluso-mycelium/pkg/config"
	"github.com/dd0wney/cluso-mycelium/pkg/graph"
)

func defaultHealing() config.Healing {
	return config.Healing{
		GrowthBudget:      4,
		GrowthCostPenalty: 1.5,
		GrowthCapacity:    5.0,
	}
}

func chainGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, id := range []string{"a", "b", "c", "d"} {
		if _, err := g.AddNode(id, 100, 50); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for _, pair := range [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}} {
		if _, err := g.AddEdge(pair[0], pair[1], 1.0, 10); err != nil {
			t.Fatalf("AddEdge(%s,%s): %v", pair[0], pair[1], err)
		}
	}
	return g
}

func TestApplyDamageUnknownNode(t *testing.T) {
	g := chainGraph(t)
	c := NewController(g, defaultHealing(), 2.0, nil, nil)

	_, err := c.ApplyDamage([]string{"a", "ghost"})
	if !graph.IsUnknownNode(err) {
		t.Fatalf("expected unknown node error, got %v", err)
	}

	// Rejection must leave the graph untouched.
	node, err := g.GetNode("a")
	if err != nil {
		t.Fatalf("GetNode(a): %v", err)
	}
	if node.Health != graph.Healthy {
		t.Fatal("node a should remain healthy after rejected damage")
	}
	if node.ResourceLevel != 50 {
		t.Fatalf("node a stock changed on rejected damage: %v", node.ResourceLevel)
	}
}

func TestApplyDamageGrowsCompensatingEdge(t *testing.T) {
	g := chainGraph(t)
	c := NewController(g, defaultHealing(), 2.0, nil, nil)

	report, err := c.ApplyDamage([]string{"b"})
	if err != nil {
		t.Fatalf("ApplyDamage: %v", err)
	}

	if report.ComponentsBefore != 1 {
		t.Fatalf("components before = %d, want 1", report.ComponentsBefore)
	}
	if report.ComponentsAfterDamage != 2 {
		t.Fatalf("components after damage = %d, want 2", report.ComponentsAfterDamage)
	}
	if report.ComponentsAfterRepair != 1 {
		t.Fatalf("components after repair = %d, want 1", report.ComponentsAfterRepair)
	}
	if report.PairsUnreachable != 0 {
		t.Fatalf("pairs unreachable = %d, want 0", report.PairsUnreachable)
	}
	if len(report.EdgesAdded) == 0 {
		t.Fatal("expected at least one grown edge")
	}

	// Closest separated pair is (a, c) at pre-damage distance 2, so the
	// first grown edge bridges it at cost penalty * distance.
	first := report.EdgesAdded[0]
	if first.A != "a" || first.B != "c" {
		t.Fatalf("first grown edge = %v, want a--c", first)
	}
	edge, err := g.GetEdge("a", "c")
	if err != nil {
		t.Fatalf("GetEdge(a,c): %v", err)
	}
	if !edge.Grown {
		t.Fatal("bridging edge should be marked grown")
	}
	if edge.BaseCost != 1.5*2.0 {
		t.Fatalf("grown edge base cost = %v, want 3.0", edge.BaseCost)
	}
	if edge.Capacity != 5.0 {
		t.Fatalf("grown edge capacity = %v, want 5.0", edge.Capacity)
	}
}

func TestApplyDamageRedistributesStock(t *testing.T) {
	g := chainGraph(t)
	c := NewController(g, defaultHealing(), 2.0, nil, nil)

	if _, err := c.ApplyDamage([]string{"b"}); err != nil {
		t.Fatalf("ApplyDamage: %v", err)
	}

	b, _ := g.GetNode("b")
	if b.ResourceLevel != 0 {
		t.Fatalf("damaged node stock = %v, want 0", b.ResourceLevel)
	}
	// b held 50 split across healthy neighbors a and c.
	a, _ := g.GetNode("a")
	cNode, _ := g.GetNode("c")
	if a.ResourceLevel != 75 || cNode.ResourceLevel != 75 {
		t.Fatalf("neighbor stock = %v/%v, want 75/75", a.ResourceLevel, cNode.ResourceLevel)
	}
}

func TestApplyDamageIdempotent(t *testing.T) {
	g := chainGraph(t)
	c := NewController(g, defaultHealing(), 2.0, nil, nil)

	first, err := c.ApplyDamage([]string{"b"})
	if err != nil {
		t.Fatalf("first ApplyDamage: %v", err)
	}
	if len(first.EdgesAdded) == 0 {
		t.Fatal("first pass should grow edges")
	}

	second, err := c.ApplyDamage([]string{"b"})
	if err != nil {
		t.Fatalf("second ApplyDamage: %v", err)
	}
	if len(second.EdgesAdded) != 0 {
		t.Fatalf("second pass grew %d edges, want 0", len(second.EdgesAdded))
	}
	if second.ComponentsAfterRepair != first.ComponentsAfterRepair {
		t.Fatalf("component count drifted: %d vs %d",
			second.ComponentsAfterRepair, first.ComponentsAfterRepair)
	}
}

func TestApplyDamageBudgetExhaustion(t *testing.T) {
	// A star: hub h with leaves l1..l4. Damaging the hub separates every
	// leaf pair; a budget of 1 can bridge only one of them.
	g := graph.New()
	ids := []string{"h", "l1", "l2", "l3", "l4"}
	for _, id := range ids {
		if _, err := g.AddNode(id, 100, 10); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for _, leaf := range ids[1:] {
		if _, err := g.AddEdge("h", leaf, 1.0, 10); err != nil {
			t.Fatalf("AddEdge(h,%s): %v", leaf, err)
		}
	}

	cfg := defaultHealing()
	cfg.GrowthBudget = 1
	c := NewController(g, cfg, 2.0, nil, nil)

	report, err := c.ApplyDamage([]string{"h"})
	if err != nil {
		t.Fatalf("budget exhaustion must not be an error: %v", err)
	}
	if len(report.EdgesAdded) != 1 {
		t.Fatalf("grew %d edges, want exactly 1", len(report.EdgesAdded))
	}
	if report.PairsUnreachable == 0 {
		t.Fatal("expected unreachable pairs once budget ran out")
	}
	if report.FullyRestored() {
		t.Fatal("report should not claim full restoration")
	}
}

func TestApplyDamageLargestComponentNeverShrinksAfterRepair(t *testing.T) {
	g := chainGraph(t)
	c := NewController(g, defaultHealing(), 2.0, nil, nil)

	report, err := c.ApplyDamage([]string{"c"})
	if err != nil {
		t.Fatalf("ApplyDamage: %v", err)
	}

	// Repair may only merge components, never split them further.
	if report.ComponentsAfterRepair > report.ComponentsAfterDamage {
		t.Fatalf("repair increased component count: %d > %d",
			report.ComponentsAfterRepair, report.ComponentsAfterDamage)
	}
	// Every healthy survivor ends up in one component again.
	largest := algorithms.LargestComponent(algorithms.Components(g))
	if len(largest) != 3 {
		t.Fatalf("largest component has %d nodes, want 3", len(largest))
	}
}

func TestApplyDamageAlreadyDamagedSkipsRedistribution(t *testing.T) {
	g := chainGraph(t)
	g.MarkNodeHealth("b", graph.Damaged)
	g.SetResourceLevel("b", 0)

	c := NewController(g, defaultHealing(), 2.0, nil, nil)
	if _, err := c.ApplyDamage([]string{"b"}); err != nil {
		t.Fatalf("ApplyDamage: %v", err)
	}

	a, _ := g.GetNode("a")
	if a.ResourceLevel != 50 {
		t.Fatalf("re-damaging must not redistribute again, a = %v", a.ResourceLevel)
	}
}
