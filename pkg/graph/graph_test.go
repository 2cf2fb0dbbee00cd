package graph

import (
	"math"
	"testing"
)

func TestAddNode_Duplicate(t *testing.T) {
	g := New()

	if _, err := g.AddNode("a", 50, 100); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	_, err := g.AddNode("a", 10, 100)
	if !IsDuplicate(err) {
		t.Errorf("Expected duplicate identifier error, got %v", err)
	}
}

func TestAddNode_InvalidArguments(t *testing.T) {
	g := New()

	if _, err := g.AddNode("", 0, 100); !IsInvalidArgument(err) {
		t.Errorf("Expected invalid argument for empty ID, got %v", err)
	}
	if _, err := g.AddNode("a", 0, -1); !IsInvalidArgument(err) {
		t.Errorf("Expected invalid argument for negative capacity, got %v", err)
	}
	if _, err := g.AddNode("a", -5, 100); !IsInvalidArgument(err) {
		t.Errorf("Expected invalid argument for negative resource level, got %v", err)
	}
}

func TestAddNode_ClampsResourceToCapacity(t *testing.T) {
	g := New()

	node, err := g.AddNode("a", 150, 100)
	if err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if node.ResourceLevel != 100 {
		t.Errorf("Expected resource level clamped to 100, got %f", node.ResourceLevel)
	}
}

func TestGetNode_Unknown(t *testing.T) {
	g := New()

	_, err := g.GetNode("missing")
	if !IsUnknownNode(err) {
		t.Errorf("Expected unknown node error, got %v", err)
	}
}

func TestRemoveNode_CascadesEdges(t *testing.T) {
	g := New()
	g.AddNode("a", 0, 100)
	g.AddNode("b", 0, 100)
	g.AddNode("c", 0, 100)
	g.AddEdge("a", "b", 1.0, 10)
	g.AddEdge("b", "c", 1.0, 10)

	if err := g.RemoveNode("b"); err != nil {
		t.Fatalf("RemoveNode failed: %v", err)
	}

	if g.HasEdge("a", "b") || g.HasEdge("b", "c") {
		t.Error("Expected incident edges removed with node")
	}
	if deg, err := g.Degree("a"); err != nil || deg != 0 {
		t.Errorf("Expected degree 0 for a, got %d (err %v)", deg, err)
	}
}

func TestRemoveNode_Absent(t *testing.T) {
	g := New()

	err := g.RemoveNode("missing")
	if !IsNotFound(err) {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestAddEdge_Validation(t *testing.T) {
	g := New()
	g.AddNode("a", 0, 100)
	g.AddNode("b", 0, 100)

	if _, err := g.AddEdge("a", "a", 1.0, 10); !IsInvalidArgument(err) {
		t.Errorf("Expected invalid argument for self-loop, got %v", err)
	}
	if _, err := g.AddEdge("a", "b", 0, 10); !IsInvalidArgument(err) {
		t.Errorf("Expected invalid argument for zero base cost, got %v", err)
	}
	if _, err := g.AddEdge("a", "b", 1.0, -1); !IsInvalidArgument(err) {
		t.Errorf("Expected invalid argument for negative capacity, got %v", err)
	}
	if _, err := g.AddEdge("a", "z", 1.0, 10); !IsUnknownNode(err) {
		t.Errorf("Expected unknown endpoint error, got %v", err)
	}

	if _, err := g.AddEdge("a", "b", 1.0, 10); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}
	// Same unordered pair, reversed order
	if _, err := g.AddEdge("b", "a", 2.0, 5); !IsDuplicate(err) {
		t.Errorf("Expected duplicate identifier error, got %v", err)
	}
}

func TestAddEdge_RejectedOpPerformsNoMutation(t *testing.T) {
	g := New()
	g.AddNode("a", 0, 100)

	g.AddEdge("a", "z", 1.0, 10)

	if deg, _ := g.Degree("a"); deg != 0 {
		t.Errorf("Rejected AddEdge mutated adjacency: degree %d", deg)
	}
	if stats := g.Statistics(); stats.EdgeCount != 0 {
		t.Errorf("Rejected AddEdge left %d edges", stats.EdgeCount)
	}
}

func TestSetResourceLevel_Clamps(t *testing.T) {
	g := New()
	g.AddNode("a", 50, 100)

	if level, err := g.SetResourceLevel("a", 250); err != nil || level != 100 {
		t.Errorf("Expected overflow clamped to 100, got %f (err %v)", level, err)
	}
	if level, err := g.AddResource("a", -500); err != nil || level != 0 {
		t.Errorf("Expected underflow clamped to 0, got %f (err %v)", level, err)
	}
}

func TestMarkNodeHealth_DamagesIncidentEdges(t *testing.T) {
	g := New()
	g.AddNode("a", 0, 100)
	g.AddNode("b", 0, 100)
	g.AddNode("c", 0, 100)
	g.AddEdge("a", "b", 1.0, 10)
	g.AddEdge("b", "c", 1.0, 10)

	if err := g.MarkNodeHealth("b", Damaged); err != nil {
		t.Fatalf("MarkNodeHealth failed: %v", err)
	}

	for _, pair := range [][2]string{{"a", "b"}, {"b", "c"}} {
		edge, err := g.GetEdge(pair[0], pair[1])
		if err != nil {
			t.Fatalf("GetEdge failed: %v", err)
		}
		if edge.Health != Damaged {
			t.Errorf("Edge %s still healthy after endpoint damaged", edge.Key)
		}
	}

	// Restoring the node does not resurrect its edges
	g.MarkNodeHealth("b", Healthy)
	edge, _ := g.GetEdge("a", "b")
	if edge.Health != Damaged {
		t.Error("Expected edge to stay damaged after node restored")
	}
}

func TestHealthyNeighbors_ExcludesDamaged(t *testing.T) {
	g := New()
	g.AddNode("a", 0, 100)
	g.AddNode("b", 0, 100)
	g.AddNode("c", 0, 100)
	g.AddEdge("a", "b", 1.0, 10)
	g.AddEdge("a", "c", 1.0, 10)

	g.MarkNodeHealth("b", Damaged)

	edges, err := g.HealthyNeighbors("a")
	if err != nil {
		t.Fatalf("HealthyNeighbors failed: %v", err)
	}
	if len(edges) != 1 || edges[0].Key.Other("a") != "c" {
		t.Errorf("Expected only edge to c, got %v", edges)
	}

	// A damaged node has no traversable edges
	damaged, err := g.HealthyNeighbors("b")
	if err != nil {
		t.Fatalf("HealthyNeighbors failed: %v", err)
	}
	if len(damaged) != 0 {
		t.Errorf("Expected no traversable edges from damaged node, got %d", len(damaged))
	}
}

func TestRecordEdgeUse_Monotonic(t *testing.T) {
	g := New()
	g.AddNode("a", 0, 100)
	g.AddNode("b", 0, 100)
	g.AddEdge("a", "b", 1.0, 10)

	key := NewEdgeKey("a", "b")
	for i := 0; i < 3; i++ {
		if err := g.RecordEdgeUse(key); err != nil {
			t.Fatalf("RecordEdgeUse failed: %v", err)
		}
	}

	edge, _ := g.GetEdge("a", "b")
	if edge.UsageCount != 3 {
		t.Errorf("Expected usage count 3, got %d", edge.UsageCount)
	}
}

func TestReinforceEdge_RespectsFloor(t *testing.T) {
	g := New()
	g.AddNode("a", 0, 100)
	g.AddNode("b", 0, 100)
	g.AddEdge("a", "b", 2.0, 10)

	key := NewEdgeKey("a", "b")
	for i := 0; i < 50; i++ {
		if err := g.ReinforceEdge(key, 0.5); err != nil {
			t.Fatalf("ReinforceEdge failed: %v", err)
		}
	}

	edge, _ := g.GetEdge("a", "b")
	if edge.Reinforcement != DefaultReinforcementFloor {
		t.Errorf("Expected reinforcement at floor %f, got %f",
			DefaultReinforcementFloor, edge.Reinforcement)
	}
	if edge.EffectiveCost() <= 0 {
		t.Error("Effective cost must stay positive under reinforcement")
	}
}

func TestDecayEdge_DriftsTowardBaseCost(t *testing.T) {
	g := New()
	g.AddNode("a", 0, 100)
	g.AddNode("b", 0, 100)
	g.AddEdge("a", "b", 2.0, 10)

	key := NewEdgeKey("a", "b")
	g.ReinforceEdge(key, 0.5)

	for i := 0; i < 200; i++ {
		if err := g.DecayEdge(key, 0.1); err != nil {
			t.Fatalf("DecayEdge failed: %v", err)
		}
	}

	edge, _ := g.GetEdge("a", "b")
	if math.Abs(edge.EffectiveCost()-edge.BaseCost) > 1e-6 {
		t.Errorf("Expected effective cost decayed back to base cost %f, got %f",
			edge.BaseCost, edge.EffectiveCost())
	}
}

func TestEdgeKey_Canonical(t *testing.T) {
	if NewEdgeKey("b", "a") != NewEdgeKey("a", "b") {
		t.Error("Expected canonical key regardless of endpoint order")
	}
	key := NewEdgeKey("x", "y")
	if key.Other("x") != "y" || key.Other("y") != "x" || key.Other("z") != "" {
		t.Error("EdgeKey.Other returned wrong endpoint")
	}
}

func TestStatistics(t *testing.T) {
	g := New()
	g.AddNode("a", 0, 100)
	g.AddNode("b", 0, 100)
	g.AddNode("c", 0, 100)
	g.AddEdge("a", "b", 1.0, 10)
	g.AddGrownEdge("a", "c", 1.5, 5)
	g.MarkNodeHealth("c", Damaged)

	stats := g.Statistics()
	if stats.NodeCount != 3 || stats.EdgeCount != 2 {
		t.Errorf("Unexpected counts: %+v", stats)
	}
	if stats.DamagedNodes != 1 || stats.DamagedEdges != 1 {
		t.Errorf("Unexpected damage counts: %+v", stats)
	}
	if stats.GrownEdges != 1 {
		t.Errorf("Expected 1 grown edge, got %d", stats.GrownEdges)
	}
}
