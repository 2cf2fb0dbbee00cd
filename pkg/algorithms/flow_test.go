package algorithms

import (
	"math"
	"testing"

	"github.com/dd0wney/cluso-mycelium/pkg/graph"
)

func TestDistribute_Validation(t *testing.T) {
	g := buildGraph(t, []string{"s", "t"}, map[[2]string]float64{{"s", "t"}: 1})

	_, err := Distribute(g, []Source{{Node: "missing", Supply: 1}}, []Sink{{Node: "t", Demand: 1}}, FlowOptions{})
	if !graph.IsUnknownNode(err) {
		t.Errorf("Expected unknown node for missing source, got %v", err)
	}

	_, err = Distribute(g, []Source{{Node: "s", Supply: -1}}, []Sink{{Node: "t", Demand: 1}}, FlowOptions{})
	if !graph.IsInvalidArgument(err) {
		t.Errorf("Expected invalid argument for negative supply, got %v", err)
	}

	_, err = Distribute(g, []Source{{Node: "s", Supply: 1}}, []Sink{{Node: "t", Demand: -1}}, FlowOptions{})
	if !graph.IsInvalidArgument(err) {
		t.Errorf("Expected invalid argument for negative demand, got %v", err)
	}
}

func TestDistribute_SimpleChain(t *testing.T) {
	g := buildGraph(t, []string{"s", "m", "t"}, map[[2]string]float64{
		{"s", "m"}: 1,
		{"m", "t"}: 1,
	})

	result, err := Distribute(g,
		[]Source{{Node: "s", Supply: 5}},
		[]Sink{{Node: "t", Demand: 5}},
		FlowOptions{})
	if err != nil {
		t.Fatalf("Distribute failed: %v", err)
	}

	if result.Delivered != 5 {
		t.Errorf("Expected 5 delivered, got %f", result.Delivered)
	}
	if !result.Converged {
		t.Error("Expected convergence")
	}
	if result.UnmetDemand["t"] != 0 {
		t.Errorf("Expected no unmet demand, got %f", result.UnmetDemand["t"])
	}
}

// The capacity-split scenario: a direct s-t edge capped at 5 and a relief
// route s-u-t with capacity 10. Distributing 10 units must cap the direct
// edge at 5 and route the remainder via u.
func TestDistribute_SplitsAroundCapacity(t *testing.T) {
	g := graph.New()
	for _, id := range []string{"s", "u", "t"} {
		g.AddNode(id, 100, 200)
	}
	g.AddEdge("s", "t", 1, 5)
	g.AddEdge("s", "u", 1, 10)
	g.AddEdge("u", "t", 1, 10)

	result, err := Distribute(g,
		[]Source{{Node: "s", Supply: 10}},
		[]Sink{{Node: "t", Demand: 10}},
		FlowOptions{})
	if err != nil {
		t.Fatalf("Distribute failed: %v", err)
	}

	if result.Delivered != 10 {
		t.Errorf("Expected 10 delivered, got %f", result.Delivered)
	}
	direct := result.EdgeFlows[graph.NewEdgeKey("s", "t")]
	if direct != 5 {
		t.Errorf("Expected 5 units on the direct edge, got %f", direct)
	}
	viaU := result.EdgeFlows[graph.NewEdgeKey("s", "u")]
	if viaU != 5 {
		t.Errorf("Expected 5 units routed via u, got %f", viaU)
	}
}

func TestDistribute_Conservation(t *testing.T) {
	g := buildGraph(t, []string{"s1", "s2", "m", "t1", "t2"}, map[[2]string]float64{
		{"s1", "m"}: 1,
		{"s2", "m"}: 1,
		{"m", "t1"}: 1,
		{"m", "t2"}: 1,
	})

	sources := []Source{{Node: "s1", Supply: 7}, {Node: "s2", Supply: 4}}
	sinks := []Sink{{Node: "t1", Demand: 3}, {Node: "t2", Demand: 5}}

	result, err := Distribute(g, sources, sinks, FlowOptions{})
	if err != nil {
		t.Fatalf("Distribute failed: %v", err)
	}

	totalSupply, totalDemand := 11.0, 8.0
	if result.Delivered > math.Min(totalSupply, totalDemand)+1e-9 {
		t.Errorf("Delivered %f exceeds min(supply, demand)", result.Delivered)
	}

	for key, flow := range result.EdgeFlows {
		edge, err := g.GetEdge(key.A, key.B)
		if err != nil {
			t.Fatalf("GetEdge(%s) failed: %v", key, err)
		}
		if flow > edge.Capacity+1e-9 {
			t.Errorf("Edge %s carried %f above capacity %f", key, flow, edge.Capacity)
		}
	}
}

func TestDistribute_UnreachableDemandConverges(t *testing.T) {
	g := buildGraph(t, []string{"s", "t", "x"}, map[[2]string]float64{{"s", "t"}: 1})

	result, err := Distribute(g,
		[]Source{{Node: "s", Supply: 10}},
		[]Sink{{Node: "t", Demand: 2}, {Node: "x", Demand: 5}},
		FlowOptions{})
	if err != nil {
		t.Fatalf("Distribute failed: %v", err)
	}

	if !result.Converged {
		t.Error("Expected convergence when remaining demand is unreachable")
	}
	if result.Delivered != 2 {
		t.Errorf("Expected 2 delivered, got %f", result.Delivered)
	}
	if result.UnmetDemand["x"] != 5 {
		t.Errorf("Expected sink x fully unmet, got %f", result.UnmetDemand["x"])
	}
}

func TestDistribute_RoundLimitIsPartialSuccess(t *testing.T) {
	g := graph.New()
	for _, id := range []string{"s", "t"} {
		g.AddNode(id, 100, 200)
	}
	g.AddEdge("s", "t", 1, 100)

	result, err := Distribute(g,
		[]Source{{Node: "s", Supply: 50}},
		[]Sink{{Node: "t", Demand: 50}},
		FlowOptions{RoundLimit: 1})
	if err != nil {
		t.Fatalf("Round limit must not be an error, got %v", err)
	}
	if result.Rounds != 1 {
		t.Errorf("Expected exactly 1 round, got %d", result.Rounds)
	}
}

func TestDistribute_ReinforcesUsedEdges(t *testing.T) {
	g := buildGraph(t, []string{"s", "t", "x", "y"}, map[[2]string]float64{
		{"s", "t"}: 2,
		{"x", "y"}: 2,
	})

	before, _ := g.GetEdge("s", "t")
	idleBefore, _ := g.GetEdge("x", "y")

	_, err := Distribute(g,
		[]Source{{Node: "s", Supply: 8}},
		[]Sink{{Node: "t", Demand: 8}},
		FlowOptions{})
	if err != nil {
		t.Fatalf("Distribute failed: %v", err)
	}

	after, _ := g.GetEdge("s", "t")
	if after.EffectiveCost() >= before.EffectiveCost() {
		t.Errorf("Expected carried edge to strengthen: %f -> %f",
			before.EffectiveCost(), after.EffectiveCost())
	}
	if after.EffectiveCost() <= 0 {
		t.Error("Effective cost must stay positive")
	}
	if after.UsageCount == 0 {
		t.Error("Expected flow to increment usage count")
	}

	idleAfter, _ := g.GetEdge("x", "y")
	if idleAfter.EffectiveCost() != idleBefore.EffectiveCost() {
		// Already at base cost; decay must not push it past base
		if idleAfter.EffectiveCost() > idleBefore.BaseCost+1e-9 {
			t.Errorf("Idle edge decayed beyond base cost: %f", idleAfter.EffectiveCost())
		}
	}
}

func TestDistribute_MovesResourceStock(t *testing.T) {
	g := graph.New()
	g.AddNode("s", 100, 200)
	g.AddNode("t", 0, 200)
	g.AddEdge("s", "t", 1, 50)

	_, err := Distribute(g,
		[]Source{{Node: "s", Supply: 30}},
		[]Sink{{Node: "t", Demand: 30}},
		FlowOptions{})
	if err != nil {
		t.Fatalf("Distribute failed: %v", err)
	}

	src, _ := g.GetNode("s")
	dst, _ := g.GetNode("t")
	if src.ResourceLevel != 70 {
		t.Errorf("Expected source stock 70, got %f", src.ResourceLevel)
	}
	if dst.ResourceLevel != 30 {
		t.Errorf("Expected sink stock 30, got %f", dst.ResourceLevel)
	}
}

func TestDistribute_AvoidsDamagedRoutes(t *testing.T) {
	g := buildGraph(t, []string{"s", "m", "t", "u"}, map[[2]string]float64{
		{"s", "m"}: 1,
		{"m", "t"}: 1,
		{"s", "u"}: 10,
		{"u", "t"}: 10,
	})
	g.MarkNodeHealth("m", graph.Damaged)

	result, err := Distribute(g,
		[]Source{{Node: "s", Supply: 4}},
		[]Sink{{Node: "t", Demand: 4}},
		FlowOptions{})
	if err != nil {
		t.Fatalf("Distribute failed: %v", err)
	}

	if result.Delivered != 4 {
		t.Errorf("Expected full delivery via detour, got %f", result.Delivered)
	}
	if flow := result.EdgeFlows[graph.NewEdgeKey("s", "m")]; flow != 0 {
		t.Errorf("Flow crossed a damaged route: %f", flow)
	}
}
