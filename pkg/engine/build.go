package engine

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/dd0wney/cluso-mycelium/pkg/graph"
	"github.com/dd0wney/cluso-mycelium/pkg/logging"
)

// NodeRole classifies a node's place in a generated network.
type NodeRole string

const (
	RoleSource       NodeRole = "source"
	RoleIntermediate NodeRole = "intermediate"
	RoleSink         NodeRole = "sink"
)

// BuildOptions tunes random network generation. Zero values select the
// defaults below.
type BuildOptions struct {
	// Nodes to create.
	Nodes int
	// ConnectionProb is the base edge probability, attenuated by index
	// distance to mimic spatial clustering.
	ConnectionProb float64
	// Seed makes generation reproducible. Zero seeds from the default
	// source.
	Seed int64
}

const (
	defaultBuildNodes = 20
	defaultBuildProb  = 0.15

	buildNodeCapacity = 200.0
)

// BuildRandomNetwork populates the engine's graph with a mycelium-like
// topology: a handful of well-resourced sources, a body of intermediates,
// and a few sinks, with edge probability falling off as node indices
// diverge. Node IDs are node_0..node_{n-1}; the returned map records each
// node's role. The graph must be empty.
func (e *Engine) BuildRandomNetwork(opts BuildOptions) (map[string]NodeRole, error) {
	if e.graph.Statistics().NodeCount != 0 {
		return nil, graph.InvalidArgumentError("BuildRandomNetwork", "graph", "graph is not empty")
	}
	if opts.Nodes == 0 {
		opts.Nodes = defaultBuildNodes
	}
	if opts.Nodes < 2 {
		return nil, graph.InvalidArgumentError("BuildRandomNetwork", "nodes", "need at least two nodes")
	}
	if opts.ConnectionProb == 0 {
		opts.ConnectionProb = defaultBuildProb
	}
	if opts.ConnectionProb < 0 || opts.ConnectionProb > 1 {
		return nil, graph.InvalidArgumentError("BuildRandomNetwork", "probability", "connection probability outside [0, 1]")
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	if opts.Seed == 0 {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	n := opts.Nodes
	roles := make(map[string]NodeRole, n)
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("node_%d", i)
		ids[i] = id

		role := RoleIntermediate
		switch {
		case i < 3:
			role = RoleSource
		case i >= n-3:
			role = RoleSink
		}
		roles[id] = role

		// Sources start nearly full, sinks nearly empty, intermediates in
		// between. One rng draw per node keeps the stream seed-stable.
		var stock float64
		switch role {
		case RoleSource:
			stock = 150 + rng.Float64()*50
		case RoleSink:
			stock = rng.Float64() * 20
		default:
			stock = 50 + rng.Float64()*100
		}
		if _, err := e.graph.AddNode(id, stock, buildNodeCapacity); err != nil {
			return nil, err
		}
	}

	// Edge probability drops with index distance so the topology clusters
	// like spatially grown hyphae.
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			distanceFactor := math.Abs(float64(i-j)) / float64(n)
			prob := opts.ConnectionProb * (1 - distanceFactor)
			if rng.Float64() >= prob {
				continue
			}
			// Connection strength maps inversely to traversal cost.
			strength := 0.5 + rng.Float64()
			capacity := 5 + rng.Float64()*10
			if _, err := e.graph.AddEdge(ids[i], ids[j], 1.0/strength, capacity); err != nil {
				return nil, err
			}
		}
	}

	stats := e.graph.Statistics()
	e.updateGraphMetrics()
	e.log.Info("random network built",
		logging.Uint64("nodes", stats.NodeCount),
		logging.Uint64("edges", stats.EdgeCount),
	)
	return roles, nil
}
