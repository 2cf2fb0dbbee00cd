package healing

import (
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-mycelium/pkg/graph"
)

// Report describes the outcome of one damage-and-repair cycle.
type Report struct {
	ID                    string          `json:"id"`
	DamagedNodes          []string        `json:"damaged_nodes"`
	EdgesAdded            []graph.EdgeKey `json:"edges_added"`
	PairsReconnected      int             `json:"pairs_reconnected"`
	PairsUnreachable      int             `json:"pairs_unreachable"`
	ComponentsBefore      int             `json:"components_before"`
	ComponentsAfterDamage int             `json:"components_after_damage"`
	ComponentsAfterRepair int             `json:"components_after_repair"`
	Elapsed               time.Duration   `json:"elapsed"`
}

func newReport(damaged []string) *Report {
	ids := make([]string, len(damaged))
	copy(ids, damaged)
	return &Report{
		ID:           uuid.NewString(),
		DamagedNodes: ids,
		EdgesAdded:   make([]graph.EdgeKey, 0),
	}
}

// FullyRestored reports whether the repair pass left no pair unreachable.
func (r *Report) FullyRestored() bool {
	return r.PairsUnreachable == 0
}
