package engine

// Output keys consulted by walk-based strategies.
const (
	// KeyHandoffTarget names the node a completed handoff node transfers
	// control to. Absent or empty terminates the walk.
	KeyHandoffTarget = "handoff_target"
	// KeyPlan is the supervisor output key listing planned subordinate ids.
	KeyPlan = "plan"
	// KeyNextNode is the supervisor output key naming a single next node.
	KeyNextNode = "next_node"
	// KeyDone signals plan completion from the supervisor.
	KeyDone = "done"
)

// ConsensusPolicy decides whether a group-chat turn's output terminates the
// conversation early. The exact semantics of consensus are a policy choice,
// not a fixed algorithm.
type ConsensusPolicy func(nodeID string, output map[string]any) bool

// DefaultConsensusPolicy terminates when a turn's output carries
// consensus=true or complete=true.
func DefaultConsensusPolicy(_ string, output map[string]any) bool {
	if v, ok := output["consensus"].(bool); ok && v {
		return true
	}
	if v, ok := output["complete"].(bool); ok && v {
		return true
	}
	return false
}

// PlannerPolicy extracts the next subordinate from a magentic supervisor's
// output. It returns the next node id and whether planning is finished.
type PlannerPolicy func(output map[string]any) (next string, done bool)

// DefaultPlannerPolicy finishes on done=true, otherwise takes next_node, or
// the first entry of plan.
func DefaultPlannerPolicy(output map[string]any) (string, bool) {
	if v, ok := output[KeyDone].(bool); ok && v {
		return "", true
	}
	if next, ok := output[KeyNextNode].(string); ok && next != "" {
		return next, false
	}
	switch plan := output[KeyPlan].(type) {
	case []string:
		if len(plan) > 0 {
			return plan[0], false
		}
	case []any:
		if len(plan) > 0 {
			if next, ok := plan[0].(string); ok {
				return next, false
			}
		}
	}
	return "", true
}
