package graph

import "fmt"

// GraphErrorCode classifies definition-level validation failures.
type GraphErrorCode string

const (
	ErrDanglingReference  GraphErrorCode = "DANGLING_REFERENCE"
	ErrUnreachableNode    GraphErrorCode = "UNREACHABLE_NODE"
	ErrInvalidBranchCount GraphErrorCode = "INVALID_BRANCH_COUNT"
	ErrUnexpectedCycle    GraphErrorCode = "UNEXPECTED_CYCLE"
	ErrDuplicateNode      GraphErrorCode = "DUPLICATE_NODE"
	ErrSelfLoop           GraphErrorCode = "SELF_LOOP"
	ErrMissingRole        GraphErrorCode = "MISSING_ROLE"
	ErrEmptyWorkflow      GraphErrorCode = "EMPTY_WORKFLOW"
)

// GraphError is a definition-level validation failure. Execution never starts
// when one is returned.
type GraphError struct {
	Code         GraphErrorCode `json:"code"`
	NodeID       string         `json:"node_id,omitempty"`
	ConnectionID string         `json:"connection_id,omitempty"`
	Message      string         `json:"message"`
}

func (e *GraphError) Error() string {
	switch {
	case e.NodeID != "":
		return fmt.Sprintf("[%s] node %s: %s", e.Code, e.NodeID, e.Message)
	case e.ConnectionID != "":
		return fmt.Sprintf("[%s] connection %s: %s", e.Code, e.ConnectionID, e.Message)
	default:
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
}

// Validate checks a workflow definition before execution. It verifies that
// connection endpoints resolve to declared nodes, that every node is reachable
// from an entry node, that conditional nodes declare both branches, that
// participating nodes declare a role, and that non-handoff graphs are acyclic.
func Validate(def *WorkflowDefinition) error {
	if def == nil || len(def.Nodes) == 0 {
		return &GraphError{Code: ErrEmptyWorkflow, Message: "workflow has no nodes"}
	}

	nodeIDs := make(map[string]bool, len(def.Nodes))
	for i := range def.Nodes {
		node := &def.Nodes[i]
		if nodeIDs[node.ID] {
			return &GraphError{Code: ErrDuplicateNode, NodeID: node.ID, Message: "duplicate node id"}
		}
		nodeIDs[node.ID] = true

		if node.Type == NodeTypeConditionalAgent && len(node.OutputPorts) < 2 {
			return &GraphError{
				Code:    ErrInvalidBranchCount,
				NodeID:  node.ID,
				Message: fmt.Sprintf("conditional node declares %d output ports, need at least 2", len(node.OutputPorts)),
			}
		}
		if node.Settings.Participates && len(node.Settings.Roles) == 0 {
			return &GraphError{Code: ErrMissingRole, NodeID: node.ID, Message: "participating node declares no role"}
		}
	}

	for i := range def.Connections {
		conn := &def.Connections[i]
		if !nodeIDs[conn.SourceID] {
			return &GraphError{
				Code:         ErrDanglingReference,
				ConnectionID: conn.ID,
				Message:      fmt.Sprintf("source node %q is not declared", conn.SourceID),
			}
		}
		if !nodeIDs[conn.TargetID] {
			return &GraphError{
				Code:         ErrDanglingReference,
				ConnectionID: conn.ID,
				Message:      fmt.Sprintf("target node %q is not declared", conn.TargetID),
			}
		}
		// Handoff explicitly permits cyclic back-edges, self-loops included.
		if conn.SourceID == conn.TargetID && def.Orchestration != OrchestrationHandoff {
			return &GraphError{Code: ErrSelfLoop, ConnectionID: conn.ID, Message: "connection source and target must differ"}
		}
	}

	idx := NewIndex(def)

	if def.Orchestration != OrchestrationHandoff {
		if cycleNode := idx.findCycle(); cycleNode != "" {
			return &GraphError{
				Code:    ErrUnexpectedCycle,
				NodeID:  cycleNode,
				Message: fmt.Sprintf("cycle detected for %s orchestration", def.Orchestration),
			}
		}
	}

	if unreachable := idx.firstUnreachable(); unreachable != "" {
		return &GraphError{Code: ErrUnreachableNode, NodeID: unreachable, Message: "node is not reachable from any entry node"}
	}

	return nil
}
