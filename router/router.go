// Package router computes each node's effective input from predecessor
// outputs and decides successor activation according to connection semantics.
package router

import (
	"github.com/codefix-ai/weave/executor"
	"github.com/codefix-ai/weave/graph"
)

// OutputLookup resolves a completed node's output dictionary. The second
// return is false when the node has not produced output.
type OutputLookup func(nodeID string) (map[string]any, bool)

// InputFor computes the effective input of a node: the initial workflow input
// shallow-merged with each active incoming connection's source output, in
// connection declaration order. Later connections overwrite earlier keys, so
// the merge is deterministic by declaration order.
//
// DataFlow connections always carry data once their source has completed.
// ConditionalBranch connections carry data only when the branch matches.
// ControlFlow connections never carry data.
func InputFor(idx *graph.Index, nodeID string, initial map[string]any, outputs OutputLookup) map[string]any {
	merged := make(map[string]any, len(initial))
	for k, v := range initial {
		merged[k] = v
	}
	for _, conn := range idx.Incoming(nodeID) {
		if conn.Type == graph.ConnectionControlFlow {
			continue
		}
		if !conn.AllowsOrchestration(idx.Definition().Orchestration) {
			continue
		}
		srcOutput, ok := outputs(conn.SourceID)
		if !ok {
			continue
		}
		if conn.Type == graph.ConnectionConditionalBranch && !branchMatches(conn, srcOutput) {
			continue
		}
		for k, v := range srcOutput {
			merged[k] = v
		}
	}
	return merged
}

// Activates reports whether a connection transfers control to its target
// given the source node's output. DataFlow and ControlFlow connections always
// activate; a ConditionalBranch activates only when the source's declared
// decision matches the connection's source port.
func Activates(conn *graph.WorkflowConnection, sourceOutput map[string]any) bool {
	if conn.Type != graph.ConnectionConditionalBranch {
		return true
	}
	return branchMatches(conn, sourceOutput)
}

// Eligible reports whether a node may run given the set of completed
// predecessors: a node with no incoming connections is always eligible; a
// node with incoming connections needs at least one active connection whose
// source has completed. Non-matching conditional branches never become
// eligible and are skipped, not executed.
func Eligible(idx *graph.Index, nodeID string, outputs OutputLookup) bool {
	incoming := relevantIncoming(idx, nodeID)
	if len(incoming) == 0 {
		return true
	}
	for _, conn := range incoming {
		srcOutput, ok := outputs(conn.SourceID)
		if !ok {
			continue
		}
		if Activates(conn, srcOutput) {
			return true
		}
	}
	return false
}

// ActiveSuccessors returns the target node ids of active outgoing connections
// in declaration order, deduplicated.
func ActiveSuccessors(idx *graph.Index, nodeID string, output map[string]any) []string {
	var successors []string
	seen := make(map[string]bool)
	for _, conn := range idx.Outgoing(nodeID) {
		if !conn.AllowsOrchestration(idx.Definition().Orchestration) {
			continue
		}
		if !Activates(conn, output) {
			continue
		}
		if !seen[conn.TargetID] {
			seen[conn.TargetID] = true
			successors = append(successors, conn.TargetID)
		}
	}
	return successors
}

// relevantIncoming filters incoming connections to those traversable under
// the definition's orchestration type.
func relevantIncoming(idx *graph.Index, nodeID string) []*graph.WorkflowConnection {
	incoming := idx.Incoming(nodeID)
	out := make([]*graph.WorkflowConnection, 0, len(incoming))
	for _, conn := range incoming {
		if conn.AllowsOrchestration(idx.Definition().Orchestration) {
			out = append(out, conn)
		}
	}
	return out
}

func branchMatches(conn *graph.WorkflowConnection, sourceOutput map[string]any) bool {
	decision, ok := sourceOutput[executor.KeyBranchResult].(string)
	if !ok {
		return false
	}
	return decision == conn.SourcePort
}
