package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codefix-ai/weave/graph"
	"github.com/codefix-ai/weave/state"
)

func handoffDef(entry string, maxHops int) *graph.WorkflowDefinition {
	return &graph.WorkflowDefinition{
		ID:            "wf-handoff",
		Orchestration: graph.OrchestrationHandoff,
		Nodes: []graph.WorkflowNode{
			taskNode("triage"), taskNode("billing"), taskNode("support"),
		},
		Connections: []graph.WorkflowConnection{
			dataConn("c1", "triage", "billing"),
			dataConn("c2", "triage", "support"),
			dataConn("c3", "billing", "triage"),
		},
		Config: graph.OrchestrationConfig{EntryNode: entry, MaxHops: maxHops},
	}
}

func handTo(target string, extra map[string]any) nodeFunc {
	return func(_ context.Context, _ map[string]any) (map[string]any, error) {
		out := map[string]any{KeyHandoffTarget: target}
		for k, v := range extra {
			out[k] = v
		}
		return out, nil
	}
}

func TestHandoff_FollowsTargets(t *testing.T) {
	t.Parallel()
	eng := newTestEngine(map[string]nodeFunc{
		"triage":  handTo("billing", map[string]any{"triaged": true}),
		"billing": handTo("support", map[string]any{"invoice": "inv-1"}),
		"support": handTo("", map[string]any{"resolved": true}),
	})

	exec, err := eng.ExecuteWorkflow(context.Background(), handoffDef("triage", 10), map[string]any{"ticket": "t-7"})
	require.NoError(t, err)

	assert.Equal(t, state.StatusCompleted, exec.Status)
	assert.Equal(t, 3, exec.Metrics.NodesExecuted)
	// The walk accumulates every hop's output.
	assert.Equal(t, "t-7", exec.OutputData["ticket"])
	assert.Equal(t, true, exec.OutputData["triaged"])
	assert.Equal(t, "inv-1", exec.OutputData["invoice"])
	assert.Equal(t, true, exec.OutputData["resolved"])
}

func TestHandoff_MissingTargetEndsWalk(t *testing.T) {
	t.Parallel()
	eng := newTestEngine(map[string]nodeFunc{
		"triage": func(_ context.Context, _ map[string]any) (map[string]any, error) {
			return map[string]any{"no_target": true}, nil
		},
	})

	exec, err := eng.ExecuteWorkflow(context.Background(), handoffDef("triage", 10), nil)
	require.NoError(t, err)
	assert.Equal(t, state.StatusCompleted, exec.Status)
	assert.Equal(t, 1, exec.Metrics.NodesExecuted)
}

func TestHandoff_UnknownTargetFails(t *testing.T) {
	t.Parallel()
	eng := newTestEngine(map[string]nodeFunc{
		"triage": handTo("escalation", nil),
	})

	exec, err := eng.ExecuteWorkflow(context.Background(), handoffDef("triage", 10), nil)
	require.NoError(t, err)

	assert.Equal(t, state.StatusFailed, exec.Status)
	require.Len(t, exec.Errors, 1)
	assert.Contains(t, exec.Errors[0].Message, "escalation")
}

func TestHandoff_HopBudgetTerminatesCycles(t *testing.T) {
	t.Parallel()
	eng := newTestEngine(map[string]nodeFunc{
		"triage":  handTo("billing", nil),
		"billing": handTo("triage", nil),
	})

	exec, err := eng.ExecuteWorkflow(context.Background(), handoffDef("triage", 5), nil)
	require.NoError(t, err)

	// Cyclic handoff graphs are legal; the hop budget guarantees termination.
	assert.Equal(t, state.StatusCompleted, exec.Status)
	assert.Equal(t, 5, exec.Metrics.NodesExecuted)
}

func TestHandoff_NonParticipatingEntryFails(t *testing.T) {
	t.Parallel()
	def := handoffDef("triage", 10)
	def.Nodes[0].Settings.Participates = false
	eng := newTestEngine(nil)

	exec, err := eng.ExecuteWorkflow(context.Background(), def, nil)
	require.NoError(t, err)
	assert.Equal(t, state.StatusFailed, exec.Status)
}
