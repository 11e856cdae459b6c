package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codefix-ai/weave/graph"
	"github.com/codefix-ai/weave/state"
)

func magenticDef() *graph.WorkflowDefinition {
	planner := taskNode("planner")
	planner.Settings.Roles = []graph.NodeRole{graph.RoleSupervisor}
	return &graph.WorkflowDefinition{
		ID:            "wf-magentic",
		Orchestration: graph.OrchestrationMagentic,
		Nodes:         []graph.WorkflowNode{planner, taskNode("research"), taskNode("write")},
		Config:        graph.OrchestrationConfig{MaxPlanIterations: 10},
	}
}

func TestMagentic_SupervisorPlansAndReplans(t *testing.T) {
	t.Parallel()
	var order []string
	eng := newTestEngine(map[string]nodeFunc{
		"planner": func(_ context.Context, input map[string]any) (map[string]any, error) {
			order = append(order, "planner")
			switch {
			case input["researched"] == nil:
				return map[string]any{KeyNextNode: "research"}, nil
			case input["written"] == nil:
				return map[string]any{KeyNextNode: "write"}, nil
			default:
				return map[string]any{KeyDone: true}, nil
			}
		},
		"research": func(_ context.Context, _ map[string]any) (map[string]any, error) {
			order = append(order, "research")
			return map[string]any{"researched": true}, nil
		},
		"write": func(_ context.Context, _ map[string]any) (map[string]any, error) {
			order = append(order, "write")
			return map[string]any{"written": true}, nil
		},
	})

	exec, err := eng.ExecuteWorkflow(context.Background(), magenticDef(), nil)
	require.NoError(t, err)

	assert.Equal(t, state.StatusCompleted, exec.Status)
	// The supervisor re-plans after every subordinate completion.
	assert.Equal(t, []string{"planner", "research", "planner", "write", "planner"}, order)
	assert.Equal(t, true, exec.OutputData["researched"])
	assert.Equal(t, true, exec.OutputData["written"])
}

func TestMagentic_PlanListTakesFirstEntry(t *testing.T) {
	t.Parallel()
	planned := false
	eng := newTestEngine(map[string]nodeFunc{
		"planner": func(_ context.Context, input map[string]any) (map[string]any, error) {
			if planned {
				return map[string]any{KeyDone: true}, nil
			}
			planned = true
			return map[string]any{KeyPlan: []string{"write", "research"}}, nil
		},
	})

	exec, err := eng.ExecuteWorkflow(context.Background(), magenticDef(), nil)
	require.NoError(t, err)
	assert.Equal(t, state.StatusCompleted, exec.Status)
	assert.Contains(t, exec.NodeOutputs, "write")
	assert.NotContains(t, exec.NodeOutputs, "research")
}

func TestMagentic_SelfPlanFails(t *testing.T) {
	t.Parallel()
	eng := newTestEngine(map[string]nodeFunc{
		"planner": func(_ context.Context, _ map[string]any) (map[string]any, error) {
			return map[string]any{KeyNextNode: "planner"}, nil
		},
	})

	exec, err := eng.ExecuteWorkflow(context.Background(), magenticDef(), nil)
	require.NoError(t, err)
	assert.Equal(t, state.StatusFailed, exec.Status)
	require.NotEmpty(t, exec.Errors)
	assert.Contains(t, exec.Errors[0].Message, "supervisor planned itself")
}

func TestMagentic_UnknownPlannedNodeFails(t *testing.T) {
	t.Parallel()
	eng := newTestEngine(map[string]nodeFunc{
		"planner": func(_ context.Context, _ map[string]any) (map[string]any, error) {
			return map[string]any{KeyNextNode: "ghost"}, nil
		},
	})

	exec, err := eng.ExecuteWorkflow(context.Background(), magenticDef(), nil)
	require.NoError(t, err)
	assert.Equal(t, state.StatusFailed, exec.Status)
}

func TestMagentic_IterationBudgetTerminates(t *testing.T) {
	t.Parallel()
	def := magenticDef()
	def.Config.MaxPlanIterations = 3
	eng := newTestEngine(map[string]nodeFunc{
		"planner": func(_ context.Context, _ map[string]any) (map[string]any, error) {
			return map[string]any{KeyNextNode: "research"}, nil
		},
	})

	exec, err := eng.ExecuteWorkflow(context.Background(), def, nil)
	require.NoError(t, err)

	// The planner never finishes on its own; the iteration budget does.
	assert.Equal(t, state.StatusCompleted, exec.Status)
	assert.Equal(t, 6, exec.Metrics.NodesExecuted)
}

func TestMagentic_SubordinateFailureFailsRun(t *testing.T) {
	t.Parallel()
	eng := newTestEngine(map[string]nodeFunc{
		"planner": func(_ context.Context, _ map[string]any) (map[string]any, error) {
			return map[string]any{KeyNextNode: "research"}, nil
		},
		"research": func(_ context.Context, _ map[string]any) (map[string]any, error) {
			return nil, errors.New("source unavailable")
		},
	})

	exec, err := eng.ExecuteWorkflow(context.Background(), magenticDef(), nil)
	require.NoError(t, err)
	assert.Equal(t, state.StatusFailed, exec.Status)
	require.Len(t, exec.Errors, 1)
	assert.Equal(t, "research", exec.Errors[0].NodeID)
}

func TestMagentic_CustomPlannerPolicy(t *testing.T) {
	t.Parallel()
	eng := newTestEngine(map[string]nodeFunc{
		"planner": func(_ context.Context, _ map[string]any) (map[string]any, error) {
			return map[string]any{"delegate_to": "write"}, nil
		},
	}, WithPlannerPolicy(func(output map[string]any) (string, bool) {
		next, _ := output["delegate_to"].(string)
		return next, next == ""
	}))

	def := magenticDef()
	def.Config.MaxPlanIterations = 1
	exec, err := eng.ExecuteWorkflow(context.Background(), def, nil)
	require.NoError(t, err)

	assert.Equal(t, state.StatusCompleted, exec.Status)
	assert.Contains(t, exec.NodeOutputs, "write")
}
