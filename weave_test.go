package weave

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codefix-ai/weave/chat"
	"github.com/codefix-ai/weave/executor"
	"github.com/codefix-ai/weave/graph"
	"github.com/codefix-ai/weave/state"
)

// End-to-end: an LLM node feeds a conditional gate that routes to one of two
// tool nodes.
func TestNew_FullPipeline(t *testing.T) {
	t.Parallel()
	client := chat.ClientFunc(func(_ context.Context, _ *chat.Request) (*chat.Response, error) {
		return &chat.Response{Content: "approve"}, nil
	})

	eng := New(Options{
		Chat: client,
		Tools: map[string]executor.ToolFunc{
			"ship": func(_ context.Context, _ map[string]any) (map[string]any, error) {
				return map[string]any{"shipped": true}, nil
			},
			"hold": func(_ context.Context, _ map[string]any) (map[string]any, error) {
				return map[string]any{"held": true}, nil
			},
		},
	})

	participates := graph.OrchestrationSettings{
		Participates: true,
		Roles:        []graph.NodeRole{graph.RolePrimaryExecutor},
	}
	def := &graph.WorkflowDefinition{
		ID:            "release-gate",
		Orchestration: graph.OrchestrationSequential,
		Nodes: []graph.WorkflowNode{
			{
				ID: "review", Type: graph.NodeTypeLLMAgent,
				Config:      map[string]any{executor.ConfigPrompt: "Review ${change}"},
				OutputPorts: []string{"verdict"},
				Settings:    participates,
			},
			{
				ID: "gate", Type: graph.NodeTypeConditionalAgent,
				Config:      map[string]any{executor.ConfigExpression: `verdict == "approve"`},
				OutputPorts: []string{"true", "false"},
				Settings:    participates,
			},
			{
				ID: "ship", Type: graph.NodeTypeToolAgent,
				Config:   map[string]any{executor.ConfigTool: "ship"},
				Settings: participates,
			},
			{
				ID: "hold", Type: graph.NodeTypeToolAgent,
				Config:   map[string]any{executor.ConfigTool: "hold"},
				Settings: participates,
			},
		},
		Connections: []graph.WorkflowConnection{
			{ID: "c1", SourceID: "review", TargetID: "gate", Type: graph.ConnectionDataFlow},
			{ID: "c2", SourceID: "gate", TargetID: "ship", SourcePort: "true", Type: graph.ConnectionConditionalBranch},
			{ID: "c3", SourceID: "gate", TargetID: "hold", SourcePort: "false", Type: graph.ConnectionConditionalBranch},
		},
	}

	exec, err := eng.ExecuteWorkflow(context.Background(), def, map[string]any{"change": "pr-12"})
	require.NoError(t, err)

	assert.Equal(t, state.StatusCompleted, exec.Status)
	assert.Equal(t, true, exec.OutputData["shipped"])
	assert.NotContains(t, exec.NodeOutputs, "hold")
}

func TestNew_LLMAgentRequiresChatClient(t *testing.T) {
	t.Parallel()
	eng := New(Options{})

	def := &graph.WorkflowDefinition{
		ID:            "wf",
		Orchestration: graph.OrchestrationSequential,
		Nodes: []graph.WorkflowNode{{
			ID: "n", Type: graph.NodeTypeLLMAgent,
			Config: map[string]any{executor.ConfigPrompt: "hi"},
			Settings: graph.OrchestrationSettings{
				Participates: true,
				Roles:        []graph.NodeRole{graph.RolePrimaryExecutor},
			},
		}},
	}

	_, err := eng.ExecuteWorkflow(context.Background(), def, nil)
	assert.Error(t, err)
}
