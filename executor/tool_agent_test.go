package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codefix-ai/weave/graph"
)

func toolNode(tool string) *graph.WorkflowNode {
	return &graph.WorkflowNode{
		ID:     "tool-node",
		Type:   graph.NodeTypeToolAgent,
		Config: map[string]any{ConfigTool: tool},
	}
}

func TestToolAgent_Execute(t *testing.T) {
	t.Parallel()
	exec := NewToolAgentExecutor(nil)
	exec.RegisterTool("double", func(_ context.Context, input map[string]any) (map[string]any, error) {
		n, _ := input["n"].(int)
		return map[string]any{"result": n * 2}, nil
	})

	out, err := exec.Execute(context.Background(), toolNode("double"), map[string]any{"n": 21})
	require.NoError(t, err)
	assert.Equal(t, 42, out["result"])
}

func TestToolAgent_ToolError(t *testing.T) {
	t.Parallel()
	exec := NewToolAgentExecutor(nil)
	exec.RegisterTool("boom", func(_ context.Context, _ map[string]any) (map[string]any, error) {
		return nil, errors.New("exploded")
	})

	_, err := exec.Execute(context.Background(), toolNode("boom"), nil)
	assert.ErrorContains(t, err, "exploded")
}

func TestToolAgent_UnregisteredTool(t *testing.T) {
	t.Parallel()
	exec := NewToolAgentExecutor(nil)
	_, err := exec.Execute(context.Background(), toolNode("ghost"), nil)
	assert.ErrorContains(t, err, "not registered")
}

func TestToolAgent_Validate(t *testing.T) {
	t.Parallel()
	exec := NewToolAgentExecutor(nil)
	exec.RegisterTool("known", func(_ context.Context, input map[string]any) (map[string]any, error) {
		return input, nil
	})

	assert.NoError(t, exec.Validate(context.Background(), toolNode("known")))
	assert.Error(t, exec.Validate(context.Background(), toolNode("ghost")))
	assert.Error(t, exec.Validate(context.Background(), &graph.WorkflowNode{ID: "n", Type: graph.NodeTypeToolAgent}))
}
