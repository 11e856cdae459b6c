package executor

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/codefix-ai/weave/graph"
)

// ConfigTool is the node config key naming the bound tool.
const ConfigTool = "tool"

// ToolFunc is a named tool invoked with the node's effective input.
type ToolFunc func(ctx context.Context, input map[string]any) (map[string]any, error)

// ToolAgentExecutor runs "ToolAgent" nodes by dispatching to a registered
// tool function named in the node config.
type ToolAgentExecutor struct {
	tools  map[string]ToolFunc
	logger *zap.Logger
	mu     sync.RWMutex
}

// NewToolAgentExecutor creates a tool agent executor with no tools bound.
func NewToolAgentExecutor(logger *zap.Logger) *ToolAgentExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ToolAgentExecutor{
		tools:  make(map[string]ToolFunc),
		logger: logger.With(zap.String("component", "tool_agent_executor")),
	}
}

// RegisterTool binds a tool name to a function. Last registration wins.
func (e *ToolAgentExecutor) RegisterTool(name string, fn ToolFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tools[name] = fn
}

// Validate requires that the node names a registered tool.
func (e *ToolAgentExecutor) Validate(_ context.Context, node *graph.WorkflowNode) error {
	name, ok := node.Config[ConfigTool].(string)
	if !ok || name == "" {
		return fmt.Errorf("tool agent node %s: config key %q missing or not a string", node.ID, ConfigTool)
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	if _, ok := e.tools[name]; !ok {
		return fmt.Errorf("tool agent node %s: tool %q is not registered", node.ID, name)
	}
	return nil
}

// Execute invokes the bound tool with the node's effective input.
func (e *ToolAgentExecutor) Execute(ctx context.Context, node *graph.WorkflowNode, input map[string]any) (map[string]any, error) {
	name, _ := node.Config[ConfigTool].(string)

	e.mu.RLock()
	fn, ok := e.tools[name]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("tool %q is not registered", name)
	}

	e.logger.Debug("invoking tool",
		zap.String("node_id", node.ID),
		zap.String("tool", name),
	)
	output, err := fn(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("tool %s failed: %w", name, err)
	}
	return output, nil
}
