package executor

import (
	"context"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"go.uber.org/zap"

	"github.com/codefix-ai/weave/graph"
)

// ConfigExpression is the node config key holding the branch expression.
const ConfigExpression = "expression"

// ConditionalAgentExecutor runs "ConditionalAgent" nodes: it evaluates the
// node's boolean expression against the effective input and emits the branch
// decision under KeyBranchResult ("true" or "false"). Conditional-branch
// connections match that value against their source port.
type ConditionalAgentExecutor struct {
	logger *zap.Logger
}

// NewConditionalAgentExecutor creates a conditional agent executor.
func NewConditionalAgentExecutor(logger *zap.Logger) *ConditionalAgentExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConditionalAgentExecutor{
		logger: logger.With(zap.String("component", "conditional_agent_executor")),
	}
}

// Validate requires a compilable expression and both branch ports.
func (e *ConditionalAgentExecutor) Validate(_ context.Context, node *graph.WorkflowNode) error {
	if len(node.OutputPorts) < 2 {
		return fmt.Errorf("conditional node %s: requires at least 2 output ports, has %d", node.ID, len(node.OutputPorts))
	}
	if _, err := e.compile(node); err != nil {
		return err
	}
	return nil
}

// Execute evaluates the expression. A non-boolean result is a node error.
func (e *ConditionalAgentExecutor) Execute(_ context.Context, node *graph.WorkflowNode, input map[string]any) (map[string]any, error) {
	program, err := e.compile(node)
	if err != nil {
		return nil, err
	}

	env := input
	if env == nil {
		env = map[string]any{}
	}
	result, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("conditional node %s: expression evaluation failed: %w", node.ID, err)
	}
	decision, ok := result.(bool)
	if !ok {
		return nil, fmt.Errorf("conditional node %s: expression returned %T, want bool", node.ID, result)
	}

	e.logger.Debug("branch decision",
		zap.String("node_id", node.ID),
		zap.Bool("decision", decision),
	)

	branch := "false"
	if decision {
		branch = "true"
	}
	return map[string]any{KeyBranchResult: branch}, nil
}

func (e *ConditionalAgentExecutor) compile(node *graph.WorkflowNode) (*vm.Program, error) {
	source, ok := node.Config[ConfigExpression].(string)
	if !ok || source == "" {
		return nil, fmt.Errorf("conditional node %s: config key %q missing or not a string", node.ID, ConfigExpression)
	}
	program, err := expr.Compile(source, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("conditional node %s: invalid expression: %w", node.ID, err)
	}
	return program, nil
}
