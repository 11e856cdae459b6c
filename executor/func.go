package executor

import (
	"context"

	"github.com/codefix-ai/weave/graph"
)

// ExecuteFunc is the signature of an inline node execution function.
type ExecuteFunc func(ctx context.Context, node *graph.WorkflowNode, input map[string]any) (map[string]any, error)

// FuncExecutor adapts a function to the NodeExecutor interface. Useful for
// inline executors and test doubles.
type FuncExecutor struct {
	fn       ExecuteFunc
	validate func(ctx context.Context, node *graph.WorkflowNode) error
}

// NewFuncExecutor creates an executor backed by fn.
func NewFuncExecutor(fn ExecuteFunc) *FuncExecutor {
	return &FuncExecutor{fn: fn}
}

// WithValidate sets an optional validation function.
func (e *FuncExecutor) WithValidate(fn func(ctx context.Context, node *graph.WorkflowNode) error) *FuncExecutor {
	e.validate = fn
	return e
}

func (e *FuncExecutor) Validate(ctx context.Context, node *graph.WorkflowNode) error {
	if e.validate == nil {
		return nil
	}
	return e.validate(ctx, node)
}

func (e *FuncExecutor) Execute(ctx context.Context, node *graph.WorkflowNode, input map[string]any) (map[string]any, error) {
	return e.fn(ctx, node, input)
}
