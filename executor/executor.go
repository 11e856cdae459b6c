// Package executor provides the node executor capability interface and the
// registry mapping declared node type tags to executors.
package executor

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/codefix-ai/weave/graph"
)

// Output key written by conditional executors and matched against
// conditional-branch connection source ports.
const KeyBranchResult = "branch_result"

// NodeExecutor runs one declared node type. Implementations must be
// side-effect-free with respect to execution state: they return their output
// and never reach into global state, so one instance is safe to invoke
// concurrently for different nodes and executions.
type NodeExecutor interface {
	// Validate checks structural preconditions on the node, e.g. that a
	// required config key or port set is present.
	Validate(ctx context.Context, node *graph.WorkflowNode) error
	// Execute runs the node with its effective input and returns its output
	// dictionary.
	Execute(ctx context.Context, node *graph.WorkflowNode, input map[string]any) (map[string]any, error)
}

// NotFoundError reports an unregistered node type. This is a fatal
// configuration error surfaced before execution begins, never retried.
type NotFoundError struct {
	NodeType string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no executor registered for node type %q", e.NodeType)
}

// Registry maps node type tags to executors. Safe for concurrent use.
type Registry struct {
	executors map[string]NodeExecutor
	logger    *zap.Logger
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		executors: make(map[string]NodeExecutor),
		logger:    logger.With(zap.String("component", "executor_registry")),
	}
}

// Register associates a type tag with an executor. The last registration for
// a tag wins, which lets tests override built-ins with doubles.
func (r *Registry) Register(nodeType string, exec NodeExecutor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.executors[nodeType]; exists {
		r.logger.Debug("overriding executor registration", zap.String("node_type", nodeType))
	}
	r.executors[nodeType] = exec
}

// Resolve looks up the executor for a type tag.
func (r *Registry) Resolve(nodeType string) (NodeExecutor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exec, ok := r.executors[nodeType]
	if !ok {
		return nil, &NotFoundError{NodeType: nodeType}
	}
	return exec, nil
}

// Types returns the registered type tags.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.executors))
	for t := range r.executors {
		types = append(types, t)
	}
	return types
}
