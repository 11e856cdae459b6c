package engine

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/codefix-ai/weave/executor"
	"github.com/codefix-ai/weave/graph"
	"github.com/codefix-ai/weave/router"
	"github.com/codefix-ai/weave/state"
)

// run is the per-execution working state shared by a strategy and its node
// executions. Committed outputs live both here (for routing) and on the store
// record (for observers); the run is the single writer for its execution id.
type run struct {
	engine    *Engine
	def       *graph.WorkflowDefinition
	idx       *graph.Index
	execID    string
	input     map[string]any
	executors map[string]executor.NodeExecutor
	logger    *zap.Logger

	mu        sync.Mutex
	outputs   map[string]map[string]any
	aggregate map[string]any
}

// output implements router.OutputLookup over committed node outputs.
func (r *run) output(nodeID string) (map[string]any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out, ok := r.outputs[nodeID]
	return out, ok
}

// aggregateInput returns a copy of the running aggregate: the initial input
// merged with committed node outputs in completion order.
func (r *run) aggregateInput() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make(map[string]any, len(r.aggregate))
	for k, v := range r.aggregate {
		cp[k] = v
	}
	return cp
}

// executeNode runs one node with its routed input and commits the result.
// The returned error is the node-level error; recording has already happened.
func (r *run) executeNode(ctx context.Context, nodeID string) (map[string]any, error) {
	input := router.InputFor(r.idx, nodeID, r.input, r.output)
	return r.executeNodeWith(ctx, nodeID, input)
}

// executeNodeWith runs one node with an explicitly computed input. Used by
// strategies that feed nodes something other than routed predecessor output,
// e.g. a group-chat transcript or the handoff aggregate.
func (r *run) executeNodeWith(ctx context.Context, nodeID string, input map[string]any) (map[string]any, error) {
	node, _ := r.idx.Node(nodeID)
	exec := r.executors[nodeID]

	nodeCtx, span := r.engine.tracer.Start(ctx, "node.execute",
		trace.WithAttributes(
			attribute.String("node.id", nodeID),
			attribute.String("node.type", node.Type),
		),
	)
	defer span.End()

	r.engine.emit(Event{Type: EventNodeStart, ExecutionID: r.execID, NodeID: nodeID})
	r.logger.Debug("executing node",
		zap.String("node_id", nodeID),
		zap.String("node_type", node.Type),
	)

	start := time.Now()
	output, err := exec.Execute(nodeCtx, node, input)
	duration := time.Since(start)

	// The node ran; count the attempt whether or not it succeeded.
	r.engine.store.Update(r.execID, func(rec *state.WorkflowExecution) {
		rec.Metrics.NodesExecuted++
	})

	if err != nil {
		if r.engine.collector != nil {
			r.engine.collector.NodeExecuted(node.Type, "error", duration)
		}
		r.recordError(nodeID, err)
		r.engine.emit(Event{Type: EventNodeError, ExecutionID: r.execID, NodeID: nodeID, Err: err})
		r.logger.Warn("node execution failed",
			zap.String("node_id", nodeID),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	if output == nil {
		output = map[string]any{}
	}
	r.commit(nodeID, output)

	if r.engine.collector != nil {
		r.engine.collector.NodeExecuted(node.Type, "success", duration)
	}
	r.engine.emit(Event{Type: EventNodeComplete, ExecutionID: r.execID, NodeID: nodeID, Output: output})
	r.logger.Debug("node execution completed",
		zap.String("node_id", nodeID),
		zap.Duration("duration", duration),
	)
	return output, nil
}

// commit stores a node's output locally for routing and on the execution
// record. Committed outputs are retained even if the run is later cancelled.
func (r *run) commit(nodeID string, output map[string]any) {
	r.mu.Lock()
	r.outputs[nodeID] = output
	for k, v := range output {
		r.aggregate[k] = v
	}
	r.mu.Unlock()

	r.engine.store.Update(r.execID, func(rec *state.WorkflowExecution) {
		rec.NodeOutputs[nodeID] = output
		for k, v := range output {
			rec.OutputData[k] = v
		}
	})
}

// recordError appends a node-level failure to the execution's error list.
func (r *run) recordError(nodeID string, err error) {
	r.engine.store.Update(r.execID, func(rec *state.WorkflowExecution) {
		rec.Errors = append(rec.Errors, state.ExecutionError{
			NodeID:    nodeID,
			Message:   err.Error(),
			Timestamp: time.Now(),
		})
	})
}

// participates reports whether the node takes part in orchestration.
func (r *run) participates(nodeID string) bool {
	node, ok := r.idx.Node(nodeID)
	return ok && node.Settings.Participates
}

// bestEffort reports whether failures of the node are tolerated.
func (r *run) bestEffort(nodeID string) bool {
	node, ok := r.idx.Node(nodeID)
	return ok && node.Settings.BestEffort
}

// parallelOK reports whether the node may run alongside others in a
// concurrent group.
func (r *run) parallelOK(nodeID string) bool {
	node, ok := r.idx.Node(nodeID)
	return ok && node.Settings.Parallel
}
