// Package state owns the set of live workflow executions: the execution
// record, its status state machine, and the synchronized store.
package state

import (
	"time"
)

// Status is the execution lifecycle state.
// Pending -> Running -> {Completed | Failed | Cancelled}; terminal states are
// final and never transitioned out of.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// IsTerminal reports whether the status is final.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// ExecutionError records one node-level failure.
type ExecutionError struct {
	NodeID    string    `json:"node_id,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Metrics aggregates per-run counters. NodesExecuted counts execution
// attempts: a node that ran and failed still counts.
type Metrics struct {
	Duration      time.Duration `json:"duration"`
	NodesExecuted int           `json:"nodes_executed"`
}

// WorkflowExecution is one run instance of a workflow definition. The store
// owns live instances; callers only ever see snapshots.
type WorkflowExecution struct {
	ID          string                    `json:"id"`
	WorkflowID  string                    `json:"workflow_id"`
	Status      Status                    `json:"status"`
	Input       map[string]any            `json:"input,omitempty"`
	NodeOutputs map[string]map[string]any `json:"node_outputs,omitempty"`
	OutputData  map[string]any            `json:"output_data,omitempty"`
	Errors      []ExecutionError          `json:"errors,omitempty"`
	Metrics     Metrics                   `json:"metrics"`
	StartedAt   time.Time                 `json:"started_at"`
	CompletedAt *time.Time                `json:"completed_at,omitempty"`
}

// Clone returns a snapshot deep enough that callers cannot mutate the stored
// record through it. Output values themselves are shared; executors return
// fresh maps per node, and committed outputs are never written again.
func (e *WorkflowExecution) Clone() *WorkflowExecution {
	cp := *e

	cp.Input = cloneMap(e.Input)
	cp.OutputData = cloneMap(e.OutputData)

	if e.NodeOutputs != nil {
		cp.NodeOutputs = make(map[string]map[string]any, len(e.NodeOutputs))
		for nodeID, output := range e.NodeOutputs {
			cp.NodeOutputs[nodeID] = cloneMap(output)
		}
	}
	if e.Errors != nil {
		cp.Errors = append([]ExecutionError(nil), e.Errors...)
	}
	if e.CompletedAt != nil {
		ts := *e.CompletedAt
		cp.CompletedAt = &ts
	}
	return &cp
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	cp := make(map[string]any, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
