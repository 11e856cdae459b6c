// Package engine dispatches workflow executions: it validates the definition,
// selects the orchestration strategy, drives node executors through the
// registry, and owns the lifecycle of each WorkflowExecution record.
//
// Node-level failures never propagate as errors from ExecuteWorkflow; they
// are recorded on the execution and reflected in its status. Only
// definition-level validation and executor-resolution problems fail fast.
package engine
