package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/codefix-ai/weave/archive"
	"github.com/codefix-ai/weave/config"
	"github.com/codefix-ai/weave/executor"
	"github.com/codefix-ai/weave/graph"
	"github.com/codefix-ai/weave/internal/metrics"
	"github.com/codefix-ai/weave/state"
)

// Engine dispatches workflow executions across orchestration strategies.
type Engine struct {
	registry  *executor.Registry
	store     *state.Store
	archive   archive.Store
	collector *metrics.Collector
	tracer    trace.Tracer
	logger    *zap.Logger
	defaults  config.EngineConfig
	events    EventHandler
	consensus ConsensusPolicy
	planner   PlannerPolicy
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithArchive archives completed executions to the given store.
func WithArchive(store archive.Store) Option {
	return func(e *Engine) { e.archive = store }
}

// WithMetrics records engine metrics on the given collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(e *Engine) { e.collector = collector }
}

// WithEventHandler subscribes a handler to execution events.
func WithEventHandler(handler EventHandler) Option {
	return func(e *Engine) { e.events = handler }
}

// WithDefaults overrides the engine's default orchestration bounds.
func WithDefaults(defaults config.EngineConfig) Option {
	return func(e *Engine) { e.defaults = defaults }
}

// WithConsensusPolicy overrides the group-chat termination policy.
func WithConsensusPolicy(policy ConsensusPolicy) Option {
	return func(e *Engine) {
		if policy != nil {
			e.consensus = policy
		}
	}
}

// WithPlannerPolicy overrides the magentic planner policy.
func WithPlannerPolicy(policy PlannerPolicy) Option {
	return func(e *Engine) {
		if policy != nil {
			e.planner = policy
		}
	}
}

// New creates an engine over the given executor registry.
func New(registry *executor.Registry, opts ...Option) *Engine {
	e := &Engine{
		registry:  registry,
		logger:    zap.NewNop(),
		defaults:  config.DefaultConfig().Engine,
		tracer:    otel.Tracer("github.com/codefix-ai/weave/engine"),
		consensus: DefaultConsensusPolicy,
		planner:   DefaultPlannerPolicy,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(zap.String("component", "engine"))
	e.store = state.NewStore(e.logger)
	return e
}

// ExecuteWorkflow runs a workflow definition with the given initial input and
// returns the populated execution record. It returns an error only for
// definition-level validation or executor-resolution failures caught before
// any node runs; node-level failures populate the record's Errors and set
// status Failed.
func (e *Engine) ExecuteWorkflow(ctx context.Context, def *graph.WorkflowDefinition, input map[string]any) (*state.WorkflowExecution, error) {
	if err := graph.Validate(def); err != nil {
		return nil, err
	}

	idx := graph.NewIndex(def)
	executors, err := e.resolveExecutors(ctx, def)
	if err != nil {
		return nil, err
	}

	strategy, err := e.strategyFor(def.Orchestration)
	if err != nil {
		return nil, err
	}

	exec := &state.WorkflowExecution{
		ID:          uuid.New().String(),
		WorkflowID:  def.ID,
		Status:      state.StatusPending,
		Input:       cloneInput(input),
		NodeOutputs: make(map[string]map[string]any),
		OutputData:  cloneInput(input),
		StartedAt:   time.Now(),
	}
	if exec.OutputData == nil {
		exec.OutputData = make(map[string]any)
	}

	timeout := def.Config.ExecutionTimeout
	if timeout <= 0 {
		timeout = time.Duration(e.defaults.DefaultTimeout)
	}
	var runCtx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	e.store.Add(exec, cancel)
	e.store.Update(exec.ID, func(rec *state.WorkflowExecution) {
		rec.Status = state.StatusRunning
	})
	if e.collector != nil {
		e.collector.ExecutionStarted()
	}

	runCtx, span := e.tracer.Start(runCtx, "workflow.execute",
		trace.WithAttributes(
			attribute.String("workflow.id", def.ID),
			attribute.String("workflow.orchestration", string(def.Orchestration)),
			attribute.String("execution.id", exec.ID),
		),
	)
	defer span.End()

	e.logger.Info("execution started",
		zap.String("execution_id", exec.ID),
		zap.String("workflow_id", def.ID),
		zap.String("orchestration", string(def.Orchestration)),
	)

	r := &run{
		engine:    e,
		def:       def,
		idx:       idx,
		execID:    exec.ID,
		input:     exec.Input,
		executors: executors,
		outputs:   make(map[string]map[string]any),
		aggregate: cloneInput(exec.OutputData),
		logger:    e.logger.With(zap.String("execution_id", exec.ID)),
	}

	runErr := strategy(runCtx, r)
	e.finalize(exec.ID, def, runCtx, runErr)
	e.store.Release(exec.ID)

	final := e.store.Get(exec.ID)
	e.archiveExecution(final)
	e.emit(Event{Type: EventExecutionFinished, ExecutionID: exec.ID})
	return final, nil
}

// GetActiveExecution returns a snapshot of the execution, or nil if unknown.
func (e *Engine) GetActiveExecution(id string) *state.WorkflowExecution {
	return e.store.Get(id)
}

// GetActiveExecutions returns a point-in-time snapshot of all tracked
// executions.
func (e *Engine) GetActiveExecutions() []*state.WorkflowExecution {
	return e.store.List()
}

// CancelExecution cancels a running execution. It returns true iff an
// execution in a non-terminal state existed and was transitioned to
// Cancelled. Committed node outputs are retained.
func (e *Engine) CancelExecution(id string) bool {
	return e.store.Cancel(id)
}

// PurgeExecution drops a terminal execution record from the live store.
func (e *Engine) PurgeExecution(id string) {
	e.store.Purge(id)
}

// resolveExecutors resolves and structurally validates the executor of every
// participating node. Any miss is a fatal configuration error surfaced before
// execution begins.
func (e *Engine) resolveExecutors(ctx context.Context, def *graph.WorkflowDefinition) (map[string]executor.NodeExecutor, error) {
	executors := make(map[string]executor.NodeExecutor)
	for _, node := range def.Participants() {
		exec, err := e.registry.Resolve(node.Type)
		if err != nil {
			return nil, err
		}
		if err := exec.Validate(ctx, node); err != nil {
			return nil, fmt.Errorf("node %s failed executor validation: %w", node.ID, err)
		}
		executors[node.ID] = exec
	}
	return executors, nil
}

type strategyFunc func(ctx context.Context, r *run) error

func (e *Engine) strategyFor(ot graph.OrchestrationType) (strategyFunc, error) {
	switch ot {
	case graph.OrchestrationSequential:
		return runSequential, nil
	case graph.OrchestrationConcurrent:
		return runConcurrent, nil
	case graph.OrchestrationGroupChat:
		return runGroupChat, nil
	case graph.OrchestrationHandoff:
		return runHandoff, nil
	case graph.OrchestrationMagentic:
		return runMagentic, nil
	default:
		return nil, fmt.Errorf("unknown orchestration type: %s", ot)
	}
}

// finalize commits the terminal status. A status already terminal (set by
// CancelExecution) is never overwritten.
func (e *Engine) finalize(execID string, def *graph.WorkflowDefinition, runCtx context.Context, runErr error) {
	now := time.Now()
	var finalStatus state.Status

	e.store.Update(execID, func(rec *state.WorkflowExecution) {
		if !rec.Status.IsTerminal() {
			switch {
			case errors.Is(runErr, context.DeadlineExceeded) || errors.Is(runCtx.Err(), context.DeadlineExceeded):
				rec.Status = state.StatusFailed
				rec.Errors = append(rec.Errors, state.ExecutionError{
					Message:   "execution timed out",
					Timestamp: now,
				})
			case errors.Is(runErr, context.Canceled) || errors.Is(runCtx.Err(), context.Canceled):
				rec.Status = state.StatusCancelled
			case runErr != nil:
				rec.Status = state.StatusFailed
			default:
				rec.Status = state.StatusCompleted
			}
			rec.CompletedAt = &now
		}
		rec.Metrics.Duration = rec.CompletedAt.Sub(rec.StartedAt)
		finalStatus = rec.Status
	})

	if e.collector != nil {
		snapshot := e.store.Get(execID)
		if snapshot != nil {
			e.collector.ExecutionFinished(string(def.Orchestration), string(finalStatus), snapshot.Metrics.Duration)
		}
	}

	e.logger.Info("execution finished",
		zap.String("execution_id", execID),
		zap.String("status", string(finalStatus)),
	)
}

func (e *Engine) archiveExecution(exec *state.WorkflowExecution) {
	if e.archive == nil || exec == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.archive.Save(ctx, exec); err != nil {
		e.logger.Warn("failed to archive execution",
			zap.String("execution_id", exec.ID),
			zap.Error(err),
		)
	}
}

func (e *Engine) emit(event Event) {
	if e.events != nil {
		e.events(event)
	}
}

func cloneInput(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	cp := make(map[string]any, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
