package state

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Store holds live executions keyed by id. Mutations follow a single-writer
// per execution id discipline: only the dispatcher task owning an id calls
// Update for it. Reads take consistent snapshots under a reader lock and
// never observe partial writes.
type Store struct {
	executions map[string]*WorkflowExecution
	cancels    map[string]context.CancelFunc
	logger     *zap.Logger
	mu         sync.RWMutex
}

// NewStore creates an empty execution store.
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		executions: make(map[string]*WorkflowExecution),
		cancels:    make(map[string]context.CancelFunc),
		logger:     logger.With(zap.String("component", "execution_store")),
	}
}

// Add registers a new execution together with its cancel function.
func (s *Store) Add(exec *WorkflowExecution, cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executions[exec.ID] = exec
	if cancel != nil {
		s.cancels[exec.ID] = cancel
	}
}

// Get returns a snapshot of the execution, or nil if unknown. Calling Get
// twice without an intervening state change yields equal snapshots.
func (s *Store) Get(id string) *WorkflowExecution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exec, ok := s.executions[id]
	if !ok {
		return nil
	}
	return exec.Clone()
}

// List returns snapshots of all tracked executions. The result is a point-in-
// time copy, not a live view.
func (s *Store) List() []*WorkflowExecution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*WorkflowExecution, 0, len(s.executions))
	for _, exec := range s.executions {
		out = append(out, exec.Clone())
	}
	return out
}

// Update applies fn to the execution's live record under the write lock.
// Only the owning dispatcher task may call this for a given id.
func (s *Store) Update(id string, fn func(*WorkflowExecution)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if exec, ok := s.executions[id]; ok {
		fn(exec)
	}
}

// Cancel transitions a non-terminal execution to Cancelled and signals its
// context. Returns true iff such an execution existed. Committed node outputs
// are retained, never rolled back.
func (s *Store) Cancel(id string) bool {
	s.mu.Lock()
	exec, ok := s.executions[id]
	if !ok || exec.Status.IsTerminal() {
		s.mu.Unlock()
		return false
	}
	exec.Status = StatusCancelled
	now := time.Now()
	exec.CompletedAt = &now
	cancel := s.cancels[id]
	delete(s.cancels, id)
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.logger.Info("execution cancelled", zap.String("execution_id", id))
	return true
}

// Release drops the cancel function once an execution reaches a terminal
// state. The record itself is retained until purged.
func (s *Store) Release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cancels, id)
}

// Purge removes an execution record entirely.
func (s *Store) Purge(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.executions, id)
	delete(s.cancels, id)
}

// Len returns the number of tracked executions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.executions)
}
