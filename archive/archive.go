// Package archive stores completed workflow executions outside the live
// store. The engine archives on completion when a store is configured; the
// engine itself never depends on archived data.
package archive

import (
	"context"
	"errors"
	"sync"

	"github.com/codefix-ai/weave/state"
)

// ErrNotFound is returned when no archived execution matches the id.
var ErrNotFound = errors.New("archived execution not found")

// Store persists completed execution records.
type Store interface {
	// Save archives a terminal execution snapshot.
	Save(ctx context.Context, exec *state.WorkflowExecution) error
	// Get retrieves an archived execution by id.
	Get(ctx context.Context, id string) (*state.WorkflowExecution, error)
	// Close releases backing resources.
	Close() error
}

// MemoryStore is a bounded in-memory archive. When the bound is exceeded the
// oldest entries are evicted in insertion order.
type MemoryStore struct {
	maxEntries int
	entries    map[string]*state.WorkflowExecution
	order      []string
	mu         sync.RWMutex
}

// NewMemoryStore creates an in-memory archive holding at most maxEntries
// records. maxEntries <= 0 means unbounded.
func NewMemoryStore(maxEntries int) *MemoryStore {
	return &MemoryStore{
		maxEntries: maxEntries,
		entries:    make(map[string]*state.WorkflowExecution),
	}
}

func (s *MemoryStore) Save(_ context.Context, exec *state.WorkflowExecution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[exec.ID]; !exists {
		s.order = append(s.order, exec.ID)
	}
	s.entries[exec.ID] = exec.Clone()

	for s.maxEntries > 0 && len(s.order) > s.maxEntries {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.entries, oldest)
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*state.WorkflowExecution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exec, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return exec.Clone(), nil
}

func (s *MemoryStore) Close() error { return nil }

// Len returns the number of archived entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
