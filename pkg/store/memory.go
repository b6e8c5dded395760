package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ehudso7/halcyon-cinema-sub003/pkg/schemas"
)

// MemoryStore is an in-memory Store, safe for concurrent access.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]*Run
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]*Run)}
}

// CreateRun creates a new run record.
func (m *MemoryStore) CreateRun(ctx context.Context, run *Run) error {
	if run.RunID == "" {
		return ErrInvalidRunID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.runs[run.RunID]; exists {
		return ErrRunExists
	}
	m.runs[run.RunID] = copyRun(run)
	return nil
}

// GetRun retrieves a run by ID, returning a copy.
func (m *MemoryStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	if runID == "" {
		return nil, ErrInvalidRunID
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	run, exists := m.runs[runID]
	if !exists {
		return nil, ErrRunNotFound
	}
	return copyRun(run), nil
}

// ListRuns lists runs newest first with optional filtering.
func (m *MemoryStore) ListRuns(ctx context.Context, filter *ListFilter) ([]*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var runs []*Run
	for _, run := range m.runs {
		if matchesFilter(run, filter) {
			runs = append(runs, copyRun(run))
		}
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Created.After(runs[j].Created)
	})

	if filter != nil {
		if filter.Offset > 0 {
			if filter.Offset >= len(runs) {
				return []*Run{}, nil
			}
			runs = runs[filter.Offset:]
		}
		if filter.Limit > 0 && filter.Limit < len(runs) {
			runs = runs[:filter.Limit]
		}
	}
	return runs, nil
}

// SetProgress replaces the live progress snapshot of a run.
func (m *MemoryStore) SetProgress(ctx context.Context, runID string, p schemas.ProductionProgress) error {
	return m.update(runID, func(run *Run) {
		snap := p.Clone()
		run.Progress = &snap
		run.State = schemas.RunStateProcessing
	})
}

// SetBatchProgress replaces the live batch progress snapshot.
func (m *MemoryStore) SetBatchProgress(ctx context.Context, runID string, p schemas.BatchProductionProgress) error {
	return m.update(runID, func(run *Run) {
		snap := p.Clone()
		run.BatchProgress = &snap
		run.State = schemas.RunStateProcessing
	})
}

// CompleteRun records the final result and terminal state.
func (m *MemoryStore) CompleteRun(ctx context.Context, runID string, result *schemas.ProductionResult) error {
	return m.update(runID, func(run *Run) {
		run.Result = result
		run.State = schemas.RunStateCompleted
		if !result.Success {
			run.State = schemas.RunStateFailed
		}
	})
}

// CompleteBatchRun records the final batch result and terminal state.
func (m *MemoryStore) CompleteBatchRun(ctx context.Context, runID string, result *schemas.BatchProductionResult) error {
	return m.update(runID, func(run *Run) {
		run.BatchResult = result
		run.State = schemas.RunStateCompleted
		if !result.Success {
			run.State = schemas.RunStateFailed
		}
	})
}

// Close is a no-op for the memory store.
func (m *MemoryStore) Close() error {
	return nil
}

func (m *MemoryStore) update(runID string, fn func(*Run)) error {
	if runID == "" {
		return ErrInvalidRunID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	run, exists := m.runs[runID]
	if !exists {
		return ErrRunNotFound
	}
	fn(run)
	run.Updated = time.Now()
	return nil
}

// copyRun returns a copy deep enough that callers cannot mutate stored
// state: progress snapshots are cloned, inputs and results are treated
// as immutable after hand-off.
func copyRun(run *Run) *Run {
	out := *run
	if run.Progress != nil {
		snap := run.Progress.Clone()
		out.Progress = &snap
	}
	if run.BatchProgress != nil {
		snap := run.BatchProgress.Clone()
		out.BatchProgress = &snap
	}
	return &out
}

func matchesFilter(run *Run, filter *ListFilter) bool {
	if filter == nil {
		return true
	}
	if filter.Kind != "" && run.Kind != filter.Kind {
		return false
	}
	if filter.Owner != "" && run.Owner != filter.Owner {
		return false
	}
	if len(filter.States) > 0 {
		found := false
		for _, s := range filter.States {
			if run.State == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
