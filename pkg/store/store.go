// Package store provides run state persistence for the API layer.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ehudso7/halcyon-cinema-sub003/pkg/schemas"
)

var (
	// ErrRunNotFound is returned when a run does not exist.
	ErrRunNotFound = errors.New("run not found")

	// ErrRunExists is returned when creating a run that already exists.
	ErrRunExists = errors.New("run already exists")

	// ErrInvalidRunID is returned for empty run IDs.
	ErrInvalidRunID = errors.New("invalid run ID")
)

// RunKind distinguishes single productions from batches.
type RunKind string

const (
	RunKindProduction RunKind = "production"
	RunKindBatch      RunKind = "batch"
)

// Run is one production or batch run record.
type Run struct {
	RunID   string    `json:"run_id"`
	Kind    RunKind   `json:"kind"`
	Created time.Time `json:"created_at"`
	Updated time.Time `json:"updated_at"`

	// Owner is the authenticated user who created the run, empty when
	// the server runs without auth.
	Owner string `json:"owner,omitempty"`

	State schemas.RunState `json:"state"`

	// Inputs; exactly one of these is set, matching Kind.
	Request *schemas.ProductionRequest `json:"request,omitempty"`
	Series  *schemas.SeriesConfig      `json:"series,omitempty"`
	Movie   *schemas.MovieConfig       `json:"movie,omitempty"`

	// Live progress, replaced snapshot-by-snapshot while processing.
	Progress      *schemas.ProductionProgress      `json:"progress,omitempty"`
	BatchProgress *schemas.BatchProductionProgress `json:"batch_progress,omitempty"`

	// Final outcome.
	Result      *schemas.ProductionResult      `json:"result,omitempty"`
	BatchResult *schemas.BatchProductionResult `json:"batch_result,omitempty"`
}

// Terminal reports whether the run has finished.
func (r *Run) Terminal() bool {
	return r.State == schemas.RunStateCompleted || r.State == schemas.RunStateFailed
}

// ListFilter narrows and pages ListRuns results.
type ListFilter struct {
	Kind   RunKind            `json:"kind,omitempty"`
	Owner  string             `json:"owner,omitempty"`
	States []schemas.RunState `json:"states,omitempty"`
	Limit  int                `json:"limit,omitempty"`
	Offset int                `json:"offset,omitempty"`
}

// Store is the interface for run state persistence.
type Store interface {
	// CreateRun creates a new run record.
	CreateRun(ctx context.Context, run *Run) error

	// GetRun retrieves a run by ID.
	GetRun(ctx context.Context, runID string) (*Run, error)

	// ListRuns lists runs, newest first.
	ListRuns(ctx context.Context, filter *ListFilter) ([]*Run, error)

	// SetProgress replaces the live progress snapshot of a run.
	SetProgress(ctx context.Context, runID string, p schemas.ProductionProgress) error

	// SetBatchProgress replaces the live batch progress snapshot.
	SetBatchProgress(ctx context.Context, runID string, p schemas.BatchProductionProgress) error

	// CompleteRun records the final result and terminal state.
	CompleteRun(ctx context.Context, runID string, result *schemas.ProductionResult) error

	// CompleteBatchRun records the final batch result and terminal state.
	CompleteBatchRun(ctx context.Context, runID string, result *schemas.BatchProductionResult) error

	// Close releases resources.
	Close() error
}
