package pipeline

import "github.com/ehudso7/halcyon-cinema-sub003/pkg/schemas"

// Observer receives a progress snapshot on every stage transition. The
// snapshot is a value copy; observers may retain it freely.
type Observer func(schemas.ProductionProgress)

// Reporter owns the progress state of one run. It is only ever mutated
// by the single goroutine driving that run; percent never decreases.
type Reporter struct {
	progress schemas.ProductionProgress
	observer Observer
}

// NewReporter creates a Reporter. A nil observer is allowed.
func NewReporter(observer Observer) *Reporter {
	return &Reporter{
		progress: schemas.ProductionProgress{Stage: schemas.StageValidating},
		observer: observer,
	}
}

// Transition moves the run to a stage with the given percent and step
// text, then notifies the observer. Percent is clamped so it never goes
// backwards.
func (r *Reporter) Transition(stage schemas.Stage, percent float64, step string) {
	if percent < r.progress.Percent {
		percent = r.progress.Percent
	}
	if percent > 100 {
		percent = 100
	}
	r.progress.Stage = stage
	r.progress.Percent = percent
	r.progress.CurrentStep = step
	r.notify()
}

// CompleteStep appends a finished step label.
func (r *Reporter) CompleteStep(label string) {
	r.progress.CompletedSteps = append(r.progress.CompletedSteps, label)
	r.notify()
}

// RecordError appends a non-fatal error message to the run's error
// list. Recording an error never changes the stage.
func (r *Reporter) RecordError(msg string) {
	r.progress.Errors = append(r.progress.Errors, msg)
	r.notify()
}

// Errors returns the accumulated error messages.
func (r *Reporter) Errors() []string {
	return append([]string(nil), r.progress.Errors...)
}

// Snapshot returns a copy of the current progress.
func (r *Reporter) Snapshot() schemas.ProductionProgress {
	return r.progress.Clone()
}

func (r *Reporter) notify() {
	if r.observer != nil {
		r.observer(r.progress.Clone())
	}
}
