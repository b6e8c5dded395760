package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ehudso7/halcyon-cinema-sub003/pkg/providers"
	"github.com/ehudso7/halcyon-cinema-sub003/pkg/schemas"
)

// Default poll cadence and wall-clock budget for render jobs.
const (
	DefaultPollInterval = 5 * time.Second
	DefaultPollBudget   = 10 * time.Minute
)

// Progress percent band owned by the assembly stage.
const (
	assemblyStartPercent = 65.0
	assemblyEndPercent   = 95.0
)

// Persister stores a transient provider asset durably and returns the
// durable url. Best-effort: callers must tolerate failure.
type Persister interface {
	Persist(ctx context.Context, transientURL, projectID, sceneID string) (string, error)
}

// AssemblyCoordinator submits the accumulated assets as a declarative
// timeline and polls the render job to completion.
type AssemblyCoordinator struct {
	assembler    providers.Assembler
	persister    Persister
	pollInterval time.Duration
	pollBudget   time.Duration
	log          zerolog.Logger
}

// NewAssemblyCoordinator creates an AssemblyCoordinator. A nil persister
// disables durable persistence; interval/budget of zero take defaults.
func NewAssemblyCoordinator(assembler providers.Assembler, persister Persister, pollInterval, pollBudget time.Duration, log zerolog.Logger) *AssemblyCoordinator {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if pollBudget <= 0 {
		pollBudget = DefaultPollBudget
	}
	return &AssemblyCoordinator{
		assembler:    assembler,
		persister:    persister,
		pollInterval: pollInterval,
		pollBudget:   pollBudget,
		log:          log.With().Str("component", "assembly").Logger(),
	}
}

// Assemble submits the timeline once, then polls on a fixed interval
// until the job reaches a terminal state or the wall-clock budget
// elapses. On success the transient output url is persisted
// best-effort; persistence failure keeps the transient url.
func (a *AssemblyCoordinator) Assemble(ctx context.Context, projectID string, opts *schemas.AssemblyOptions, rep *Reporter) (*schemas.AssemblyResult, error) {
	rep.Transition(schemas.StageAssembling, assemblyStartPercent, "Submitting render job")

	renderID, err := a.assembler.Submit(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssemblyFailed, err)
	}

	status, err := a.waitForRender(ctx, renderID, rep)
	if err != nil {
		return nil, err
	}

	url := status.VideoURL
	if a.persister != nil && url != "" {
		durable, perr := a.persister.Persist(ctx, url, projectID, "")
		if perr != nil {
			a.log.Warn().Err(perr).Str("render_id", renderID).Msg("asset persistence failed, keeping transient url")
		} else {
			url = durable
		}
	}

	return &schemas.AssemblyResult{
		Success:     true,
		VideoURL:    url,
		RenderID:    renderID,
		DurationSec: opts.TotalClipSeconds(),
	}, nil
}

// waitForRender polls until completed, failed, budget exhaustion, or
// context cancellation.
func (a *AssemblyCoordinator) waitForRender(ctx context.Context, renderID string, rep *Reporter) (*schemas.AssemblyStatus, error) {
	deadline := time.NewTimer(a.pollBudget)
	defer deadline.Stop()
	tick := time.NewTicker(a.pollInterval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, fmt.Errorf("%w: render %s did not finish within %s", ErrAssemblyTimeout, renderID, a.pollBudget)
		case <-tick.C:
		}

		status, err := a.assembler.Poll(ctx, renderID)
		if err != nil {
			// A transient poll failure is not terminal; the budget
			// bounds how long we keep retrying.
			a.log.Warn().Err(err).Str("render_id", renderID).Msg("render poll failed")
			continue
		}

		switch status.State {
		case schemas.RenderCompleted:
			rep.Transition(schemas.StageAssembling, assemblyEndPercent, "Render completed")
			return status, nil
		case schemas.RenderFailed:
			msg := status.Error
			if msg == "" {
				msg = "provider reported failure"
			}
			return nil, fmt.Errorf("%w: %s", ErrAssemblyFailed, msg)
		default:
			percent := assemblyStartPercent
			if status.Percent != nil {
				percent += (assemblyEndPercent - assemblyStartPercent) * (*status.Percent / 100)
			}
			rep.Transition(schemas.StageAssembling, percent, "Rendering")
		}
	}
}
