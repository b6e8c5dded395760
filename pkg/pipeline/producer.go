package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ehudso7/halcyon-cinema-sub003/pkg/estimator"
	"github.com/ehudso7/halcyon-cinema-sub003/pkg/planner"
	"github.com/ehudso7/halcyon-cinema-sub003/pkg/providers"
	"github.com/ehudso7/halcyon-cinema-sub003/pkg/schemas"
)

// Capabilities are the injected provider implementations one Producer
// drives. Tests substitute deterministic fakes here.
type Capabilities struct {
	Video     providers.VideoGenerator
	Music     providers.MusicGenerator
	Voiceover providers.VoiceoverGenerator
	Assembler providers.Assembler
	Assets    Persister
}

// Options tunes a Producer.
type Options struct {
	PollInterval time.Duration
	PollBudget   time.Duration
	Logger       zerolog.Logger
}

// Producer runs the single-run production pipeline: validate, plan,
// generate, assemble. One run is driven by one goroutine; no state is
// shared across concurrent runs.
type Producer struct {
	caps       Capabilities
	planner    *planner.Planner
	estimator  *estimator.Estimator
	generation *GenerationCoordinator
	assembly   *AssemblyCoordinator
	log        zerolog.Logger
}

// NewProducer creates a Producer over the given capabilities.
func NewProducer(caps Capabilities, opts Options) *Producer {
	log := opts.Logger.With().Str("component", "producer").Logger()
	return &Producer{
		caps:       caps,
		planner:    planner.New(),
		estimator:  estimator.New(),
		generation: NewGenerationCoordinator(caps.Video, caps.Music, caps.Voiceover, opts.Logger),
		assembly:   NewAssemblyCoordinator(caps.Assembler, caps.Assets, opts.PollInterval, opts.PollBudget, opts.Logger),
		log:        log,
	}
}

// Estimate returns the pre-run credit estimate without touching any
// provider.
func (p *Producer) Estimate(req *schemas.ProductionRequest) estimator.CostBreakdown {
	return p.estimator.Estimate(req)
}

// Produce runs the full pipeline for one request. It never panics and
// never returns a Go error: the result carries success, the accumulated
// credit total for successful units, and every recorded unit error.
func (p *Producer) Produce(ctx context.Context, req *schemas.ProductionRequest, observer Observer) *schemas.ProductionResult {
	rep := NewReporter(observer)
	rep.Transition(schemas.StageValidating, 0, "Validating request")

	if err := p.validate(req); err != nil {
		return p.fail(rep, 0, err)
	}
	if err := p.checkConfigured(req); err != nil {
		return p.fail(rep, 0, err)
	}

	// Resolve scenes before planning: explicit list or prompt-derived
	// synthesis.
	scenes := req.Scenes
	if len(scenes) == 0 {
		scenes = p.planner.ScenesFromPrompt(req.Prompt, req.TargetSeconds(), req.Genre)
	}

	rep.Transition(schemas.StagePlanning, 5, "Planning shots")
	shots := p.planner.PlanScenes(scenes)
	p.log.Info().Str("project_id", req.ProjectID).Int("scenes", len(scenes)).Int("shots", len(shots)).Msg("run planned")

	planned := *req
	planned.Scenes = scenes

	gen, err := p.generation.Run(ctx, &planned, shots, rep)
	if err != nil {
		return p.fail(rep, gen.CreditsUsed, err)
	}
	if len(gen.Assets.Clips) == 0 {
		return p.fail(rep, gen.CreditsUsed, ErrNoShotsGenerated)
	}

	opts := BuildTimeline(&gen.Assets, planned.Settings)
	asm, err := p.assembly.Assemble(ctx, req.ProjectID, opts, rep)
	if err != nil {
		return p.fail(rep, gen.CreditsUsed, err)
	}

	credits := gen.CreditsUsed + p.estimator.EstimateAssembly(opts)
	rep.Transition(schemas.StageCompleted, 100, "Completed")

	return &schemas.ProductionResult{
		Success:     true,
		VideoURL:    asm.VideoURL,
		DurationSec: asm.DurationSec,
		CreditsUsed: credits,
		Progress:    rep.Snapshot(),
		Assets:      &gen.Assets,
	}
}

// validate rejects requests that cannot resolve to at least one scene.
func (p *Producer) validate(req *schemas.ProductionRequest) error {
	if req == nil || (len(req.Scenes) == 0 && req.Prompt == "") {
		return fmt.Errorf("%w: need at least one scene or a prompt", ErrInvalidRequest)
	}
	return nil
}

// checkConfigured refuses the run before any cost is incurred when a
// required capability is unconfigured. Video and assembly are always
// required; music and voiceover only when requested.
func (p *Producer) checkConfigured(req *schemas.ProductionRequest) error {
	if p.caps.Video == nil || !p.caps.Video.Configured() {
		return fmt.Errorf("%w: video generation", ErrNotConfigured)
	}
	if p.caps.Assembler == nil || !p.caps.Assembler.Configured() {
		return fmt.Errorf("%w: assembly", ErrNotConfigured)
	}
	if req.MusicEnabled() && (p.caps.Music == nil || !p.caps.Music.Configured()) {
		return fmt.Errorf("%w: music generation", ErrNotConfigured)
	}
	if req.VoiceoverEnabled() && req.DialogueText() != "" && (p.caps.Voiceover == nil || !p.caps.Voiceover.Configured()) {
		return fmt.Errorf("%w: voiceover generation", ErrNotConfigured)
	}
	return nil
}

func (p *Producer) fail(rep *Reporter, credits int, err error) *schemas.ProductionResult {
	rep.Transition(schemas.StageFailed, rep.Snapshot().Percent, err.Error())
	return &schemas.ProductionResult{
		Success:     false,
		CreditsUsed: credits,
		Progress:    rep.Snapshot(),
		Error:       err.Error(),
	}
}

// BuildTimeline lowers the generated assets into the declarative
// assembly timeline: clips back-to-back in shot order, one optional
// music track ducked under the mix, one optional voiceover track.
func BuildTimeline(assets *schemas.AssetBundle, settings *schemas.Settings) *schemas.AssemblyOptions {
	opts := &schemas.AssemblyOptions{
		TransitionType: "fade",
		OutputFormat:   "mp4",
	}
	if settings != nil {
		if settings.TransitionType != "" {
			opts.TransitionType = settings.TransitionType
		}
		opts.Resolution = settings.Resolution
	}

	for _, clip := range assets.Clips {
		opts.Clips = append(opts.Clips, schemas.VideoClip{
			URL:         clip.URL,
			DurationSec: clip.DurationSec,
		})
	}
	if assets.Music != nil {
		opts.AudioTracks = append(opts.AudioTracks, schemas.AudioTrack{
			Kind:       "music",
			URL:        assets.Music.URL,
			Volume:     0.3,
			FadeInSec:  1,
			FadeOutSec: 2,
			Loop:       true,
		})
	}
	if assets.Voiceover != nil {
		opts.AudioTracks = append(opts.AudioTracks, schemas.AudioTrack{
			Kind:   "voiceover",
			URL:    assets.Voiceover.URL,
			Volume: 1,
		})
	}
	return opts
}
