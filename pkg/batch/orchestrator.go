// Package batch composes the single-run pipeline across the segments
// of a series or movie, threading continuity context between segments
// and aggregating partial success.
package batch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ehudso7/halcyon-cinema-sub003/pkg/pipeline"
	"github.com/ehudso7/halcyon-cinema-sub003/pkg/schemas"
)

// Observer receives a batch progress snapshot on every transition.
type Observer func(schemas.BatchProductionProgress)

// segment is the orchestrator's internal view of one episode or act.
type segment struct {
	number  int
	title   string
	request schemas.ProductionRequest
}

// Orchestrator produces one video per segment by repeatedly invoking
// the single-run pipeline, strictly in declared order. A segment's
// failure never stops subsequent segments.
type Orchestrator struct {
	producer *pipeline.Producer
	log      zerolog.Logger
}

// New creates an Orchestrator over a single-run producer.
func New(producer *pipeline.Producer, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		producer: producer,
		log:      log.With().Str("component", "batch").Logger(),
	}
}

// ProduceSeries produces every episode of a series.
func (o *Orchestrator) ProduceSeries(ctx context.Context, cfg *schemas.SeriesConfig, observer Observer) *schemas.BatchProductionResult {
	if len(cfg.Episodes) == 0 {
		return invalidBatch(schemas.BatchKindSeries, cfg.Title, "series has no episodes")
	}

	continuity := BuildContinuityContext(cfg.Characters)
	segments := make([]segment, 0, len(cfg.Episodes))
	for i, ep := range cfg.Episodes {
		segments = append(segments, segment{
			number: ep.Number,
			title:  ep.Title,
			request: schemas.ProductionRequest{
				ProjectID:      cfg.ProjectID,
				Prompt:         episodePrompt(cfg, ep, i, len(cfg.Episodes), continuity),
				Scenes:         ep.Scenes,
				Settings:       cfg.Settings,
				TargetDuration: ep.TargetDuration,
				Genre:          cfg.Genre,
			},
		})
	}

	return o.run(ctx, schemas.BatchKindSeries, cfg.Title, segments, observer)
}

// ProduceMovie produces every act of a movie, synthesizing the
// canonical three-act structure when no acts are declared.
func (o *Orchestrator) ProduceMovie(ctx context.Context, cfg *schemas.MovieConfig, observer Observer) *schemas.BatchProductionResult {
	acts := cfg.EffectiveActs()
	if len(acts) == 0 {
		return invalidBatch(schemas.BatchKindMovie, cfg.Title, "movie has no acts and no target duration to split")
	}

	continuity := BuildContinuityContext(cfg.Characters)
	segments := make([]segment, 0, len(acts))
	for i, act := range acts {
		segments = append(segments, segment{
			number: act.Number,
			title:  act.Title,
			request: schemas.ProductionRequest{
				ProjectID:      cfg.ProjectID,
				Prompt:         actPrompt(cfg, act, i, len(acts), continuity),
				Scenes:         act.Scenes,
				Settings:       cfg.Settings,
				TargetDuration: act.TargetDuration,
				Genre:          cfg.Genre,
			},
		})
	}

	return o.run(ctx, schemas.BatchKindMovie, cfg.Title, segments, observer)
}

// run processes segments strictly in declared order, one at a time.
func (o *Orchestrator) run(ctx context.Context, kind schemas.BatchKind, title string, segments []segment, observer Observer) *schemas.BatchProductionResult {
	progress := schemas.BatchProductionProgress{
		Kind:          kind,
		Title:         title,
		TotalSegments: len(segments),
		Segments:      make([]schemas.SegmentStatus, len(segments)),
	}
	for i, seg := range segments {
		progress.Segments[i] = schemas.SegmentStatus{
			Number: seg.number,
			Title:  seg.title,
			State:  schemas.SegmentPending,
		}
	}
	notify := func() {
		if observer != nil {
			observer(progress.Clone())
		}
	}
	notify()

	result := &schemas.BatchProductionResult{}

	for i, seg := range segments {
		if err := ctx.Err(); err != nil {
			progress.Segments[i].State = schemas.SegmentFailed
			progress.Segments[i].Error = err.Error()
			progress.Errors = append(progress.Errors, fmt.Sprintf("segment %d: %v", seg.number, err))
			notify()
			continue
		}

		progress.CurrentSegment = seg.title
		progress.Segments[i].State = schemas.SegmentProcessing
		notify()

		o.log.Info().Str("batch", title).Int("segment", seg.number).Msg("producing segment")
		segResult := o.producer.Produce(ctx, &seg.request, nil)

		if segResult.Success {
			progress.Segments[i].State = schemas.SegmentCompleted
			progress.Segments[i].VideoURL = segResult.VideoURL
			result.Videos = append(result.Videos, schemas.SegmentVideo{
				Number:      seg.number,
				Title:       seg.title,
				VideoURL:    segResult.VideoURL,
				DurationSec: segResult.DurationSec,
			})
			result.TotalDurationSec += segResult.DurationSec
			result.CreditsUsed += segResult.CreditsUsed
		} else {
			progress.Segments[i].State = schemas.SegmentFailed
			progress.Segments[i].Error = segResult.Error
			progress.Errors = append(progress.Errors, fmt.Sprintf("segment %d (%s): %s", seg.number, seg.title, segResult.Error))
			o.log.Warn().Str("batch", title).Int("segment", seg.number).Str("error", segResult.Error).Msg("segment failed")
		}

		progress.CompletedSegments = i + 1
		progress.Percent = 100 * float64(i+1) / float64(len(segments))
		notify()
	}

	progress.CurrentSegment = ""
	result.Success = len(result.Videos) > 0
	if !result.Success {
		result.Error = "no segment produced a playable video"
	}
	result.Progress = progress.Clone()
	notify()
	return result
}

func invalidBatch(kind schemas.BatchKind, title, msg string) *schemas.BatchProductionResult {
	return &schemas.BatchProductionResult{
		Success: false,
		Error:   msg,
		Progress: schemas.BatchProductionProgress{
			Kind:   kind,
			Title:  title,
			Errors: []string{msg},
		},
	}
}
