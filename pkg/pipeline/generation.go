package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ehudso7/halcyon-cinema-sub003/pkg/estimator"
	"github.com/ehudso7/halcyon-cinema-sub003/pkg/providers"
	"github.com/ehudso7/halcyon-cinema-sub003/pkg/schemas"
)

// musicCapSeconds caps generated music length regardless of the
// requested total duration.
const musicCapSeconds = 30.0

// defaultAspectRatio is used when the request does not specify one.
const defaultAspectRatio = "16:9"

// Progress percent bands owned by the generation stage.
const (
	generationStartPercent = 10.0
	generationEndPercent   = 55.0
	audioEndPercent        = 60.0
)

// GenerationOutput is what the generation stage produced, including
// partial results when some units failed.
type GenerationOutput struct {
	Assets      schemas.AssetBundle
	CreditsUsed int
}

// GenerationCoordinator walks the shot list and invokes the video,
// music, and voiceover capabilities. Unit failures are additive: they
// are recorded on the reporter and never abort the run.
type GenerationCoordinator struct {
	video     providers.VideoGenerator
	music     providers.MusicGenerator
	voiceover providers.VoiceoverGenerator
	log       zerolog.Logger
}

// NewGenerationCoordinator creates a GenerationCoordinator.
func NewGenerationCoordinator(video providers.VideoGenerator, music providers.MusicGenerator, voiceover providers.VoiceoverGenerator, log zerolog.Logger) *GenerationCoordinator {
	return &GenerationCoordinator{
		video:     video,
		music:     music,
		voiceover: voiceover,
		log:       log.With().Str("component", "generation").Logger(),
	}
}

// Run generates video for every shot sequentially, then music and
// voiceover at most once each. Returns an error only when the context
// is cancelled.
func (g *GenerationCoordinator) Run(ctx context.Context, req *schemas.ProductionRequest, shots []schemas.GeneratedShot, rep *Reporter) (*GenerationOutput, error) {
	out := &GenerationOutput{}

	for i := range shots {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		percent := generationStartPercent
		if len(shots) > 0 {
			percent += (generationEndPercent - generationStartPercent) * float64(i) / float64(len(shots))
		}
		rep.Transition(schemas.StageGeneratingVideo, percent,
			fmt.Sprintf("Generating shot %d of %d", i+1, len(shots)))

		res, err := g.video.Generate(ctx, providers.VideoRequest{
			Prompt:      shots[i].Description,
			DurationSec: shots[i].DurationSec,
			AspectRatio: g.aspectRatio(req),
			ProjectID:   req.ProjectID,
			SceneID:     shots[i].SceneID,
		})
		if err != nil {
			// A single shot failure must never abort the run.
			g.log.Warn().Err(err).Str("shot_id", shots[i].ID).Msg("shot generation failed")
			rep.RecordError(fmt.Sprintf("shot %d of %d failed: %v", i+1, len(shots), err))
			continue
		}

		shots[i].VideoURL = res.URL
		out.Assets.Clips = append(out.Assets.Clips, schemas.ClipRecord{
			ShotID:      shots[i].ID,
			SceneID:     shots[i].SceneID,
			URL:         res.URL,
			DurationSec: shots[i].DurationSec,
			Index:       shots[i].Index,
		})
		out.CreditsUsed += estimator.CreditsPerShot
		rep.CompleteStep(fmt.Sprintf("Shot %d of %d", i+1, len(shots)))
	}

	g.generateMusic(ctx, req, out, rep)
	g.generateVoiceover(ctx, req, out, rep)

	return out, ctx.Err()
}

func (g *GenerationCoordinator) generateMusic(ctx context.Context, req *schemas.ProductionRequest, out *GenerationOutput, rep *Reporter) {
	if !req.MusicEnabled() || ctx.Err() != nil {
		return
	}
	rep.Transition(schemas.StageGeneratingAudio, generationEndPercent, "Generating music track")

	mood, genre := "cinematic", req.Genre
	if req.Settings != nil {
		if req.Settings.MusicMood != "" {
			mood = req.Settings.MusicMood
		}
		if req.Settings.MusicGenre != "" {
			genre = req.Settings.MusicGenre
		}
	}

	maxSec := req.TotalSeconds()
	if maxSec <= 0 || maxSec > musicCapSeconds {
		maxSec = musicCapSeconds
	}

	res, err := g.music.Generate(ctx, providers.MusicRequest{
		Prompt:     fmt.Sprintf("%s background score", mood),
		MaxSeconds: maxSec,
		Mood:       mood,
		Genre:      genre,
		ProjectID:  req.ProjectID,
	})
	if err != nil {
		g.log.Warn().Err(err).Msg("music generation failed")
		rep.RecordError(fmt.Sprintf("music generation failed: %v", err))
		return
	}

	out.Assets.Music = &schemas.AudioTrackRef{Kind: "music", URL: res.URL, DurationSec: res.DurationSec}
	out.CreditsUsed += estimator.MusicFlatCredits
	rep.CompleteStep("Music track")
}

func (g *GenerationCoordinator) generateVoiceover(ctx context.Context, req *schemas.ProductionRequest, out *GenerationOutput, rep *Reporter) {
	if !req.VoiceoverEnabled() || ctx.Err() != nil {
		return
	}
	text := req.DialogueText()
	if text == "" {
		return
	}
	rep.Transition(schemas.StageGeneratingAudio, audioEndPercent, "Generating voiceover")

	var voice string
	var speed float64
	if req.Settings != nil {
		voice = req.Settings.Voice
		speed = req.Settings.VoiceSpeed
	}

	res, err := g.voiceover.Generate(ctx, providers.VoiceoverRequest{
		Text:      text,
		Voice:     voice,
		Speed:     speed,
		ProjectID: req.ProjectID,
	})
	if err != nil {
		g.log.Warn().Err(err).Msg("voiceover generation failed")
		rep.RecordError(fmt.Sprintf("voiceover generation failed: %v", err))
		return
	}

	out.Assets.Voiceover = &schemas.AudioTrackRef{Kind: "voiceover", URL: res.URL, DurationSec: res.DurationSec}
	out.CreditsUsed += estimator.VoiceoverCredits(len(text))
	rep.CompleteStep("Voiceover")
}

func (g *GenerationCoordinator) aspectRatio(req *schemas.ProductionRequest) string {
	if req.Settings != nil && req.Settings.AspectRatio != "" {
		return req.Settings.AspectRatio
	}
	return defaultAspectRatio
}
