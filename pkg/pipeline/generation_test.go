package pipeline

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehudso7/halcyon-cinema-sub003/pkg/estimator"
	"github.com/ehudso7/halcyon-cinema-sub003/pkg/planner"
	"github.com/ehudso7/halcyon-cinema-sub003/pkg/schemas"
)

func boolPtr(b bool) *bool { return &b }

func planRequest(req *schemas.ProductionRequest) []schemas.GeneratedShot {
	return planner.New().PlanScenes(req.Scenes)
}

func TestGeneration_AllShotsSucceed(t *testing.T) {
	video := &fakeVideo{}
	music := &fakeMusic{}
	voice := &fakeVoiceover{}
	g := NewGenerationCoordinator(video, music, voice, zerolog.Nop())

	req := &schemas.ProductionRequest{
		ProjectID: "p1",
		Scenes: []schemas.SceneInput{
			{ID: "s1", Description: "forest", DurationSec: 10, Dialogue: []string{"hello"}},
		},
	}

	out, err := g.Run(context.Background(), req, planRequest(req), NewReporter(nil))
	require.NoError(t, err)
	assert.Len(t, out.Assets.Clips, 2)
	assert.NotNil(t, out.Assets.Music)
	assert.NotNil(t, out.Assets.Voiceover)
	assert.Equal(t, "hello", voice.lastText)

	expected := 2*estimator.CreditsPerShot + estimator.MusicFlatCredits + estimator.VoiceoverCredits(len("hello"))
	assert.Equal(t, expected, out.CreditsUsed)
}

func TestGeneration_ShotFailureIsAdditive(t *testing.T) {
	video := &fakeVideo{failIndex: map[int]bool{1: true}}
	g := NewGenerationCoordinator(video, &fakeMusic{}, &fakeVoiceover{}, zerolog.Nop())

	req := &schemas.ProductionRequest{
		ProjectID: "p1",
		Scenes:    []schemas.SceneInput{{ID: "s1", Description: "a", DurationSec: 15}},
		Settings: &schemas.Settings{
			IncludeMusicTrack: boolPtr(false),
			IncludeVoiceover:  boolPtr(false),
		},
	}
	rep := NewReporter(nil)

	out, err := g.Run(context.Background(), req, planRequest(req), rep)
	require.NoError(t, err)

	assert.Len(t, out.Assets.Clips, 2, "remaining shots keep generating after a failure")
	assert.Equal(t, 3, video.calls)
	assert.Equal(t, 2*estimator.CreditsPerShot, out.CreditsUsed, "failed units are not charged")

	errs := rep.Errors()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "shot 2 of 3 failed")
}

func TestGeneration_MusicFailureDoesNotAbort(t *testing.T) {
	g := NewGenerationCoordinator(&fakeVideo{}, &fakeMusic{fail: true}, &fakeVoiceover{}, zerolog.Nop())

	req := &schemas.ProductionRequest{
		ProjectID: "p1",
		Scenes:    []schemas.SceneInput{{ID: "s1", Description: "a", DurationSec: 5}},
	}
	rep := NewReporter(nil)

	out, err := g.Run(context.Background(), req, planRequest(req), rep)
	require.NoError(t, err)
	assert.Len(t, out.Assets.Clips, 1)
	assert.Nil(t, out.Assets.Music)
	assert.Contains(t, rep.Errors()[0], "music generation failed")
}

func TestGeneration_MusicCappedAtThirtySeconds(t *testing.T) {
	music := &fakeMusic{}
	g := NewGenerationCoordinator(&fakeVideo{}, music, &fakeVoiceover{}, zerolog.Nop())

	req := &schemas.ProductionRequest{
		ProjectID: "p1",
		Scenes:    []schemas.SceneInput{{ID: "s1", Description: "a", DurationSec: 120}},
	}

	_, err := g.Run(context.Background(), req, planRequest(req), NewReporter(nil))
	require.NoError(t, err)
	assert.Equal(t, 30.0, music.lastRequest.MaxSeconds)
}

func TestGeneration_VoiceoverSkippedWithoutDialogue(t *testing.T) {
	voice := &fakeVoiceover{}
	g := NewGenerationCoordinator(&fakeVideo{}, &fakeMusic{}, voice, zerolog.Nop())

	req := &schemas.ProductionRequest{
		ProjectID: "p1",
		Scenes:    []schemas.SceneInput{{ID: "s1", Description: "a", DurationSec: 5}},
	}

	out, err := g.Run(context.Background(), req, planRequest(req), NewReporter(nil))
	require.NoError(t, err)
	assert.Equal(t, 0, voice.calls)
	assert.Nil(t, out.Assets.Voiceover)
}

func TestGeneration_ContextCancellationStopsRun(t *testing.T) {
	video := &fakeVideo{}
	g := NewGenerationCoordinator(video, &fakeMusic{}, &fakeVoiceover{}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := &schemas.ProductionRequest{
		ProjectID: "p1",
		Scenes:    []schemas.SceneInput{{ID: "s1", Description: "a", DurationSec: 20}},
	}

	_, err := g.Run(ctx, req, planRequest(req), NewReporter(nil))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, video.calls)
}
