package pipeline

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehudso7/halcyon-cinema-sub003/pkg/schemas"
)

func newTestProducer(caps Capabilities) *Producer {
	return NewProducer(caps, Options{
		PollInterval: testPollInterval,
		PollBudget:   testPollBudget,
		Logger:       zerolog.Nop(),
	})
}

func fullCaps() Capabilities {
	return Capabilities{
		Video:     &fakeVideo{},
		Music:     &fakeMusic{},
		Voiceover: &fakeVoiceover{},
		Assembler: completedAssembler("https://transient.example/final.mp4"),
	}
}

func TestProduce_FullRun(t *testing.T) {
	caps := fullCaps()
	p := newTestProducer(caps)

	req := &schemas.ProductionRequest{
		ProjectID: "p1",
		Scenes: []schemas.SceneInput{
			{ID: "s1", Description: "forest", DurationSec: 10, Dialogue: []string{"hello there"}},
		},
	}

	var snapshots []schemas.ProductionProgress
	result := p.Produce(context.Background(), req, func(pr schemas.ProductionProgress) {
		snapshots = append(snapshots, pr)
	})

	require.True(t, result.Success, "error: %s", result.Error)
	assert.Equal(t, "https://transient.example/final.mp4", result.VideoURL)
	assert.Equal(t, 10.0, result.DurationSec)
	require.NotNil(t, result.Assets)
	assert.Len(t, result.Assets.Clips, 2)

	require.NotEmpty(t, snapshots)
	assert.Equal(t, schemas.StageValidating, snapshots[0].Stage)
	final := snapshots[len(snapshots)-1]
	assert.Equal(t, schemas.StageCompleted, final.Stage)
	assert.Equal(t, 100.0, final.Percent)
}

func TestProduce_ConsumedNeverExceedsEstimate(t *testing.T) {
	reqs := []*schemas.ProductionRequest{
		{
			ProjectID: "p1",
			Scenes:    []schemas.SceneInput{{ID: "s1", Description: "forest", DurationSec: 10}},
		},
		{
			ProjectID: "p2",
			Scenes: []schemas.SceneInput{
				{ID: "s1", Description: "a", DurationSec: 12, Dialogue: []string{"one", "two"}},
				{ID: "s2", Description: "b", DurationSec: 3},
			},
		},
		{
			ProjectID:      "p3",
			Prompt:         "a heist gone wrong",
			TargetDuration: schemas.SecondsDuration(25),
			Genre:          "thriller",
		},
		{
			// No target duration: synthesis falls back to one
			// default-length scene.
			ProjectID: "p4",
			Prompt:    "a quiet morning",
		},
	}

	for _, req := range reqs {
		p := newTestProducer(fullCaps())
		estimate := p.Estimate(req)
		result := p.Produce(context.Background(), req, nil)

		require.True(t, result.Success, "project %s: %s", req.ProjectID, result.Error)
		assert.LessOrEqual(t, result.CreditsUsed, estimate.Total, "project %s", req.ProjectID)
	}
}

func TestProduce_UnitFailuresReduceCharge(t *testing.T) {
	caps := fullCaps()
	caps.Video = &fakeVideo{failIndex: map[int]bool{0: true}}
	caps.Music = &fakeMusic{fail: true}
	p := newTestProducer(caps)

	req := &schemas.ProductionRequest{
		ProjectID: "p1",
		Scenes:    []schemas.SceneInput{{ID: "s1", Description: "forest", DurationSec: 10}},
	}

	estimate := p.Estimate(req)
	result := p.Produce(context.Background(), req, nil)

	require.True(t, result.Success)
	assert.Less(t, result.CreditsUsed, estimate.Total)
	assert.Len(t, result.Assets.Clips, 1)
	assert.NotEmpty(t, result.Progress.Errors)
}

func TestProduce_ZeroShotsMeansNoAssembly(t *testing.T) {
	caps := fullCaps()
	caps.Video = &fakeVideo{failIndex: map[int]bool{0: true, 1: true}}
	assembler := caps.Assembler.(*fakeAssembler)
	p := newTestProducer(caps)

	req := &schemas.ProductionRequest{
		ProjectID: "p1",
		Scenes:    []schemas.SceneInput{{ID: "s1", Description: "forest", DurationSec: 10}},
	}

	result := p.Produce(context.Background(), req, nil)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "no video shots")
	assert.Equal(t, 0, assembler.submitCount(), "assembly must never be attempted")
	assert.Equal(t, schemas.StageFailed, result.Progress.Stage)
}

func TestProduce_RejectsEmptyRequest(t *testing.T) {
	p := newTestProducer(fullCaps())

	result := p.Produce(context.Background(), &schemas.ProductionRequest{ProjectID: "p1"}, nil)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "invalid production request")
	assert.Zero(t, result.CreditsUsed)
}

func TestProduce_RefusesUnconfiguredProvider(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Capabilities)
		req  *schemas.ProductionRequest
	}{
		{
			name: "video",
			mod:  func(c *Capabilities) { c.Video = &fakeVideo{unconfigured: true} },
			req: &schemas.ProductionRequest{
				Scenes: []schemas.SceneInput{{ID: "s1", Description: "a"}},
			},
		},
		{
			name: "assembler",
			mod:  func(c *Capabilities) { c.Assembler = &fakeAssembler{unconfigured: true} },
			req: &schemas.ProductionRequest{
				Scenes: []schemas.SceneInput{{ID: "s1", Description: "a"}},
			},
		},
		{
			name: "music when requested",
			mod:  func(c *Capabilities) { c.Music = &fakeMusic{unconfigured: true} },
			req: &schemas.ProductionRequest{
				Scenes: []schemas.SceneInput{{ID: "s1", Description: "a"}},
			},
		},
		{
			name: "voiceover with dialogue",
			mod:  func(c *Capabilities) { c.Voiceover = &fakeVoiceover{unconfigured: true} },
			req: &schemas.ProductionRequest{
				Scenes: []schemas.SceneInput{{ID: "s1", Description: "a", Dialogue: []string{"hi"}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := fullCaps()
			tt.mod(&caps)
			p := newTestProducer(caps)

			result := p.Produce(context.Background(), tt.req, nil)
			assert.False(t, result.Success)
			assert.Contains(t, result.Error, "not configured")
			assert.Zero(t, result.CreditsUsed, "refusal happens before any cost")
		})
	}
}

func TestProduce_UnconfiguredOptionalProvidersAreFine(t *testing.T) {
	off := false
	caps := fullCaps()
	caps.Music = &fakeMusic{unconfigured: true}
	caps.Voiceover = &fakeVoiceover{unconfigured: true}
	p := newTestProducer(caps)

	req := &schemas.ProductionRequest{
		ProjectID: "p1",
		Scenes:    []schemas.SceneInput{{ID: "s1", Description: "a", DurationSec: 5}},
		Settings: &schemas.Settings{
			IncludeMusicTrack: &off,
			IncludeVoiceover:  &off,
		},
	}

	result := p.Produce(context.Background(), req, nil)
	assert.True(t, result.Success, "error: %s", result.Error)
}

func TestProduce_PromptOnlyRequest(t *testing.T) {
	p := newTestProducer(fullCaps())

	req := &schemas.ProductionRequest{
		ProjectID:      "p1",
		Prompt:         "a quiet morning in a lighthouse",
		TargetDuration: schemas.SecondsDuration(15),
	}

	result := p.Produce(context.Background(), req, nil)
	require.True(t, result.Success, "error: %s", result.Error)
	assert.Len(t, result.Assets.Clips, 3)
}

func TestProduce_CancelledContext(t *testing.T) {
	p := newTestProducer(fullCaps())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := &schemas.ProductionRequest{
		ProjectID: "p1",
		Scenes:    []schemas.SceneInput{{ID: "s1", Description: "a", DurationSec: 10}},
	}

	result := p.Produce(ctx, req, nil)
	assert.False(t, result.Success)
}

func TestBuildTimeline(t *testing.T) {
	assets := &schemas.AssetBundle{
		Clips: []schemas.ClipRecord{
			{ShotID: "s1_shot_01", URL: "u1", DurationSec: 5, Index: 0},
			{ShotID: "s1_shot_02", URL: "u2", DurationSec: 5, Index: 1},
		},
		Music:     &schemas.AudioTrackRef{Kind: "music", URL: "m1"},
		Voiceover: &schemas.AudioTrackRef{Kind: "voiceover", URL: "v1"},
	}

	opts := BuildTimeline(assets, &schemas.Settings{TransitionType: "wipe", Resolution: "1080"})
	require.Len(t, opts.Clips, 2)
	assert.Equal(t, "wipe", opts.TransitionType)
	assert.Equal(t, "1080", opts.Resolution)

	require.Len(t, opts.AudioTracks, 2)
	assert.Equal(t, "music", opts.AudioTracks[0].Kind)
	assert.True(t, opts.AudioTracks[0].Loop)
	assert.Equal(t, 0.3, opts.AudioTracks[0].Volume)
	assert.Equal(t, 1.0, opts.AudioTracks[1].Volume)
}
