package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovieConfig_EffectiveActs_Synthesized(t *testing.T) {
	cfg := &MovieConfig{
		Title:          "Feature",
		TargetDuration: SecondsDuration(20 * 60),
	}

	acts := cfg.EffectiveActs()
	require.Len(t, acts, 3)

	// 25% / 50% / 25% of 20 minutes.
	assert.Equal(t, 5*60.0, acts[0].TargetDuration.Seconds())
	assert.Equal(t, 10*60.0, acts[1].TargetDuration.Seconds())
	assert.Equal(t, 5*60.0, acts[2].TargetDuration.Seconds())

	assert.Equal(t, "Setup", acts[0].Title)
	assert.Equal(t, "Confrontation", acts[1].Title)
	assert.Equal(t, "Resolution", acts[2].Title)
}

func TestMovieConfig_EffectiveActs_DeclaredActsWin(t *testing.T) {
	cfg := &MovieConfig{
		Acts: []ActConfig{
			{Number: 1, Title: "One"},
			{Number: 2, Title: "Two"},
		},
		TargetDuration: SecondsDuration(20 * 60),
	}

	acts := cfg.EffectiveActs()
	require.Len(t, acts, 2)
	assert.Equal(t, "One", acts[0].Title)
}

func TestMovieConfig_EffectiveActs_NothingToSplit(t *testing.T) {
	cfg := &MovieConfig{Title: "Feature"}
	assert.Nil(t, cfg.EffectiveActs())
}

func TestSettings_OptOutFlags(t *testing.T) {
	on, off := true, false

	var nilSettings *Settings
	assert.True(t, nilSettings.MusicEnabled())
	assert.True(t, nilSettings.VoiceoverEnabled())

	assert.True(t, (&Settings{}).MusicEnabled())
	assert.True(t, (&Settings{IncludeMusicTrack: &on}).MusicEnabled())
	assert.False(t, (&Settings{IncludeMusicTrack: &off}).MusicEnabled())
	assert.False(t, (&Settings{IncludeVoiceover: &off}).VoiceoverEnabled())
}

func TestProductionRequest_DialogueText(t *testing.T) {
	req := &ProductionRequest{
		Scenes: []SceneInput{
			{ID: "s1", Dialogue: []string{"First line", "second"}},
			{ID: "s2"},
			{ID: "s3", Dialogue: []string{"", "third"}},
		},
	}
	assert.Equal(t, "First line. second. third", req.DialogueText())

	assert.Empty(t, (&ProductionRequest{}).DialogueText())
}

func TestProductionRequest_TotalSeconds(t *testing.T) {
	req := &ProductionRequest{
		Scenes: []SceneInput{
			{ID: "s1", DurationSec: 7},
			{ID: "s2"}, // default length
		},
	}
	assert.Equal(t, 7+DefaultSceneSeconds, req.TotalSeconds())

	prompted := &ProductionRequest{TargetDuration: SecondsDuration(42)}
	assert.Equal(t, 42.0, prompted.TotalSeconds())
}

func TestProductionProgress_CloneIsolation(t *testing.T) {
	p := ProductionProgress{
		Stage:          StageGeneratingVideo,
		CompletedSteps: []string{"a"},
		Errors:         []string{"x"},
	}
	clone := p.Clone()
	clone.CompletedSteps[0] = "mutated"
	clone.Errors = append(clone.Errors, "y")

	assert.Equal(t, "a", p.CompletedSteps[0])
	assert.Len(t, p.Errors, 1)
}
