package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehudso7/halcyon-cinema-sub003/pkg/schemas"
)

func TestBuildEdit_ClipsBackToBack(t *testing.T) {
	opts := &schemas.AssemblyOptions{
		TransitionType: "fade",
		Clips: []schemas.VideoClip{
			{URL: "u1", DurationSec: 5},
			{URL: "u2", DurationSec: 5},
			{URL: "u3", DurationSec: 5},
		},
	}

	edit := buildEdit(opts)
	require.Len(t, edit.Timeline.Tracks, 1)
	clips := edit.Timeline.Tracks[0].Clips
	require.Len(t, clips, 3)

	assert.Equal(t, 0.0, clips[0].Start)
	assert.Equal(t, 5.0, clips[1].Start)
	assert.Equal(t, 10.0, clips[2].Start)

	// Transitions across interior boundaries only.
	require.NotNil(t, clips[0].Transition)
	assert.Empty(t, clips[0].Transition.In)
	assert.Equal(t, "fade", clips[0].Transition.Out)
	assert.Equal(t, "fade", clips[1].Transition.In)
	assert.Equal(t, "fade", clips[1].Transition.Out)
	assert.Empty(t, clips[2].Transition.Out)
}

func TestBuildEdit_CutMeansNoTransitions(t *testing.T) {
	opts := &schemas.AssemblyOptions{
		TransitionType: "cut",
		Clips:          []schemas.VideoClip{{URL: "u1", DurationSec: 5}, {URL: "u2", DurationSec: 5}},
	}

	edit := buildEdit(opts)
	for _, c := range edit.Timeline.Tracks[0].Clips {
		assert.Nil(t, c.Transition)
	}
}

func TestBuildEdit_AudioAndOverlayTracks(t *testing.T) {
	opts := &schemas.AssemblyOptions{
		Clips: []schemas.VideoClip{{URL: "u1", DurationSec: 10}},
		AudioTracks: []schemas.AudioTrack{
			{Kind: "music", URL: "m1", Volume: 0.3},
			{Kind: "voiceover", URL: "v1"},
		},
		Overlays: []schemas.TextOverlay{
			{Text: "Chapter One", StartSec: 1, EndSec: 4},
		},
	}

	edit := buildEdit(opts)
	require.Len(t, edit.Timeline.Tracks, 4)

	music := edit.Timeline.Tracks[1].Clips[0]
	assert.Equal(t, "audio", music.Asset.Type)
	assert.Equal(t, 0.3, music.Asset.Volume)
	assert.Equal(t, 10.0, music.Length, "audio spans the video timeline")

	voice := edit.Timeline.Tracks[2].Clips[0]
	assert.Equal(t, 1.0, voice.Asset.Volume, "zero volume defaults to full")

	overlay := edit.Timeline.Tracks[3].Clips[0]
	assert.Equal(t, "title", overlay.Asset.Type)
	assert.Equal(t, 1.0, overlay.Start)
	assert.Equal(t, 3.0, overlay.Length)
}

func TestShotstack_SubmitAndPoll(t *testing.T) {
	var gotKey string
	mux := http.NewServeMux()
	mux.HandleFunc("/render", func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		var edit ssEdit
		require.NoError(t, json.NewDecoder(r.Body).Decode(&edit))
		assert.NotEmpty(t, edit.Timeline.Tracks)
		w.Write([]byte(`{"success":true,"response":{"id":"rid-1"}}`))
	})
	mux.HandleFunc("/render/rid-1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"status":"done","url":"https://cdn.example/final.mp4"}}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	s := NewShotstack(ShotstackConfig{APIKey: "key-1", BaseURL: server.URL}, zerolog.Nop())
	require.True(t, s.Configured())

	id, err := s.Submit(context.Background(), &schemas.AssemblyOptions{
		Clips: []schemas.VideoClip{{URL: "u1", DurationSec: 5}},
	})
	require.NoError(t, err)
	assert.Equal(t, "rid-1", id)
	assert.Equal(t, "key-1", gotKey)

	status, err := s.Poll(context.Background(), "rid-1")
	require.NoError(t, err)
	assert.Equal(t, schemas.RenderCompleted, status.State)
	assert.Equal(t, "https://cdn.example/final.mp4", status.VideoURL)
}

func TestShotstack_Unconfigured(t *testing.T) {
	s := NewShotstack(ShotstackConfig{}, zerolog.Nop())
	assert.False(t, s.Configured())
}
