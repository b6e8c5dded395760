// Package providers defines the generation and assembly capabilities
// the pipeline consumes, plus HTTP-backed implementations. Every
// capability reports whether it is configured so the pipeline can
// refuse a run before any cost is incurred.
package providers

import (
	"context"

	"github.com/ehudso7/halcyon-cinema-sub003/pkg/schemas"
)

// VideoRequest asks for one generated video clip.
type VideoRequest struct {
	Prompt      string
	DurationSec float64
	AspectRatio string
	ProjectID   string
	SceneID     string
}

// VideoResult is a successful video generation.
type VideoResult struct {
	URL string
}

// VideoGenerator produces short video clips from text prompts.
type VideoGenerator interface {
	Configured() bool
	Generate(ctx context.Context, req VideoRequest) (*VideoResult, error)
}

// MusicRequest asks for one generated music track.
type MusicRequest struct {
	Prompt     string
	MaxSeconds float64
	Mood       string
	Genre      string
	ProjectID  string
}

// MusicResult is a successful music generation.
type MusicResult struct {
	URL         string
	DurationSec float64
}

// MusicGenerator produces background music tracks.
type MusicGenerator interface {
	Configured() bool
	Generate(ctx context.Context, req MusicRequest) (*MusicResult, error)
}

// VoiceoverRequest asks for one synthesized voiceover.
type VoiceoverRequest struct {
	Text      string
	Voice     string
	Model     string
	Speed     float64
	ProjectID string
}

// VoiceoverResult is a successful voiceover generation.
type VoiceoverResult struct {
	URL         string
	DurationSec float64
}

// VoiceoverGenerator synthesizes speech from text.
type VoiceoverGenerator interface {
	Configured() bool
	Generate(ctx context.Context, req VoiceoverRequest) (*VoiceoverResult, error)
}

// Assembler renders a declarative timeline into one video. Submit
// returns the provider render-job id; Poll reports normalized status
// until a terminal state.
type Assembler interface {
	Configured() bool
	Submit(ctx context.Context, opts *schemas.AssemblyOptions) (string, error)
	Poll(ctx context.Context, renderID string) (*schemas.AssemblyStatus, error)
}
