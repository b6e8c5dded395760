package schemas

import "strings"

// VideoClip is one entry on the assembly timeline. Clips without an
// explicit StartSec are positioned back-to-back in order.
type VideoClip struct {
	URL          string   `json:"url"`
	StartSec     *float64 `json:"start_sec,omitempty"`
	TrimStartSec float64  `json:"trim_start_sec,omitempty"`
	TrimEndSec   float64  `json:"trim_end_sec,omitempty"`
	DurationSec  float64  `json:"duration_sec"`
}

// AudioTrack is an audio layer on the timeline.
type AudioTrack struct {
	Kind       string  `json:"kind"` // music|voiceover|sfx
	URL        string  `json:"url"`
	Volume     float64 `json:"volume,omitempty"`
	FadeInSec  float64 `json:"fade_in_sec,omitempty"`
	FadeOutSec float64 `json:"fade_out_sec,omitempty"`
	Loop       bool    `json:"loop,omitempty"`
}

// TextOverlay is a timed text layer on the timeline.
type TextOverlay struct {
	Text     string  `json:"text"`
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
	Position string  `json:"position,omitempty"`
}

// AssemblyOptions is the declarative, provider-agnostic timeline handed
// to the assembly provider.
type AssemblyOptions struct {
	Clips          []VideoClip   `json:"clips"`
	AudioTracks    []AudioTrack  `json:"audio_tracks,omitempty"`
	Overlays       []TextOverlay `json:"overlays,omitempty"`
	TransitionType string        `json:"transition_type,omitempty"`
	Resolution     string        `json:"resolution,omitempty"`
	OutputFormat   string        `json:"output_format,omitempty"`
}

// TotalClipSeconds sums clip durations net of trims.
func (o *AssemblyOptions) TotalClipSeconds() float64 {
	var total float64
	for _, c := range o.Clips {
		d := c.DurationSec - c.TrimStartSec - c.TrimEndSec
		if d > 0 {
			total += d
		}
	}
	return total
}

// RenderState is the normalized render-job state.
type RenderState string

const (
	RenderQueued    RenderState = "queued"
	RenderRendering RenderState = "rendering"
	RenderCompleted RenderState = "completed"
	RenderFailed    RenderState = "failed"
)

// Terminal reports whether the state is final.
func (s RenderState) Terminal() bool {
	return s == RenderCompleted || s == RenderFailed
}

// renderStates maps provider-native status vocabulary onto the closed
// RenderState enum.
var renderStates = map[string]RenderState{
	"queued":    RenderQueued,
	"submitted": RenderQueued,
	"waiting":   RenderQueued,
	"pending":   RenderQueued,
	"fetching":  RenderRendering,
	"rendering": RenderRendering,
	"saving":    RenderRendering,
	"done":      RenderCompleted,
	"complete":  RenderCompleted,
	"completed": RenderCompleted,
	"failed":    RenderFailed,
	"error":     RenderFailed,
	"cancelled": RenderFailed,
}

// NormalizeRenderState maps a provider status string onto RenderState.
// Unknown states normalize to RenderRendering so a provider adding new
// intermediate states keeps the poll loop alive instead of being
// misread as terminal.
func NormalizeRenderState(s string) RenderState {
	if state, ok := renderStates[strings.ToLower(strings.TrimSpace(s))]; ok {
		return state
	}
	return RenderRendering
}

// AssemblyStatus is one poll observation of a render job.
type AssemblyStatus struct {
	State    RenderState `json:"state"`
	Percent  *float64    `json:"percent,omitempty"`
	VideoURL string      `json:"video_url,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// AssemblyResult is the outcome of the assembly stage.
type AssemblyResult struct {
	Success     bool    `json:"success"`
	VideoURL    string  `json:"video_url,omitempty"`
	RenderID    string  `json:"render_id,omitempty"`
	DurationSec float64 `json:"duration_sec,omitempty"`
	Error       string  `json:"error,omitempty"`
}
