package providers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ehudso7/halcyon-cinema-sub003/pkg/schemas"
)

// ShotstackConfig configures the Shotstack assembly client.
type ShotstackConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

const defaultShotstackURL = "https://api.shotstack.io/v1"

// Shotstack submits declarative timelines to the Shotstack edit API and
// polls render jobs.
type Shotstack struct {
	cfg    ShotstackConfig
	client *http.Client
	log    zerolog.Logger
}

// NewShotstack creates a Shotstack client.
func NewShotstack(cfg ShotstackConfig, log zerolog.Logger) *Shotstack {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultShotstackURL
	}
	return &Shotstack{
		cfg:    cfg,
		client: newHTTPClient(),
		log:    log.With().Str("provider", "shotstack").Logger(),
	}
}

// Configured reports whether credentials are present.
func (s *Shotstack) Configured() bool {
	return s.cfg.APIKey != ""
}

// Shotstack wire types. Only the subset of the edit schema the
// orchestrator emits.

type ssEdit struct {
	Timeline ssTimeline `json:"timeline"`
	Output   ssOutput   `json:"output"`
}

type ssTimeline struct {
	Tracks []ssTrack `json:"tracks"`
}

type ssTrack struct {
	Clips []ssClip `json:"clips"`
}

type ssClip struct {
	Asset      ssAsset  `json:"asset"`
	Start      float64  `json:"start"`
	Length     float64  `json:"length"`
	Transition *ssTrans `json:"transition,omitempty"`
}

type ssAsset struct {
	Type   string  `json:"type"` // video|audio|title
	Src    string  `json:"src,omitempty"`
	Text   string  `json:"text,omitempty"`
	Trim   float64 `json:"trim,omitempty"`
	Volume float64 `json:"volume,omitempty"`
}

type ssTrans struct {
	In  string `json:"in,omitempty"`
	Out string `json:"out,omitempty"`
}

type ssOutput struct {
	Format     string `json:"format"`
	Resolution string `json:"resolution,omitempty"`
}

type ssSubmitResponse struct {
	Success  bool `json:"success"`
	Response struct {
		ID string `json:"id"`
	} `json:"response"`
	Message string `json:"message,omitempty"`
}

type ssStatusResponse struct {
	Response struct {
		Status string `json:"status"`
		URL    string `json:"url,omitempty"`
		Error  string `json:"error,omitempty"`
	} `json:"response"`
}

// Submit posts the timeline and returns the render-job id.
func (s *Shotstack) Submit(ctx context.Context, opts *schemas.AssemblyOptions) (string, error) {
	edit := buildEdit(opts)

	var resp ssSubmitResponse
	if err := postJSON(ctx, s.client, s.cfg.BaseURL+"/render", s.headers(), edit, &resp); err != nil {
		return "", fmt.Errorf("render submission failed: %w", err)
	}
	if !resp.Success || resp.Response.ID == "" {
		return "", fmt.Errorf("render submission failed: %s", resp.Message)
	}

	s.log.Info().Str("render_id", resp.Response.ID).Int("clips", len(opts.Clips)).Msg("render submitted")
	return resp.Response.ID, nil
}

// Poll fetches and normalizes the current render-job status.
func (s *Shotstack) Poll(ctx context.Context, renderID string) (*schemas.AssemblyStatus, error) {
	var resp ssStatusResponse
	if err := getJSON(ctx, s.client, s.cfg.BaseURL+"/render/"+renderID, s.headers(), &resp); err != nil {
		return nil, fmt.Errorf("render poll failed: %w", err)
	}

	return &schemas.AssemblyStatus{
		State:    schemas.NormalizeRenderState(resp.Response.Status),
		VideoURL: resp.Response.URL,
		Error:    resp.Response.Error,
	}, nil
}

func (s *Shotstack) headers() map[string]string {
	return map[string]string{"x-api-key": s.cfg.APIKey}
}

// buildEdit lowers the provider-agnostic timeline to the Shotstack edit
// schema: clips back-to-back unless explicitly positioned, transitions
// only across interior boundaries, one track per audio layer.
func buildEdit(opts *schemas.AssemblyOptions) ssEdit {
	videoTrack := ssTrack{}
	cursor := 0.0
	for i, clip := range opts.Clips {
		start := cursor
		if clip.StartSec != nil {
			start = *clip.StartSec
		}
		length := clip.DurationSec - clip.TrimStartSec - clip.TrimEndSec
		if length <= 0 {
			length = clip.DurationSec
		}

		sc := ssClip{
			Asset:  ssAsset{Type: "video", Src: clip.URL, Trim: clip.TrimStartSec},
			Start:  start,
			Length: length,
		}
		if t := opts.TransitionType; t != "" && t != "cut" {
			tr := &ssTrans{}
			if i > 0 {
				tr.In = t
			}
			if i < len(opts.Clips)-1 {
				tr.Out = t
			}
			if tr.In != "" || tr.Out != "" {
				sc.Transition = tr
			}
		}
		videoTrack.Clips = append(videoTrack.Clips, sc)
		cursor = start + length
	}

	tracks := []ssTrack{videoTrack}
	for _, at := range opts.AudioTracks {
		vol := at.Volume
		if vol == 0 {
			vol = 1
		}
		tracks = append(tracks, ssTrack{Clips: []ssClip{{
			Asset:  ssAsset{Type: "audio", Src: at.URL, Volume: vol},
			Start:  0,
			Length: cursor,
		}}})
	}
	if len(opts.Overlays) > 0 {
		overlayTrack := ssTrack{}
		for _, ov := range opts.Overlays {
			overlayTrack.Clips = append(overlayTrack.Clips, ssClip{
				Asset:  ssAsset{Type: "title", Text: ov.Text},
				Start:  ov.StartSec,
				Length: ov.EndSec - ov.StartSec,
			})
		}
		tracks = append(tracks, overlayTrack)
	}

	format := opts.OutputFormat
	if format == "" {
		format = "mp4"
	}
	return ssEdit{
		Timeline: ssTimeline{Tracks: tracks},
		Output:   ssOutput{Format: format, Resolution: opts.Resolution},
	}
}
