package providers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

// AuroraConfig configures the Aurora music generation client.
type AuroraConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

const defaultAuroraURL = "https://api.aurora-audio.io/v2"

// Aurora is a text-to-music generation client.
type Aurora struct {
	cfg    AuroraConfig
	client *http.Client
	log    zerolog.Logger
}

// NewAurora creates an Aurora client.
func NewAurora(cfg AuroraConfig, log zerolog.Logger) *Aurora {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultAuroraURL
	}
	return &Aurora{
		cfg:    cfg,
		client: newHTTPClient(),
		log:    log.With().Str("provider", "aurora").Logger(),
	}
}

// Configured reports whether credentials are present.
func (a *Aurora) Configured() bool {
	return a.cfg.APIKey != ""
}

type auroraRequest struct {
	Prompt     string  `json:"prompt"`
	MaxSeconds float64 `json:"max_seconds"`
	Mood       string  `json:"mood,omitempty"`
	Genre      string  `json:"genre,omitempty"`
}

type auroraResponse struct {
	TrackURL    string  `json:"track_url"`
	DurationSec float64 `json:"duration_sec"`
	Error       string  `json:"error,omitempty"`
}

// Generate produces one music track.
func (a *Aurora) Generate(ctx context.Context, req MusicRequest) (*MusicResult, error) {
	body := auroraRequest{
		Prompt:     req.Prompt,
		MaxSeconds: req.MaxSeconds,
		Mood:       req.Mood,
		Genre:      req.Genre,
	}

	var resp auroraResponse
	if err := postJSON(ctx, a.client, a.cfg.BaseURL+"/tracks", a.headers(), body, &resp); err != nil {
		return nil, fmt.Errorf("music generation failed: %w", err)
	}
	if resp.TrackURL == "" {
		return nil, fmt.Errorf("music generation failed: %s", resp.Error)
	}

	a.log.Debug().Float64("duration_sec", resp.DurationSec).Msg("music track generated")
	return &MusicResult{URL: resp.TrackURL, DurationSec: resp.DurationSec}, nil
}

func (a *Aurora) headers() map[string]string {
	return map[string]string{"X-API-Key": a.cfg.APIKey}
}
