package providers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

// PixelForgeConfig configures the PixelForge text-to-video client.
type PixelForgeConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

const defaultPixelForgeURL = "https://api.pixelforge.dev/v1"

// PixelForge is a text-to-video generation client.
type PixelForge struct {
	cfg    PixelForgeConfig
	client *http.Client
	log    zerolog.Logger
}

// NewPixelForge creates a PixelForge client.
func NewPixelForge(cfg PixelForgeConfig, log zerolog.Logger) *PixelForge {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultPixelForgeURL
	}
	return &PixelForge{
		cfg:    cfg,
		client: newHTTPClient(),
		log:    log.With().Str("provider", "pixelforge").Logger(),
	}
}

// Configured reports whether credentials are present.
func (p *PixelForge) Configured() bool {
	return p.cfg.APIKey != ""
}

type pixelForgeRequest struct {
	Prompt      string  `json:"prompt"`
	DurationSec float64 `json:"duration_sec"`
	AspectRatio string  `json:"aspect_ratio"`
	ExternalID  string  `json:"external_id,omitempty"`
}

type pixelForgeResponse struct {
	Success  bool   `json:"success"`
	VideoURL string `json:"video_url"`
	Error    string `json:"error,omitempty"`
}

// Generate produces one video clip for the given prompt.
func (p *PixelForge) Generate(ctx context.Context, req VideoRequest) (*VideoResult, error) {
	body := pixelForgeRequest{
		Prompt:      req.Prompt,
		DurationSec: req.DurationSec,
		AspectRatio: req.AspectRatio,
		ExternalID:  req.ProjectID + ":" + req.SceneID,
	}

	var resp pixelForgeResponse
	err := postJSON(ctx, p.client, p.cfg.BaseURL+"/generations", p.headers(), body, &resp)
	if err != nil {
		return nil, fmt.Errorf("video generation failed: %w", err)
	}
	if !resp.Success || resp.VideoURL == "" {
		return nil, fmt.Errorf("video generation failed: %s", resp.Error)
	}

	p.log.Debug().Str("scene_id", req.SceneID).Msg("shot generated")
	return &VideoResult{URL: resp.VideoURL}, nil
}

func (p *PixelForge) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + p.cfg.APIKey}
}
