package providers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

// ElevenLabsConfig configures the ElevenLabs voiceover client.
type ElevenLabsConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	ModelID string `yaml:"model_id"`
}

const (
	defaultElevenLabsURL   = "https://api.elevenlabs.io/v1"
	defaultElevenLabsModel = "eleven_multilingual_v2"
	defaultVoice           = "narrator"
)

// ElevenLabs is a text-to-speech client.
type ElevenLabs struct {
	cfg    ElevenLabsConfig
	client *http.Client
	log    zerolog.Logger
}

// NewElevenLabs creates an ElevenLabs client.
func NewElevenLabs(cfg ElevenLabsConfig, log zerolog.Logger) *ElevenLabs {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultElevenLabsURL
	}
	if cfg.ModelID == "" {
		cfg.ModelID = defaultElevenLabsModel
	}
	return &ElevenLabs{
		cfg:    cfg,
		client: newHTTPClient(),
		log:    log.With().Str("provider", "elevenlabs").Logger(),
	}
}

// Configured reports whether credentials are present.
func (e *ElevenLabs) Configured() bool {
	return e.cfg.APIKey != ""
}

type elevenLabsRequest struct {
	Text    string  `json:"text"`
	ModelID string  `json:"model_id"`
	Speed   float64 `json:"speed,omitempty"`
}

type elevenLabsResponse struct {
	AudioURL    string  `json:"audio_url"`
	DurationSec float64 `json:"duration_sec"`
	Error       string  `json:"error,omitempty"`
}

// Generate synthesizes one voiceover for the given text.
func (e *ElevenLabs) Generate(ctx context.Context, req VoiceoverRequest) (*VoiceoverResult, error) {
	voice := req.Voice
	if voice == "" {
		voice = defaultVoice
	}
	model := req.Model
	if model == "" {
		model = e.cfg.ModelID
	}

	body := elevenLabsRequest{Text: req.Text, ModelID: model, Speed: req.Speed}
	url := e.cfg.BaseURL + "/text-to-speech/" + voice

	var resp elevenLabsResponse
	if err := postJSON(ctx, e.client, url, e.headers(), body, &resp); err != nil {
		return nil, fmt.Errorf("voiceover generation failed: %w", err)
	}
	if resp.AudioURL == "" {
		return nil, fmt.Errorf("voiceover generation failed: %s", resp.Error)
	}

	e.log.Debug().Int("chars", len(req.Text)).Msg("voiceover generated")
	return &VoiceoverResult{URL: resp.AudioURL, DurationSec: resp.DurationSec}, nil
}

func (e *ElevenLabs) headers() map[string]string {
	return map[string]string{
		"xi-api-key": e.cfg.APIKey,
		"Accept":     "application/json",
	}
}
