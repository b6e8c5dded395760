// Package config loads service configuration from an optional YAML
// file with environment variable overrides for credentials.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ehudso7/halcyon-cinema-sub003/pkg/providers"
)

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Providers ProvidersConfig `yaml:"providers"`
	Assets    AssetsConfig    `yaml:"assets"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ProvidersConfig holds per-provider credentials and endpoints.
type ProvidersConfig struct {
	PixelForge providers.PixelForgeConfig `yaml:"pixelforge"`
	Aurora     providers.AuroraConfig     `yaml:"aurora"`
	ElevenLabs providers.ElevenLabsConfig `yaml:"elevenlabs"`
	Shotstack  providers.ShotstackConfig  `yaml:"shotstack"`
}

// AssetsConfig controls durable asset persistence.
type AssetsConfig struct {
	// BaseURI is where fetched assets are copied, e.g.
	// s3://bucket/productions or file:///var/lib/assets.
	BaseURI string `yaml:"base_uri"`
}

// PipelineConfig tunes render polling.
type PipelineConfig struct {
	PollIntervalSec int `yaml:"poll_interval_sec"`
	PollBudgetSec   int `yaml:"poll_budget_sec"`
}

// PollInterval returns the poll interval, zero when unset.
func (p PipelineConfig) PollInterval() time.Duration {
	return time.Duration(p.PollIntervalSec) * time.Second
}

// PollBudget returns the poll wall-clock budget, zero when unset.
func (p PipelineConfig) PollBudget() time.Duration {
	return time.Duration(p.PollBudgetSec) * time.Second
}

type AuthConfig struct {
	// JWTSecret enables bearer-token authentication when non-empty.
	JWTSecret   string `yaml:"jwt_secret"`
	TokenTTLMin int    `yaml:"token_ttl_min"`
	// APIKeys are pre-issued keys accepted alongside bearer tokens.
	APIKeys []StaticAPIKey `yaml:"api_keys"`
}

// StaticAPIKey is an API key issued out of band and loaded at startup.
type StaticAPIKey struct {
	Key    string `yaml:"key"`
	UserID string `yaml:"user_id"`
	Name   string `yaml:"name"`
}

// Enabled reports whether any authentication scheme is configured.
func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != "" || len(a.APIKeys) > 0
}

// TokenTTL returns the token lifetime, defaulting to 24h.
func (a AuthConfig) TokenTTL() time.Duration {
	if a.TokenTTLMin <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(a.TokenTTLMin) * time.Minute
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Load reads configuration from path (skipped when path is empty or
// missing), then applies environment overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

// applyEnv lets environment variables override file values, so
// credentials stay out of config files.
func (c *Config) applyEnv() {
	setEnv(&c.Providers.PixelForge.APIKey, "PIXELFORGE_API_KEY")
	setEnv(&c.Providers.PixelForge.BaseURL, "PIXELFORGE_BASE_URL")
	setEnv(&c.Providers.Aurora.APIKey, "AURORA_API_KEY")
	setEnv(&c.Providers.Aurora.BaseURL, "AURORA_BASE_URL")
	setEnv(&c.Providers.ElevenLabs.APIKey, "ELEVENLABS_API_KEY")
	setEnv(&c.Providers.ElevenLabs.BaseURL, "ELEVENLABS_BASE_URL")
	setEnv(&c.Providers.Shotstack.APIKey, "SHOTSTACK_API_KEY")
	setEnv(&c.Providers.Shotstack.BaseURL, "SHOTSTACK_BASE_URL")
	setEnv(&c.Assets.BaseURI, "ASSETS_BASE_URI")
	setEnv(&c.Auth.JWTSecret, "JWT_SECRET")
	setEnv(&c.Log.Level, "LOG_LEVEL")
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func setEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
