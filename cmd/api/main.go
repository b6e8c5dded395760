// Package main provides the production API server entry point.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ehudso7/halcyon-cinema-sub003/pkg/api"
	"github.com/ehudso7/halcyon-cinema-sub003/pkg/assets"
	"github.com/ehudso7/halcyon-cinema-sub003/pkg/auth"
	"github.com/ehudso7/halcyon-cinema-sub003/pkg/batch"
	"github.com/ehudso7/halcyon-cinema-sub003/pkg/config"
	"github.com/ehudso7/halcyon-cinema-sub003/pkg/pipeline"
	"github.com/ehudso7/halcyon-cinema-sub003/pkg/providers"
	"github.com/ehudso7/halcyon-cinema-sub003/pkg/storage"
	"github.com/ehudso7/halcyon-cinema-sub003/pkg/store"
)

var configPath = flag.String("config", "config.yaml", "Path to config file")

func main() {
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := newLogger(cfg.Log)
	log.Info().Str("addr", cfg.Server.Addr()).Msg("starting production API")

	s := store.NewMemoryStore()
	defer s.Close()

	producer, err := buildProducer(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build pipeline")
	}
	orchestrator := batch.New(producer, log)

	server := api.NewServer(s, producer, orchestrator, log)
	defer server.Close()

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      setupRoutes(server, cfg, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	out := zerolog.New(os.Stderr)
	if cfg.Pretty {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return out.Level(level).With().Timestamp().Logger()
}

// buildProducer wires the configured providers and the asset store into
// a Producer. Providers without credentials stay unconfigured; the
// pipeline rejects requests that need them.
func buildProducer(cfg *config.Config, log zerolog.Logger) (*pipeline.Producer, error) {
	caps := pipeline.Capabilities{
		Video:     providers.NewPixelForge(cfg.Providers.PixelForge, log),
		Music:     providers.NewAurora(cfg.Providers.Aurora, log),
		Voiceover: providers.NewElevenLabs(cfg.Providers.ElevenLabs, log),
		Assembler: providers.NewShotstack(cfg.Providers.Shotstack, log),
	}

	if cfg.Assets.BaseURI != "" {
		dest, err := storage.ForURI(context.Background(), cfg.Assets.BaseURI)
		if err != nil {
			return nil, err
		}
		caps.Assets = assets.NewStore(dest, cfg.Assets.BaseURI, log)
	}

	return pipeline.NewProducer(caps, pipeline.Options{
		PollInterval: cfg.Pipeline.PollInterval(),
		PollBudget:   cfg.Pipeline.PollBudget(),
		Logger:       log,
	}), nil
}

func setupRoutes(server *api.Server, cfg *config.Config, log zerolog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	common := []func(http.HandlerFunc) http.HandlerFunc{
		api.RecoveryMiddleware(log),
		api.CORSMiddleware,
		api.LoggingMiddleware(log),
	}

	// Auth is enabled only when a JWT secret or static keys are
	// configured; an open server is fine for local development.
	if cfg.Auth.Enabled() {
		var tokens *auth.JWTManager
		if cfg.Auth.JWTSecret != "" {
			tokens = auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
		}
		keys := auth.NewAPIKeyManager()
		for _, k := range cfg.Auth.APIKeys {
			keys.Add(k.Key, k.UserID, k.Name)
		}
		common = append(common, auth.NewAuthenticator(tokens, keys).Require)
	}

	mux.HandleFunc("/health", api.Chain(server.HandleHealth, api.LoggingMiddleware(log)))

	mux.HandleFunc("/api/v1/productions", api.Chain(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			server.HandleListRuns(w, r)
		case http.MethodPost:
			server.HandleCreateProduction(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}, common...))

	mux.HandleFunc("/api/v1/productions/estimate", api.Chain(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		server.HandleEstimate(w, r)
	}, common...))

	mux.HandleFunc("/api/v1/productions/", api.Chain(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		server.HandleGetProduction(w, r)
	}, common...))

	mux.HandleFunc("/api/v1/batches", api.Chain(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		server.HandleCreateBatch(w, r)
	}, common...))

	mux.HandleFunc("/api/v1/batches/", api.Chain(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		server.HandleGetBatch(w, r)
	}, common...))

	return mux
}
