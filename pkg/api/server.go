// Package api exposes the production orchestration pipeline over HTTP:
// submit a production or batch, poll its progress, and preview cost
// estimates.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ehudso7/halcyon-cinema-sub003/pkg/auth"
	"github.com/ehudso7/halcyon-cinema-sub003/pkg/batch"
	"github.com/ehudso7/halcyon-cinema-sub003/pkg/estimator"
	"github.com/ehudso7/halcyon-cinema-sub003/pkg/pipeline"
	"github.com/ehudso7/halcyon-cinema-sub003/pkg/schemas"
	"github.com/ehudso7/halcyon-cinema-sub003/pkg/store"
)

// Server holds the API dependencies.
type Server struct {
	store     store.Store
	producer  *pipeline.Producer
	batch     *batch.Orchestrator
	estimator *estimator.Estimator
	log       zerolog.Logger
}

// NewServer creates an API server.
func NewServer(s store.Store, producer *pipeline.Producer, orchestrator *batch.Orchestrator, log zerolog.Logger) *Server {
	return &Server{
		store:     s,
		producer:  producer,
		batch:     orchestrator,
		estimator: estimator.New(),
		log:       log.With().Str("component", "api").Logger(),
	}
}

// Close releases server resources.
func (s *Server) Close() error {
	return nil
}

// CreateRunResponse acknowledges an accepted run.
type CreateRunResponse struct {
	RunID     string    `json:"run_id"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}

// BatchRequest is the body for creating a batch run.
type BatchRequest struct {
	Type   schemas.BatchKind     `json:"type"`
	Series *schemas.SeriesConfig `json:"series,omitempty"`
	Movie  *schemas.MovieConfig  `json:"movie,omitempty"`
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HandleHealth handles GET /health.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// HandleCreateProduction handles POST /api/v1/productions. The run is
// accepted and processed in the background; progress is readable via
// the status endpoint.
func (s *Server) HandleCreateProduction(w http.ResponseWriter, r *http.Request) {
	var req schemas.ProductionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid_request", "Invalid request body: "+err.Error())
		return
	}
	if len(req.Scenes) == 0 && req.Prompt == "" {
		s.sendError(w, http.StatusBadRequest, "validation_error", "Request needs at least one scene or a prompt")
		return
	}

	run := &store.Run{
		RunID:   uuid.NewString(),
		Kind:    store.RunKindProduction,
		Created: time.Now(),
		Updated: time.Now(),
		Owner:   ownerFrom(r),
		State:   schemas.RunStatePending,
		Request: &req,
	}
	if err := s.store.CreateRun(r.Context(), run); err != nil {
		s.sendError(w, http.StatusInternalServerError, "store_error", "Failed to create run: "+err.Error())
		return
	}

	go s.runProduction(run.RunID, &req)

	s.sendJSON(w, http.StatusAccepted, CreateRunResponse{
		RunID:     run.RunID,
		State:     string(run.State),
		CreatedAt: run.Created,
	})
}

// HandleEstimate handles POST /api/v1/productions/estimate. Pure: no
// provider is touched and no run is created.
func (s *Server) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	var req schemas.ProductionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid_request", "Invalid request body: "+err.Error())
		return
	}

	s.sendJSON(w, http.StatusOK, s.estimator.Estimate(&req))
}

// HandleGetProduction handles GET /api/v1/productions/{id}.
func (s *Server) HandleGetProduction(w http.ResponseWriter, r *http.Request) {
	s.getRun(w, r, store.RunKindProduction)
}

// HandleGetBatch handles GET /api/v1/batches/{id}.
func (s *Server) HandleGetBatch(w http.ResponseWriter, r *http.Request) {
	s.getRun(w, r, store.RunKindBatch)
}

// getRun serves a run of the expected kind. A run fetched through the
// wrong collection path is a 404, not a leak across resource types.
func (s *Server) getRun(w http.ResponseWriter, r *http.Request, kind store.RunKind) {
	id := pathTail(r.URL.Path)
	if id == "" {
		s.sendError(w, http.StatusBadRequest, "invalid_request", "Missing run ID")
		return
	}

	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			s.sendError(w, http.StatusNotFound, "not_found", "Run not found")
			return
		}
		s.sendError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	if run.Kind != kind {
		s.sendError(w, http.StatusNotFound, "not_found", "Run not found")
		return
	}

	s.sendJSON(w, http.StatusOK, run)
}

// HandleListRuns handles GET /api/v1/productions. Authenticated
// callers see only their own runs.
func (s *Server) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	filter := &store.ListFilter{Owner: ownerFrom(r)}
	runs, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

// HandleCreateBatch handles POST /api/v1/batches.
func (s *Server) HandleCreateBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid_request", "Invalid request body: "+err.Error())
		return
	}

	switch {
	case req.Type == schemas.BatchKindSeries && req.Series != nil && len(req.Series.Episodes) > 0:
	case req.Type == schemas.BatchKindMovie && req.Movie != nil:
	default:
		s.sendError(w, http.StatusBadRequest, "validation_error", "Batch needs a series with episodes or a movie")
		return
	}

	run := &store.Run{
		RunID:   uuid.NewString(),
		Kind:    store.RunKindBatch,
		Created: time.Now(),
		Updated: time.Now(),
		Owner:   ownerFrom(r),
		State:   schemas.RunStatePending,
		Series:  req.Series,
		Movie:   req.Movie,
	}
	if err := s.store.CreateRun(r.Context(), run); err != nil {
		s.sendError(w, http.StatusInternalServerError, "store_error", "Failed to create run: "+err.Error())
		return
	}

	go s.runBatch(run.RunID, &req)

	s.sendJSON(w, http.StatusAccepted, CreateRunResponse{
		RunID:     run.RunID,
		State:     string(run.State),
		CreatedAt: run.Created,
	})
}

// runProduction drives one production run in the background, streaming
// progress snapshots into the store.
func (s *Server) runProduction(runID string, req *schemas.ProductionRequest) {
	ctx := context.Background()
	observer := func(p schemas.ProductionProgress) {
		if err := s.store.SetProgress(ctx, runID, p); err != nil {
			s.log.Warn().Err(err).Str("run_id", runID).Msg("failed to store progress")
		}
	}

	result := s.producer.Produce(ctx, req, observer)
	if err := s.store.CompleteRun(ctx, runID, result); err != nil {
		s.log.Error().Err(err).Str("run_id", runID).Msg("failed to store result")
	}
	s.log.Info().Str("run_id", runID).Bool("success", result.Success).Int("credits", result.CreditsUsed).Msg("production finished")
}

// runBatch drives one batch run in the background.
func (s *Server) runBatch(runID string, req *BatchRequest) {
	ctx := context.Background()
	observer := func(p schemas.BatchProductionProgress) {
		if err := s.store.SetBatchProgress(ctx, runID, p); err != nil {
			s.log.Warn().Err(err).Str("run_id", runID).Msg("failed to store progress")
		}
	}

	var result *schemas.BatchProductionResult
	if req.Type == schemas.BatchKindSeries {
		result = s.batch.ProduceSeries(ctx, req.Series, observer)
	} else {
		result = s.batch.ProduceMovie(ctx, req.Movie, observer)
	}

	if err := s.store.CompleteBatchRun(ctx, runID, result); err != nil {
		s.log.Error().Err(err).Str("run_id", runID).Msg("failed to store result")
	}
	s.log.Info().Str("run_id", runID).Bool("success", result.Success).Int("videos", len(result.Videos)).Msg("batch finished")
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	s.sendJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// pathTail returns the last non-empty path segment.
func pathTail(path string) string {
	parts := strings.Split(strings.TrimRight(path, "/"), "/")
	return parts[len(parts)-1]
}

// ownerFrom returns the authenticated caller's user ID, empty when the
// request is unauthenticated.
func ownerFrom(r *http.Request) string {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		return ""
	}
	return id.UserID
}
