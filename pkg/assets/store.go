// Package assets persists transient provider output urls to durable
// storage. Persistence is best-effort: the pipeline keeps the transient
// url when it fails.
package assets

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ehudso7/halcyon-cinema-sub003/pkg/storage"
)

// Store copies provider assets into a durable storage backend.
type Store struct {
	source  storage.Storage
	dest    storage.Storage
	baseURI string
	log     zerolog.Logger
}

// NewStore creates a Store writing under baseURI, for example
// "s3://halcyon-assets/productions" or "file:///var/lib/halcyon".
func NewStore(dest storage.Storage, baseURI string, log zerolog.Logger) *Store {
	return &Store{
		source:  storage.NewHTTPStorage(),
		dest:    dest,
		baseURI: strings.TrimRight(baseURI, "/"),
		log:     log.With().Str("component", "assets").Logger(),
	}
}

// Persist downloads the transient url and writes it under the durable
// base URI, returning the durable url.
func (s *Store) Persist(ctx context.Context, transientURL, projectID, sceneID string) (string, error) {
	body, err := s.source.Get(ctx, transientURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch transient asset: %w", err)
	}
	defer body.Close()

	name := uuid.NewString() + extension(transientURL)
	parts := []string{s.baseURI, projectID}
	if sceneID != "" {
		parts = append(parts, sceneID)
	}
	parts = append(parts, name)
	durable := strings.Join(parts, "/")

	if err := s.dest.Put(ctx, durable, body); err != nil {
		return "", fmt.Errorf("failed to store asset: %w", err)
	}

	s.log.Debug().Str("project_id", projectID).Str("uri", durable).Msg("asset persisted")
	return durable, nil
}

// extension guesses the file extension from the source url, defaulting
// to .mp4.
func extension(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	if ext := path.Ext(url); ext != "" && len(ext) <= 5 {
		return ext
	}
	return ".mp4"
}
