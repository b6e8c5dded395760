package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPStorage implements read-only Storage for http:// and https://
// URIs, used to fetch transient provider outputs.
type HTTPStorage struct {
	client *http.Client
}

// NewHTTPStorage creates an HTTP backend.
func NewHTTPStorage() *HTTPStorage {
	return &HTTPStorage{
		client: &http.Client{Timeout: 2 * time.Minute},
	}
}

// Get downloads a file over HTTP.
func (hs *HTTPStorage) Get(ctx context.Context, uri string) (io.ReadCloser, error) {
	if err := checkHTTPScheme(uri); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := hs.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// Put is not supported; HTTP storage is read-only.
func (hs *HTTPStorage) Put(ctx context.Context, uri string, data io.Reader) error {
	return fmt.Errorf("HTTP storage is read-only")
}

// Exists checks existence with a HEAD request.
func (hs *HTTPStorage) Exists(ctx context.Context, uri string) (bool, error) {
	if err := checkHTTPScheme(uri); err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, uri, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := hs.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}

func checkHTTPScheme(uri string) error {
	scheme, _, err := ParseURI(uri)
	if err != nil {
		return err
	}
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("HTTP storage only supports http:// and https:// URIs, got %s://", scheme)
	}
	return nil
}
