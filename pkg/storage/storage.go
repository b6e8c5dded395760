// Package storage provides URI-addressed blob backends for durable
// asset persistence: local filesystem, S3, and read-only HTTP.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
)

// Storage is the interface all backends implement.
type Storage interface {
	// Get opens the object at uri for reading.
	Get(ctx context.Context, uri string) (io.ReadCloser, error)

	// Put writes data to uri.
	Put(ctx context.Context, uri string, data io.Reader) error

	// Exists reports whether an object exists at uri.
	Exists(ctx context.Context, uri string) (bool, error)
}

// ParseURI splits a URI into scheme and path. For file:// URIs the path
// is the filesystem path; otherwise host and path are joined.
func ParseURI(uri string) (scheme, path string, err error) {
	if uri == "" {
		return "", "", fmt.Errorf("URI cannot be empty")
	}

	parsed, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("invalid URI: %w", err)
	}
	if parsed.Scheme == "" {
		return "", "", fmt.Errorf("URI must have a scheme (e.g. s3://, file://)")
	}

	if parsed.Scheme == "file" {
		return parsed.Scheme, parsed.Path, nil
	}

	path = parsed.Host
	if parsed.Path != "" {
		path += parsed.Path
	}
	return parsed.Scheme, path, nil
}

// ForURI returns the backend matching the URI's scheme.
func ForURI(ctx context.Context, uri string) (Storage, error) {
	scheme, _, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	switch scheme {
	case "file":
		return NewLocalStorage(), nil
	case "s3":
		return NewS3Storage(ctx)
	case "http", "https":
		return NewHTTPStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported storage scheme: %s", scheme)
	}
}
