package pipeline

import "errors"

var (
	// ErrNotConfigured means a required provider has no credentials.
	// Returned before any cost is estimated or incurred.
	ErrNotConfigured = errors.New("required provider is not configured")

	// ErrInvalidRequest means the request cannot resolve to any scene.
	ErrInvalidRequest = errors.New("invalid production request")

	// ErrNoShotsGenerated means every shot generation failed, so there
	// is nothing to assemble.
	ErrNoShotsGenerated = errors.New("no video shots were generated")

	// ErrAssemblyFailed means the render submission failed or the
	// provider reported a terminal failure.
	ErrAssemblyFailed = errors.New("assembly failed")

	// ErrAssemblyTimeout means the render poll loop exhausted its
	// wall-clock budget without reaching a terminal state.
	ErrAssemblyTimeout = errors.New("assembly timed out")
)
