//go:build !cgo

package traverse

import (
	"context"
	"errors"

	"jxref/internal/indexer"
)

// ErrNoCGO is returned when syntax traversal is unavailable due to missing CGO.
var ErrNoCGO = errors.New("java traversal requires CGO (tree-sitter)")

// Walker parses Java sources and emits occurrences.
// This is a stub implementation for non-CGO builds.
type Walker struct{}

// NewWalker creates a walker.
// Returns nil when CGO is disabled.
func NewWalker() *Walker {
	return nil
}

// Occurrences parses one document and returns its occurrence stream.
// Stub implementation returns an error.
func (w *Walker) Occurrences(ctx context.Context, path string, source []byte) ([]indexer.Occurrence, error) {
	return nil, ErrNoCGO
}

// IsAvailable returns whether tree-sitter traversal is available.
// Returns false when CGO is disabled.
func IsAvailable() bool {
	return false
}
