package index

import "errors"

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEmbeddingMismatch is returned when the embedder yields a different
	// number of vectors than texts submitted.
	ErrEmbeddingMismatch = errors.New("embedding count mismatch")

	// ErrInvalidLimit is returned when a search is requested with a
	// non-positive result limit.
	ErrInvalidLimit = errors.New("search limit must be positive")
)
