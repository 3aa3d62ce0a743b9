package ai

import "errors"

var (
	// ErrEmbeddingHostRequired is returned when the embedding host is not configured.
	ErrEmbeddingHostRequired = errors.New("embedding host required")

	// ErrEmbeddingModelRequired is returned when the embedding model is not configured.
	ErrEmbeddingModelRequired = errors.New("embedding model required")
)
