package server

import "errors"

var (
	// ErrPipelineRequired is returned when a server is constructed without an ingestion pipeline
	ErrPipelineRequired = errors.New("ingestion pipeline is required")

	// ErrRetrieverRequired is returned when a server is constructed without a retrieval engine
	ErrRetrieverRequired = errors.New("retriever is required")
)
