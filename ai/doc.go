// Package ai defines the embedding service boundary.
//
// The Embedder interface maps text to fixed-length vectors. The pipeline
// never depends on a concrete embedding implementation: ai/openai provides
// one for OpenAI-compatible APIs and ai/mock provides a deterministic test
// double.
package ai
