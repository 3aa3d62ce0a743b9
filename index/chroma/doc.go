// Package chroma implements the vector store gateway against a remote
// Chroma server's REST API.
//
// Embedding stays local: the store embeds passages through the configured
// ai.Embedder and ships vectors, documents and metadata to the server.
// Writes go through the upsert endpoint keyed by chunk content hashes, so
// retried ingestion calls overwrite rather than duplicate.
package chroma
