// Package server exposes the ingestion pipeline and the retrieval engine
// over HTTP: multipart file ingestion, URL ingestion and metadata-filtered
// querying, plus a health probe. Request bodies are validated up front and
// validation failures come back as 422 with per-field detail.
package server
