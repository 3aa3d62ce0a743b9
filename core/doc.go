// Package core defines the domain model shared across the pipeline:
// documents, chunks, metadata records, query filters and ingestion results.
//
// The metadata discipline is the load-bearing part: every stored chunk
// carries exactly four keys (version, tags, source, path) with empty strings
// for absent values, so query-time filtering never has to handle missing
// keys. Chunk keys are content-derived BLAKE2b hashes, which makes vector
// store writes idempotent under retry.
package core
