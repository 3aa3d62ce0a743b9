// Package local implements the vector store gateway as an embedded BadgerDB
// index.
//
// Chunks are stored unit-normalized and keyed by collection plus their
// content-derived key, so retried writes upsert instead of duplicating.
// Similarity search is a brute-force cosine scan of the collection,
// parallelized over a worker pool; collections never see each other's
// records.
package local
