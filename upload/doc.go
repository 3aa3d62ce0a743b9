// Package upload drives batches of files through a running ingestion
// server. The Orchestrator processes uploads strictly sequentially, retries
// each one with a fixed delay up to a bounded limit, reports progress after
// every item, and always returns a complete batch summary. Client is the
// HTTP side: multipart file ingestion, URL ingestion and querying.
package upload
