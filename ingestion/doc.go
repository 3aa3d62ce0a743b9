// Package ingestion orchestrates the document write path.
//
// The Pipeline consumes a batch of raw items (uploaded files or URLs),
// extracts text, splits it into overlapping passages with canonical
// metadata, and issues exactly one batched write to the vector store
// gateway for all successfully processed items. Per-item failures are
// absorbed into the result's Failed list and never abort the batch; only a
// gateway failure fails the whole call.
package ingestion
