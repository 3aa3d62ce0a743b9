package index

import (
	"context"

	"github.com/poiesic/passage/core"
)

// Gateway is the vector store boundary: it embeds passages, persists them
// with their metadata, and answers nearest-neighbor queries. Implementations
// own the index and its concurrency safety; the pipeline treats a Gateway as
// a black box with at-least-once write semantics per call.
type Gateway interface {
	// EmbedAndStore embeds the chunks and writes them to the store, upserting
	// by each chunk's content-derived key. Returns the number of chunks
	// written. A failure leaves no reportable partial state; callers must
	// treat it as a hard failure of the whole write.
	EmbedAndStore(ctx context.Context, chunks []core.Chunk) (int, error)

	// SimilaritySearch embeds the query and returns up to k stored passages
	// ordered by descending similarity score. Scores are non-negative; a
	// store that reports no score yields 0. Metadata filtering is not the
	// gateway's concern.
	SimilaritySearch(ctx context.Context, query string, k int) ([]core.RetrievedItem, error)

	// Close releases resources held by the gateway.
	Close() error
}
