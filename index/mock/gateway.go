package mock

import (
	"context"

	"github.com/poiesic/passage/core"
)

// Gateway is a test double for index.Gateway.
// It records every call and allows custom behavior injection via function fields.
type Gateway struct {
	// EmbedAndStoreFunc is called by EmbedAndStore if set.
	// If nil, the chunks are recorded and counted as stored.
	EmbedAndStoreFunc func(ctx context.Context, chunks []core.Chunk) (int, error)

	// SimilaritySearchFunc is called by SimilaritySearch if set.
	// If nil, returns no items.
	SimilaritySearchFunc func(ctx context.Context, query string, k int) ([]core.RetrievedItem, error)

	// Stored accumulates every chunk passed to EmbedAndStore with default behavior.
	Stored []core.Chunk

	// StoreCalls counts EmbedAndStore invocations.
	StoreCalls int

	// SearchCalls records the k requested by each SimilaritySearch invocation.
	SearchCalls []int
}

// NewGateway creates a mock gateway with default recording behavior.
func NewGateway() *Gateway {
	return &Gateway{}
}

// EmbedAndStore records the chunks, or delegates to EmbedAndStoreFunc.
func (g *Gateway) EmbedAndStore(ctx context.Context, chunks []core.Chunk) (int, error) {
	g.StoreCalls++

	if g.EmbedAndStoreFunc != nil {
		return g.EmbedAndStoreFunc(ctx, chunks)
	}

	g.Stored = append(g.Stored, chunks...)
	return len(chunks), nil
}

// SimilaritySearch records the requested limit, or delegates to SimilaritySearchFunc.
func (g *Gateway) SimilaritySearch(ctx context.Context, query string, k int) ([]core.RetrievedItem, error) {
	g.SearchCalls = append(g.SearchCalls, k)

	if g.SimilaritySearchFunc != nil {
		return g.SimilaritySearchFunc(ctx, query, k)
	}

	return nil, nil
}

// Close is a no-op.
func (g *Gateway) Close() error { return nil }
