package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/passage/core"
	"github.com/poiesic/passage/index"
)

// Defaults for the retrieval engine.
const (
	// DefaultTopK is the result count used when a query declares none.
	DefaultTopK = 5

	// DefaultOversample is the candidate pool multiplier. Metadata filtering
	// happens after the similarity search, so the engine fetches
	// max(topK*multiplier, topK) candidates to leave room for filter losses.
	DefaultOversample = 3
)

// Retriever answers questions with metadata-filtered evidence passages.
//
// The vector store has no knowledge of the application's version, source and
// tag fields, so the retriever over-fetches candidates, filters them by
// stored metadata, and truncates to the requested count. If filtering leaves
// fewer than topK candidates the short list is returned as-is; the engine
// never re-queries, which caps query cost. Callers that need guaranteed
// completeness under selective filters raise the oversampling configuration.
type Retriever struct {
	gateway       index.Gateway
	topK          int
	oversample    int
	candidateSize int
	logger        *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithTopK sets the default result count. Default is DefaultTopK.
func WithTopK(topK int) Option {
	return func(r *Retriever) error {
		if topK <= 0 {
			return ErrInvalidTopK
		}
		r.topK = topK
		return nil
	}
}

// WithOversample sets the candidate pool multiplier. Default is DefaultOversample.
func WithOversample(multiplier int) Option {
	return func(r *Retriever) error {
		if multiplier < 1 {
			return ErrInvalidOversample
		}
		r.oversample = multiplier
		return nil
	}
}

// WithCandidateSize fixes the candidate pool size outright, overriding the
// multiplier formula. Zero restores the formula.
func WithCandidateSize(size int) Option {
	return func(r *Retriever) error {
		if size < 0 {
			return ErrInvalidCandidateSize
		}
		r.candidateSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a retrieval engine over the given gateway.
func NewRetriever(gateway index.Gateway, opts ...Option) (*Retriever, error) {
	if gateway == nil {
		return nil, ErrGatewayRequired
	}

	r := &Retriever{
		gateway:    gateway,
		topK:       DefaultTopK,
		oversample: DefaultOversample,
		logger:     slog.Default().With("component", "retriever"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Retrieve returns up to topK passages relevant to the question that pass
// the filter. topK <= 0 selects the configured default; a nil filter keeps
// every candidate. Results preserve the gateway's score-descending order.
func (r *Retriever) Retrieve(ctx context.Context, question string, topK int, filter *core.QueryFilter) ([]core.RetrievedItem, error) {
	return r.RetrieveWithMonitor(ctx, question, topK, filter, nil)
}

// RetrieveWithMonitor is Retrieve with monitoring callbacks at each stage.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, question string, topK int, filter *core.QueryFilter, monitor Monitor) ([]core.RetrievedItem, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if topK <= 0 {
		topK = r.topK
	}

	candidates := r.candidateSize
	if candidates <= 0 {
		candidates = topK * r.oversample
		if candidates < topK {
			candidates = topK
		}
	}

	monitor.Start(question)

	pool, err := r.gateway.SimilaritySearch(ctx, question, candidates)
	if err != nil {
		r.logger.Error("similarity search failed", "err", err)
		return nil, err
	}
	monitor.AfterCandidates(pool)

	// Candidates arrive score-descending; filtering preserves that order and
	// stops as soon as topK survivors are collected.
	kept := make([]core.RetrievedItem, 0, topK)
	for _, item := range pool {
		if !filter.Matches(item.Metadata) {
			continue
		}
		kept = append(kept, item)
		if len(kept) >= topK {
			break
		}
	}

	monitor.Finish(kept)
	r.logger.Debug("retrieval complete",
		"candidates", len(pool), "kept", len(kept), "topK", topK)
	return kept, nil
}
