package ingestion

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/passage/chunk"
	"github.com/poiesic/passage/core"
	"github.com/poiesic/passage/index"
)

// SourceUpload and SourceWeb are the default metadata sources recorded for
// file and URL ingestion when the caller declares none.
const (
	SourceUpload = "upload"
	SourceWeb    = "web"
)

// FileItem is one uploaded file queued for ingestion.
type FileItem struct {
	Name string
	Data []byte
}

// Pipeline orchestrates ingestion: it extracts text per item, splits it into
// passages, attaches canonical metadata, and issues a single batched write
// to the vector store gateway. Item failures are isolated: one bad file or
// URL never aborts the rest of the batch.
type Pipeline struct {
	gateway  index.Gateway
	splitter *chunk.Splitter
	fetcher  *http.Client
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithFetchTimeout sets the per-URL fetch timeout. Default is 10 seconds.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(p *Pipeline) error {
		if timeout <= 0 {
			return ErrInvalidFetchTimeout
		}
		p.fetcher.Timeout = timeout
		return nil
	}
}

// NewPipeline creates an ingestion pipeline over the given gateway and splitter.
func NewPipeline(gateway index.Gateway, splitter *chunk.Splitter, opts ...Option) (*Pipeline, error) {
	if gateway == nil {
		return nil, ErrGatewayRequired
	}
	if splitter == nil {
		return nil, ErrSplitterRequired
	}

	p := &Pipeline{
		gateway:  gateway,
		splitter: splitter,
		fetcher:  &http.Client{Timeout: 10 * time.Second},
		logger:   slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// IngestFiles ingests a batch of uploaded files. Items that cannot be
// decoded or produce no text are recorded in the result's Failed list and
// the batch continues. All chunks from successful items go to the gateway
// in one write; a gateway failure fails the whole call, since there is no
// safe partial state to report once the batched write has been attempted.
func (p *Pipeline) IngestFiles(ctx context.Context, items []FileItem, meta core.DocumentMeta) (*core.IngestionResult, error) {
	result := &core.IngestionResult{Failed: []string{}}
	var batch []core.Chunk

	for _, item := range items {
		text, err := ExtractText(item.Name, item.Data)
		if err != nil {
			p.logger.Warn("failed to extract file", "file", item.Name, "err", err)
			result.Failed = append(result.Failed, item.Name)
			continue
		}

		chunks := p.buildChunks(text, item.Name, meta, SourceUpload)
		if len(chunks) == 0 {
			p.logger.Warn("file produced no passages", "file", item.Name)
			result.Failed = append(result.Failed, item.Name)
			continue
		}

		batch = append(batch, chunks...)
		result.Ingested++
		result.StoredPaths = append(result.StoredPaths, item.Name)
	}

	return p.store(ctx, batch, result)
}

// IngestURLs ingests a batch of URLs. Each URL is fetched, its markup
// converted to plain text, and treated as one document. Fetch and decode
// failures are per-URL: they are recorded in Failed and the batch continues.
func (p *Pipeline) IngestURLs(ctx context.Context, urls []string, meta core.DocumentMeta) (*core.IngestionResult, error) {
	result := &core.IngestionResult{Failed: []string{}}
	var batch []core.Chunk

	for _, url := range urls {
		text, err := p.fetchText(ctx, url)
		if err != nil {
			p.logger.Warn("failed to fetch url", "url", url, "err", err)
			result.Failed = append(result.Failed, url)
			continue
		}

		chunks := p.buildChunks(text, url, meta, SourceWeb)
		if len(chunks) == 0 {
			p.logger.Warn("url produced no passages", "url", url)
			result.Failed = append(result.Failed, url)
			continue
		}

		batch = append(batch, chunks...)
		result.Ingested++
		result.StoredPaths = append(result.StoredPaths, url)
	}

	return p.store(ctx, batch, result)
}

// buildChunks splits one document's text and attaches the canonical
// metadata record to every passage.
func (p *Pipeline) buildChunks(text, path string, meta core.DocumentMeta, defaultSource string) []core.Chunk {
	passages := p.splitter.Split(text)
	if len(passages) == 0 {
		return nil
	}

	metadata := core.NewMetadata(meta.Version, meta.Tags, meta.Source, defaultSource, path)
	chunks := make([]core.Chunk, len(passages))
	for i, passage := range passages {
		chunks[i] = core.Chunk{
			Key:      core.ChunkKey(path, i, passage),
			Index:    i,
			Text:     passage,
			Metadata: metadata,
		}
	}
	return chunks
}

// store issues the single batched gateway write. An empty batch skips the
// gateway entirely and returns the zero-count result.
func (p *Pipeline) store(ctx context.Context, batch []core.Chunk, result *core.IngestionResult) (*core.IngestionResult, error) {
	if len(batch) == 0 {
		return result, nil
	}

	count, err := p.gateway.EmbedAndStore(ctx, batch)
	if err != nil {
		return nil, err
	}

	// The gateway reports chunk counts, not per-item storage failures, so
	// every ingested item counts as stored once the write succeeds.
	result.Stored = result.Ingested

	p.logger.Info("ingested batch",
		"items", result.Ingested, "chunks", count, "failed", len(result.Failed))
	return result, nil
}
