package local

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/passage/ai"
	"github.com/poiesic/passage/core"
	"github.com/poiesic/passage/index"
	"github.com/timshannon/badgerhold/v4"
)

// DefaultCollection is the index namespace used when none is configured.
const DefaultCollection = "passage_v1"

// Number of records scored per worker pool task during a similarity scan.
const scoreBatchSize = 256

// chunkRecord is the persisted form of a chunk. Records are keyed by
// collection plus content-derived chunk key, so a retried write of the same
// chunk overwrites in place. Vectors are stored unit-normalized.
type chunkRecord struct {
	Key        string
	Collection string
	Text       string
	Metadata   map[string]string
	Vector     []float32
}

// Store is an embedded vector store gateway over BadgerDB. Collections
// partition the index namespace entirely: searches never cross collections.
type Store struct {
	store      *badgerhold.Store
	embedder   ai.Embedder
	collection string
	pool       *ants.Pool
	logger     *slog.Logger
}

var _ index.Gateway = (*Store)(nil)

// Option configures a Store.
type Option func(*Store) error

// WithCollection sets the collection name. Default is DefaultCollection.
func WithCollection(name string) Option {
	return func(s *Store) error {
		if name == "" {
			return ErrCollectionRequired
		}
		s.collection = name
		return nil
	}
}

// WithPoolSize sets the worker pool size for similarity scans.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *Store) error {
		if size < 1 {
			size = 1
		}
		if s.pool != nil {
			s.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		s.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// Open opens an embedded store at the given directory, creating it if
// needed.
func Open(path string, embedder ai.Embedder, opts ...Option) (*Store, error) {
	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	return open(options, embedder, opts...)
}

// OpenMemory opens a store backed by an in-memory Badger instance. Intended
// for tests; nothing survives Close.
func OpenMemory(embedder ai.Embedder, opts ...Option) (*Store, error) {
	options := badgerhold.DefaultOptions
	options.Options = badger.DefaultOptions("").WithInMemory(true)
	return open(options, embedder, opts...)
}

func open(options badgerhold.Options, embedder ai.Embedder, opts ...Option) (*Store, error) {
	if embedder == nil {
		return nil, index.ErrEmbedderRequired
	}

	logger := slog.Default().With("component", "local-index")
	options.Logger = &badgerLoggerAdapter{logger: logger}

	bh, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		bh.Close()
		return nil, err
	}

	s := &Store{
		store:      bh,
		embedder:   embedder,
		collection: DefaultCollection,
		pool:       pool,
		logger:     logger,
	}

	for _, opt := range opts {
		if optErr := opt(s); optErr != nil {
			s.Close()
			return nil, optErr
		}
	}

	return s, nil
}

// EmbedAndStore embeds the chunks and upserts them by content-derived key.
func (s *Store) EmbedAndStore(ctx context.Context, chunks []core.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		if err := core.ValidateChunk(&chunk); err != nil {
			return 0, err
		}
		texts[i] = chunk.Text
	}

	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("%w: expected %d, got %d", index.ErrEmbeddingMismatch, len(chunks), len(vectors))
	}

	for i, chunk := range chunks {
		record := chunkRecord{
			Key:        chunk.Key,
			Collection: s.collection,
			Text:       chunk.Text,
			Metadata:   chunk.Metadata,
			Vector:     normalizeVector(vectors[i]),
		}
		if err := s.store.Upsert(s.recordKey(chunk.Key), record); err != nil {
			return 0, fmt.Errorf("store chunk %s: %w", chunk.Key, err)
		}
	}

	s.logger.Debug("stored chunks", "count", len(chunks), "collection", s.collection)
	return len(chunks), nil
}

// SimilaritySearch embeds the query and returns up to k passages from this
// collection, ordered by descending cosine similarity.
func (s *Store) SimilaritySearch(ctx context.Context, query string, k int) ([]core.RetrievedItem, error) {
	if k <= 0 {
		return nil, index.ErrInvalidLimit
	}

	queryVector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	queryVector = normalizeVector(queryVector)

	var records []chunkRecord
	if err := s.store.Find(&records, badgerhold.Where("Collection").Eq(s.collection)); err != nil {
		return nil, fmt.Errorf("scan collection %s: %w", s.collection, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	scores := s.scoreAll(records, queryVector)

	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}
	items := make([]core.RetrievedItem, 0, k)
	for _, idx := range order[:k] {
		score := scores[idx]
		if score < 0 {
			score = 0
		}
		items = append(items, core.RetrievedItem{
			Text:     records[idx].Text,
			Score:    score,
			Metadata: core.Metadata(records[idx].Metadata).Clone(),
		})
	}
	return items, nil
}

// scoreAll computes cosine similarity for every record, fanning batches out
// over the worker pool.
func (s *Store) scoreAll(records []chunkRecord, queryVector []float32) []float64 {
	scores := make([]float64, len(records))

	var wg sync.WaitGroup
	for start := 0; start < len(records); start += scoreBatchSize {
		end := start + scoreBatchSize
		if end > len(records) {
			end = len(records)
		}

		wg.Add(1)
		job := func() {
			defer wg.Done()
			for i := start; i < end; i++ {
				scores[i] = dot(records[i].Vector, queryVector)
			}
		}
		if err := s.pool.Submit(job); err != nil {
			// Pool exhausted or released; score on the calling goroutine.
			job()
		}
	}
	wg.Wait()

	return scores
}

// DeleteCollection removes every record in this store's collection.
func (s *Store) DeleteCollection() error {
	return s.store.DeleteMatching(&chunkRecord{}, badgerhold.Where("Collection").Eq(s.collection))
}

// Close releases the worker pool and closes the underlying database.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Release()
	}
	return s.store.Close()
}

func (s *Store) recordKey(chunkKey string) string {
	return s.collection + "/" + chunkKey
}

// badgerLoggerAdapter adapts slog.Logger to the badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}
