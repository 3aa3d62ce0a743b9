package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/poiesic/passage/ai"
	"github.com/poiesic/passage/core"
	"github.com/poiesic/passage/index"
)

// Config holds the connection target for a remote Chroma server. Tenant,
// database and collection together partition the index namespace; distinct
// collections share no documents.
type Config struct {
	Host       string // hostname, or a full base URL including scheme
	Port       int
	Tenant     string
	Database   string
	Collection string
	Timeout    time.Duration
}

// Store is a vector store gateway backed by a remote Chroma server. It is a
// minimal REST client: embedding happens locally through the configured
// embedder, only vectors and metadata cross the wire.
type Store struct {
	baseURL      string
	tenant       string
	database     string
	collection   string
	collectionID string
	embedder     ai.Embedder
	client       *http.Client
	logger       *slog.Logger
}

var _ index.Gateway = (*Store)(nil)

// New connects to the configured Chroma server and gets or creates the
// collection. Zero-valued config fields fall back to Chroma's defaults
// (localhost:8000, default_tenant, default_database).
func New(ctx context.Context, cfg Config, embedder ai.Embedder) (*Store, error) {
	if embedder == nil {
		return nil, index.ErrEmbedderRequired
	}

	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 8000
	}
	baseURL := host
	if !strings.Contains(host, "://") {
		baseURL = fmt.Sprintf("http://%s:%d", host, port)
	}
	baseURL = strings.TrimRight(baseURL, "/")

	tenant := cfg.Tenant
	if tenant == "" {
		tenant = "default_tenant"
	}
	database := cfg.Database
	if database == "" {
		database = "default_database"
	}
	collection := cfg.Collection
	if collection == "" {
		collection = "passage_v1"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	s := &Store{
		baseURL:    baseURL,
		tenant:     tenant,
		database:   database,
		collection: collection,
		embedder:   embedder,
		client:     &http.Client{Timeout: timeout},
		logger:     slog.Default().With("component", "chroma-index"),
	}

	if err := s.ensureCollection(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

type collectionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *Store) ensureCollection(ctx context.Context) error {
	body := map[string]any{
		"name":          s.collection,
		"get_or_create": true,
	}
	var resp collectionResponse
	url := fmt.Sprintf("%s/api/v2/tenants/%s/databases/%s/collections", s.baseURL, s.tenant, s.database)
	if err := s.postJSON(ctx, url, body, &resp); err != nil {
		return fmt.Errorf("get or create collection %s: %w", s.collection, err)
	}
	s.collectionID = resp.ID
	s.logger.Debug("collection ready", "collection", s.collection, "id", s.collectionID)
	return nil
}

// EmbedAndStore embeds the chunks locally and upserts them by their
// content-derived keys.
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

	ids := make([]string, len(chunks))
	documents := make([]string, len(chunks))
	metadatas := make([]map[string]string, len(chunks))
	for i, chunk := range chunks {
		ids[i] = chunk.Key
		documents[i] = chunk.Text
		metadatas[i] = chunk.Metadata
	}

	body := map[string]any{
		"ids":        ids,
		"embeddings": vectors,
		"documents":  documents,
		"metadatas":  metadatas,
	}
	url := fmt.Sprintf("%s/upsert", s.collectionURL())
	if err := s.postJSON(ctx, url, body, nil); err != nil {
		return 0, fmt.Errorf("upsert chunks: %w", err)
	}
	return len(chunks), nil
}

type queryResponse struct {
	Documents [][]string            `json:"documents"`
	Metadatas [][]map[string]string `json:"metadatas"`
	Distances [][]float64           `json:"distances"`
}

// SimilaritySearch embeds the query locally and asks the server for the k
// nearest passages. Chroma reports distances; they are converted to
// non-negative similarity scores as max(0, 1-distance).
func (s *Store) SimilaritySearch(ctx context.Context, query string, k int) ([]core.RetrievedItem, error) {
	if k <= 0 {
		return nil, index.ErrInvalidLimit
	}

	queryVector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	body := map[string]any{
		"query_embeddings": [][]float32{queryVector},
		"n_results":        k,
		"include":          []string{"documents", "metadatas", "distances"},
	}
	var resp queryResponse
	url := fmt.Sprintf("%s/query", s.collectionURL())
	if err := s.postJSON(ctx, url, body, &resp); err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}

	if len(resp.Documents) == 0 {
		return nil, nil
	}

	documents := resp.Documents[0]
	items := make([]core.RetrievedItem, 0, len(documents))
	for i, text := range documents {
		score := 0.0
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			score = 1 - resp.Distances[0][i]
			if score < 0 {
				score = 0
			}
		}
		metadata := core.Metadata{}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) && resp.Metadatas[0][i] != nil {
			metadata = core.Metadata(resp.Metadatas[0][i]).Clone()
		}
		items = append(items, core.RetrievedItem{
			Text:     text,
			Score:    score,
			Metadata: metadata,
		})
	}
	return items, nil
}

// Close is a no-op; the store holds no persistent connection.
func (s *Store) Close() error { return nil }

func (s *Store) collectionURL() string {
	return fmt.Sprintf("%s/api/v2/tenants/%s/databases/%s/collections/%s",
		s.baseURL, s.tenant, s.database, s.collectionID)
}

func (s *Store) postJSON(ctx context.Context, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("chroma POST %s failed: %s: %s", url, resp.Status, strings.TrimSpace(string(payload)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
