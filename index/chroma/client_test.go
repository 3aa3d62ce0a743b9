package chroma

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/poiesic/passage/ai/mock"
	"github.com/poiesic/passage/core"
	"github.com/poiesic/passage/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChroma is a minimal in-memory stand-in for the Chroma REST API.
type fakeChroma struct {
	t           *testing.T
	collections map[string]string // name -> id
	upserts     []map[string]any
	queryResp   map[string]any
}

func newFakeChroma(t *testing.T) (*fakeChroma, *httptest.Server) {
	f := &fakeChroma{t: t, collections: map[string]string{}}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v2/tenants/{tenant}/databases/{db}/collections", f.handleCollections)
	mux.HandleFunc("POST /api/v2/tenants/{tenant}/databases/{db}/collections/{id}/upsert", f.handleUpsert)
	mux.HandleFunc("POST /api/v2/tenants/{tenant}/databases/{db}/collections/{id}/query", f.handleQuery)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return f, server
}

func (f *fakeChroma) handleCollections(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string `json:"name"`
		GetOrCreate bool   `json:"get_or_create"`
	}
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
	assert.True(f.t, body.GetOrCreate)

	id, ok := f.collections[body.Name]
	if !ok {
		id = "col-" + body.Name
		f.collections[body.Name] = id
	}
	json.NewEncoder(w).Encode(map[string]string{"id": id, "name": body.Name})
}

func (f *fakeChroma) handleUpsert(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
	f.upserts = append(f.upserts, body)
	w.WriteHeader(http.StatusCreated)
}

func (f *fakeChroma) handleQuery(w http.ResponseWriter, r *http.Request) {
	if f.queryResp == nil {
		f.queryResp = map[string]any{
			"documents": [][]string{},
			"metadatas": [][]map[string]string{},
			"distances": [][]float64{},
		}
	}
	json.NewEncoder(w).Encode(f.queryResp)
}

func newTestStore(t *testing.T, f *fakeChroma, server *httptest.Server) *Store {
	store, err := New(context.Background(), Config{
		Host:       server.URL,
		Collection: "docs",
	}, mock.NewEmbedder())
	require.NoError(t, err)
	return store
}

func TestNew_GetsOrCreatesCollection(t *testing.T) {
	f, server := newFakeChroma(t)
	store := newTestStore(t, f, server)

	assert.Equal(t, "col-docs", store.collectionID)
	assert.Contains(t, f.collections, "docs")
}

func TestNew_RequiresEmbedder(t *testing.T) {
	_, err := New(context.Background(), Config{Host: "http://localhost:1"}, nil)
	assert.ErrorIs(t, err, index.ErrEmbedderRequired)
}

func TestStore_EmbedAndStore(t *testing.T) {
	f, server := newFakeChroma(t)
	store := newTestStore(t, f, server)

	meta := core.NewMetadata("v1", "api", "", "upload", "doc.txt")
	chunks := []core.Chunk{
		{Key: core.ChunkKey("doc.txt", 0, "first"), Text: "first", Metadata: meta},
		{Key: core.ChunkKey("doc.txt", 1, "second"), Index: 1, Text: "second", Metadata: meta},
	}

	count, err := store.EmbedAndStore(context.Background(), chunks)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.Len(t, f.upserts, 1)
	payload := f.upserts[0]
	assert.Len(t, payload["ids"], 2)
	assert.Len(t, payload["documents"], 2)
	assert.Len(t, payload["embeddings"], 2)
	assert.Len(t, payload["metadatas"], 2)
}

func TestStore_SimilaritySearch(t *testing.T) {
	f, server := newFakeChroma(t)
	store := newTestStore(t, f, server)

	f.queryResp = map[string]any{
		"documents": [][]string{{"closest", "farther"}},
		"metadatas": [][]map[string]string{{
			{"version": "v1", "tags": "api", "source": "upload", "path": "doc.txt"},
			{"version": "v2", "tags": "", "source": "web", "path": "u"},
		}},
		"distances": [][]float64{{0.1, 1.4}},
	}

	items, err := store.SimilaritySearch(context.Background(), "question", 2)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "closest", items[0].Text)
	assert.InDelta(t, 0.9, items[0].Score, 1e-9)
	assert.Equal(t, "v1", items[0].Metadata.Version())

	// Distances beyond 1 clamp to a zero score, never negative.
	assert.Zero(t, items[1].Score)
}

func TestStore_SimilaritySearchEmpty(t *testing.T) {
	f, server := newFakeChroma(t)
	store := newTestStore(t, f, server)

	items, err := store.SimilaritySearch(context.Background(), "question", 5)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStore_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/collections") {
			json.NewEncoder(w).Encode(map[string]string{"id": "col-x"})
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	store, err := New(context.Background(), Config{Host: server.URL}, mock.NewEmbedder())
	require.NoError(t, err)

	_, err = store.SimilaritySearch(context.Background(), "q", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
