package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/passage/chunk"
	"github.com/poiesic/passage/core"
	"github.com/poiesic/passage/index/mock"
	"github.com/poiesic/passage/ingestion"
	"github.com/poiesic/passage/search"
)

func newTestServer(t *testing.T, gateway *mock.Gateway) *Server {
	t.Helper()

	splitter, err := chunk.NewSplitter(40, 10)
	require.NoError(t, err)
	pipeline, err := ingestion.NewPipeline(gateway, splitter)
	require.NoError(t, err)
	retriever, err := search.NewRetriever(gateway)
	require.NoError(t, err)

	s, err := New(pipeline, retriever)
	require.NoError(t, err)
	return s
}

func multipartBody(t *testing.T, files map[string]string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, mock.NewGateway())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestServer_Ingest(t *testing.T) {
	gateway := mock.NewGateway()
	s := newTestServer(t, gateway)

	body, contentType := multipartBody(t,
		map[string]string{
			"a.txt": strings.Repeat("alpha ", 20),
			"b.txt": strings.Repeat("beta ", 20),
		},
		map[string]string{"version": "v1", "tags": "api,guide", "source": "upload"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result core.IngestionResult
	decodeBody(t, resp, &result)
	assert.Equal(t, 2, result.Ingested)
	assert.Equal(t, 2, result.Stored)
	assert.Empty(t, result.Failed)
	assert.Equal(t, 1, gateway.StoreCalls, "one gateway write for the whole batch")

	require.NotEmpty(t, gateway.Stored)
	assert.Equal(t, "v1", gateway.Stored[0].Metadata.Version())
}

func TestServer_Ingest_NoFiles(t *testing.T) {
	s := newTestServer(t, mock.NewGateway())

	body, contentType := multipartBody(t, nil, map[string]string{"version": "v1"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Ingest_GatewayFailure(t *testing.T) {
	gateway := mock.NewGateway()
	gateway.EmbedAndStoreFunc = func(_ context.Context, _ []core.Chunk) (int, error) {
		return 0, errors.New("embedding service down")
	}
	s := newTestServer(t, gateway)

	body, contentType := multipartBody(t,
		map[string]string{"a.txt": strings.Repeat("text ", 30)}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body2 map[string]string
	decodeBody(t, resp, &body2)
	assert.Contains(t, body2["error"], "embedding service down")
}

func TestServer_IngestURLs_Validation(t *testing.T) {
	s := newTestServer(t, mock.NewGateway())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest/urls",
		strings.NewReader(`{"version":"v1"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body ValidationError
	decodeBody(t, resp, &body)
	assert.Contains(t, body.Errors, "URLs")
}

func TestServer_Query(t *testing.T) {
	gateway := mock.NewGateway()
	gateway.SimilaritySearchFunc = func(_ context.Context, _ string, _ int) ([]core.RetrievedItem, error) {
		return []core.RetrievedItem{
			{Text: "v1 passage", Score: 0.9, Metadata: core.NewMetadata("v1", "", "upload", "upload", "a.txt")},
			{Text: "v2 passage", Score: 0.8, Metadata: core.NewMetadata("v2", "", "upload", "upload", "b.txt")},
		}, nil
	}
	s := newTestServer(t, gateway)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/query",
		strings.NewReader(`{"question":"X","topK":5,"filters":{"version":"v1"}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body queryResponse
	decodeBody(t, resp, &body)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "v1 passage", body.Items[0].Text)
}

func TestServer_Query_NoMatchesIsEmptyList(t *testing.T) {
	gateway := mock.NewGateway()
	gateway.SimilaritySearchFunc = func(_ context.Context, _ string, _ int) ([]core.RetrievedItem, error) {
		return []core.RetrievedItem{
			{Text: "v1 passage", Score: 0.9, Metadata: core.NewMetadata("v1", "", "upload", "upload", "a.txt")},
		}, nil
	}
	s := newTestServer(t, gateway)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/query",
		strings.NewReader(`{"question":"X","filters":{"version":"v2"}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(data), "empty list, not an error")
}

func TestServer_Query_MissingQuestion(t *testing.T) {
	s := newTestServer(t, mock.NewGateway())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(`{"topK":5}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body ValidationError
	decodeBody(t, resp, &body)
	assert.Contains(t, body.Errors, "Question")
}

func TestServer_Query_InvalidJSON(t *testing.T) {
	s := newTestServer(t, mock.NewGateway())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNew_RequiresCollaborators(t *testing.T) {
	gateway := mock.NewGateway()
	splitter, err := chunk.NewSplitter(40, 10)
	require.NoError(t, err)
	pipeline, err := ingestion.NewPipeline(gateway, splitter)
	require.NoError(t, err)
	retriever, err := search.NewRetriever(gateway)
	require.NoError(t, err)

	_, err = New(nil, retriever)
	assert.ErrorIs(t, err, ErrPipelineRequired)

	_, err = New(pipeline, nil)
	assert.ErrorIs(t, err, ErrRetrieverRequired)
}
