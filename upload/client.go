package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/poiesic/passage/core"
)

// DefaultClientTimeout bounds a single ingestion or query request.
// Embedding large files server-side can be slow, so this is generous.
const DefaultClientTimeout = 120 * time.Second

// Client talks to a running passage server. It is the ingest call handed to
// the batch Orchestrator, and also exposes URL ingestion and querying for
// the CLI.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client) error

// WithHTTPClient swaps the underlying HTTP client, mainly for tests.
func WithHTTPClient(httpc *http.Client) ClientOption {
	return func(c *Client) error {
		if httpc != nil {
			c.httpc = httpc
		}
		return nil
	}
}

// WithClientTimeout sets the per-request timeout. Default is DefaultClientTimeout.
func WithClientTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) error {
		c.httpc.Timeout = timeout
		return nil
	}
}

// NewClient creates a client for the server at baseURL, e.g. "http://localhost:8080".
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, ErrBaseURLRequired
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: DefaultClientTimeout},
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// IngestFile uploads a single file to POST /api/v1/ingest as a multipart
// request with the declared metadata as form fields.
func (c *Client) IngestFile(ctx context.Context, item Upload) (*core.IngestionResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("files", item.Name)
	if err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := part.Write(item.Data); err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}

	fields := map[string]string{
		"version": item.Meta.Version,
		"tags":    item.Meta.Tags,
		"source":  item.Meta.Source,
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("build multipart body: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/ingest", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result core.IngestionResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// IngestURLs asks the server to fetch and ingest the given URLs.
func (c *Client) IngestURLs(ctx context.Context, urls []string, meta core.DocumentMeta) (*core.IngestionResult, error) {
	payload := map[string]any{
		"urls":    urls,
		"version": meta.Version,
		"tags":    meta.Tags,
		"source":  meta.Source,
	}

	var result core.IngestionResult
	if err := c.postJSON(ctx, "/api/v1/ingest/urls", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Query runs a metadata-filtered retrieval against the server.
func (c *Client) Query(ctx context.Context, question string, topK int, filter *core.QueryFilter) ([]core.RetrievedItem, error) {
	payload := map[string]any{
		"question": question,
		"topK":     topK,
	}
	if filter != nil {
		payload["filters"] = map[string]any{
			"version": filter.Version,
			"source":  filter.Source,
			"tags":    filter.Tags,
		}
	}

	var result struct {
		Items []core.RetrievedItem `json:"items"`
	}
	if err := c.postJSON(ctx, "/api/v1/query", payload, &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %d: %s",
			ErrServerStatus, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", req.URL.Path, err)
	}
	return nil
}
