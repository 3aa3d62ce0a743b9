package ingestion

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLToText strips markup from an HTML document and returns its visible
// text. Script, style and noscript contents are removed; block structure
// collapses to whatever whitespace the source carried.
func HTMLToText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	text := doc.Text()
	return strings.TrimSpace(text), nil
}

// fetchText fetches one URL and converts the response body to plain text.
func (p *Pipeline) fetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := p.fetcher.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: %s: %s", ErrFetch, url, resp.Status)
	}

	return HTMLToText(resp.Body)
}
