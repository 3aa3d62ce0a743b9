package ingestion

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ExtractText decodes one uploaded file into plain text. HTML files are
// stripped of markup; everything else must be valid UTF-8 text. Extraction
// of binary formats is out of scope here: callers convert those upstream.
func ExtractText(name string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		text, err := HTMLToText(bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrExtraction, name, err)
		}
		return text, nil
	default:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: %s: %w", ErrExtraction, name, ErrNotText)
		}
		return string(data), nil
	}
}
