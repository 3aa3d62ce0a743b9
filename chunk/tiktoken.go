package chunk

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// TokenTokenizer measures text in BPE token units using tiktoken. Token
// units track the embedding model's notion of length and rarely split
// mid-word, at the cost of loading the encoding's vocabulary.
type TokenTokenizer struct {
	enc *tiktoken.Tiktoken
}

var _ Tokenizer = (*TokenTokenizer)(nil)

// NewTokenTokenizer creates a tokenizer for the named tiktoken encoding,
// e.g. "cl100k_base".
func NewTokenTokenizer(encoding string) (*TokenTokenizer, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load tiktoken encoding %q: %w", encoding, err)
	}
	return &TokenTokenizer{enc: enc}, nil
}

// Encode splits text into one unit per BPE token. Each token decodes to a
// fixed byte sequence, so contiguous units concatenate back to the original
// range.
func (t *TokenTokenizer) Encode(text string) []string {
	ids := t.enc.Encode(text, nil, nil)
	if len(ids) == 0 {
		return nil
	}
	units := make([]string, len(ids))
	for i, id := range ids {
		units[i] = t.enc.Decode([]int{id})
	}
	return units
}
