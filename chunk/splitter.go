package chunk

import "strings"

// Default chunk geometry, matching the ingestion service defaults.
const (
	DefaultSize    = 800
	DefaultOverlap = 120
)

// Splitter splits document text into overlapping passages of bounded size.
//
// Text is measured in tokenizer units (runes by default). Window i covers
// units [i*(size-overlap), i*(size-overlap)+size), so consecutive passages
// share exactly overlap units; the final passage may be shorter. The
// geometry is fixed at construction and a Splitter is safe for concurrent
// use.
type Splitter struct {
	size    int
	overlap int
	tok     Tokenizer
}

// Option configures a Splitter.
type Option func(*Splitter) error

// WithTokenizer sets the unit tokenizer. Default is RuneTokenizer.
func WithTokenizer(tok Tokenizer) Option {
	return func(s *Splitter) error {
		if tok == nil {
			return ErrTokenizerRequired
		}
		s.tok = tok
		return nil
	}
}

// NewSplitter creates a splitter with the given window size and overlap,
// both in tokenizer units. Requires 0 < overlap < size.
func NewSplitter(size, overlap int, opts ...Option) (*Splitter, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	if overlap <= 0 || overlap >= size {
		return nil, ErrInvalidOverlap
	}

	s := &Splitter{
		size:    size,
		overlap: overlap,
		tok:     RuneTokenizer{},
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Size returns the configured window size in units.
func (s *Splitter) Size() int { return s.size }

// Overlap returns the configured overlap in units.
func (s *Splitter) Overlap() int { return s.overlap }

// Split splits text into consecutive overlapping passages. Empty input
// produces no passages.
func (s *Splitter) Split(text string) []string {
	units := s.tok.Encode(text)
	if len(units) == 0 {
		return nil
	}

	step := s.size - s.overlap
	passages := make([]string, 0, (len(units)+step-1)/step)
	for start := 0; start < len(units); start += step {
		end := start + s.size
		if end > len(units) {
			end = len(units)
		}
		passages = append(passages, strings.Join(units[start:end], ""))
		if end == len(units) {
			break
		}
	}
	return passages
}
