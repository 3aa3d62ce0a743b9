package chunk

import "errors"

var (
	// ErrInvalidSize is returned when the window size is not positive.
	ErrInvalidSize = errors.New("chunk size must be positive")

	// ErrInvalidOverlap is returned when the overlap is not strictly between
	// zero and the window size.
	ErrInvalidOverlap = errors.New("chunk overlap must be greater than zero and less than chunk size")

	// ErrTokenizerRequired is returned when a nil tokenizer is provided.
	ErrTokenizerRequired = errors.New("tokenizer required")
)
