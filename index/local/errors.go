package local

import "errors"

var (
	// ErrCollectionRequired is returned when an empty collection name is configured.
	ErrCollectionRequired = errors.New("collection name required")
)
