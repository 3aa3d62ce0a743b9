// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// ValidateChunk validates a Chunk before it is handed to a vector store.
//
// Validation rules:
//   - Text must not be empty
//   - Key must be set
//   - Metadata must carry all four recognized keys (values may be empty)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyText)
	}

	if chunk.Key == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyKey)
	}

	if err := ValidateMetadata(chunk.Metadata); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, err)
	}

	return nil
}

// ValidateMetadata checks that a metadata record carries every recognized
// key. Empty values are valid; missing keys are not, because downstream
// filter comparisons assume total records.
func ValidateMetadata(m Metadata) error {
	if m == nil {
		return ErrMissingMetadata
	}
	for _, key := range []string{MetaVersion, MetaTags, MetaSource, MetaPath} {
		if _, ok := m[key]; !ok {
			return fmt.Errorf("%w: missing %q", ErrMissingMetadata, key)
		}
	}
	return nil
}
