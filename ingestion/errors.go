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


package ingestion

import "errors"

var (
	// ErrGatewayRequired is returned when a vector store gateway is not provided.
	ErrGatewayRequired = errors.New("vector store gateway required")

	// ErrSplitterRequired is returned when a splitter is not provided.
	ErrSplitterRequired = errors.New("splitter required")

	// ErrInvalidFetchTimeout is returned when a non-positive fetch timeout is configured.
	ErrInvalidFetchTimeout = errors.New("fetch timeout must be positive")

	// ErrExtraction indicates a source item could not be decoded into text.
	// Extraction failures are isolated to the item that raised them.
	ErrExtraction = errors.New("extraction failed")

	// ErrNotText indicates file contents are not valid UTF-8 text.
	ErrNotText = errors.New("file is not valid UTF-8 text")

	// ErrFetch indicates a URL fetch returned an error status.
	ErrFetch = errors.New("fetch failed")
)
