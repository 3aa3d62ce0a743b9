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

package upload

import "errors"

var (
	// ErrInvalidMaxRetries is returned when maxRetries is negative
	ErrInvalidMaxRetries = errors.New("maxRetries must not be negative")

	// ErrIngestFuncRequired is returned when an orchestrator is constructed without an ingest call
	ErrIngestFuncRequired = errors.New("ingest function is required")

	// ErrInvalidRetryDelay is returned when the retry delay is not positive
	ErrInvalidRetryDelay = errors.New("retry delay must be positive")

	// ErrBaseURLRequired is returned when a client is constructed without a server address
	ErrBaseURLRequired = errors.New("base URL is required")

	// ErrServerStatus is returned when the ingestion server answers with a non-2xx status
	ErrServerStatus = errors.New("server returned error status")
)
