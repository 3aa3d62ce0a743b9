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


package search

import "errors"

var (
	// ErrGatewayRequired is returned when a vector store gateway is not provided.
	ErrGatewayRequired = errors.New("vector store gateway required")

	// ErrEmptyQuestion is returned when a retrieval is attempted with a blank question.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrInvalidTopK is returned when a non-positive default topK is configured.
	ErrInvalidTopK = errors.New("topK must be positive")

	// ErrInvalidOversample is returned when the oversampling multiplier is below one.
	ErrInvalidOversample = errors.New("oversample multiplier must be at least 1")

	// ErrInvalidCandidateSize is returned when a negative candidate size is configured.
	ErrInvalidCandidateSize = errors.New("candidate size cannot be negative")
)
