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


// Package search implements metadata-filtered retrieval.
//
// The Retriever over-fetches candidates from the vector store gateway,
// filters them by version, source and tag metadata, and truncates to the
// requested result count. Oversampling is a tunable approximation, not a
// completeness guarantee: highly selective filters can leave the result
// list short of topK, and the engine deliberately never re-queries.
package search
