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

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/passage/core"
)

// Retry policy bounds for the batch orchestrator.
const (
	// MaxRetryLimit caps the extra attempts per upload.
	MaxRetryLimit = 3

	// DefaultRetryDelay is the fixed pause between attempts.
	DefaultRetryDelay = 1 * time.Second
)

// Upload is one file queued for ingestion.
type Upload struct {
	Name string
	Data []byte
	Meta core.DocumentMeta
}

// IngestFunc submits a single upload and returns the server's ingestion
// summary. Client.IngestFile satisfies this shape via a closure.
type IngestFunc func(ctx context.Context, item Upload) (*core.IngestionResult, error)

// BatchState aggregates the outcome of a batch run. Counts accumulate
// across uploads; a failed upload contributes only its name.
type BatchState struct {
	SuccessFiles []string `json:"success_files"`
	FailedFiles  []string `json:"failed_files"`
	Ingested     int      `json:"ingested"`
	Stored       int      `json:"stored"`
	StoredPaths  []string `json:"stored_paths,omitempty"`
}

func (s *BatchState) merge(name string, result *core.IngestionResult) {
	s.SuccessFiles = append(s.SuccessFiles, name)
	if result == nil {
		return
	}
	s.Ingested += result.Ingested
	s.Stored += result.Stored
	s.StoredPaths = append(s.StoredPaths, result.StoredPaths...)
}

// Orchestrator pushes a batch of uploads through an ingest call, one at a
// time. Uploads run strictly sequentially so the server never sees
// concurrent writes from one batch; a failed upload is retried with a fixed
// delay up to the retry limit and then recorded, never aborting the rest of
// the batch.
type Orchestrator struct {
	ingest     IngestFunc
	retryLimit int
	retryDelay time.Duration
	progress   io.Writer
	logger     *slog.Logger
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator) error

// WithRetryLimit sets the extra attempts allowed per upload.
// Values are clamped to [0, MaxRetryLimit]. Default is 0.
func WithRetryLimit(limit int) OrchestratorOption {
	return func(o *Orchestrator) error {
		if limit < 0 {
			limit = 0
		}
		if limit > MaxRetryLimit {
			limit = MaxRetryLimit
		}
		o.retryLimit = limit
		return nil
	}
}

// WithRetryDelay sets the fixed pause between attempts.
// Default is DefaultRetryDelay.
func WithRetryDelay(delay time.Duration) OrchestratorOption {
	return func(o *Orchestrator) error {
		if delay <= 0 {
			return ErrInvalidRetryDelay
		}
		o.retryDelay = delay
		return nil
	}
}

// WithProgress sets where progress lines are written.
// Default is io.Discard.
func WithProgress(writer io.Writer) OrchestratorOption {
	return func(o *Orchestrator) error {
		if writer == nil {
			writer = io.Discard
		}
		o.progress = writer
		return nil
	}
}

// WithOrchestratorLogger sets a custom logger.
// Default is slog.Default().
func WithOrchestratorLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewOrchestrator creates a batch orchestrator around the given ingest call.
func NewOrchestrator(ingest IngestFunc, opts ...OrchestratorOption) (*Orchestrator, error) {
	if ingest == nil {
		return nil, ErrIngestFuncRequired
	}

	o := &Orchestrator{
		ingest:     ingest,
		retryDelay: DefaultRetryDelay,
		progress:   io.Discard,
		logger:     slog.Default().With("component", "upload"),
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Run processes the uploads in order and returns the aggregate state.
// A cancelled context terminates the batch; the state accumulated so far is
// returned alongside the context error. Any other per-upload failure is
// absorbed into FailedFiles.
func (o *Orchestrator) Run(ctx context.Context, uploads []Upload) (*BatchState, error) {
	state := &BatchState{}
	tracker := NewProgressTracker(o.progress, len(uploads))
	tracker.Start()

	for _, item := range uploads {
		var result *core.IngestionResult
		err := RetryFixedDelay(ctx, func() error {
			var opErr error
			result, opErr = o.ingest(ctx, item)
			return opErr
		}, o.retryLimit, o.retryDelay)

		if err != nil {
			if ctx.Err() != nil {
				return state, ctx.Err()
			}
			o.logger.Warn("upload failed",
				"file", item.Name, "attempts", o.retryLimit+1, "err", err)
			state.FailedFiles = append(state.FailedFiles, item.Name)
			tracker.Increment()
			continue
		}

		state.merge(item.Name, result)
		tracker.Increment()
	}

	tracker.Finish()
	o.logger.Info("batch complete",
		"succeeded", len(state.SuccessFiles),
		"failed", len(state.FailedFiles),
		"stored", state.Stored,
		"elapsed", tracker.Elapsed().Round(time.Millisecond))
	return state, nil
}
