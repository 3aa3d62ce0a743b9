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
	"log/slog"
	"time"
)

// RetryFixedDelay runs an operation, retrying up to maxRetries additional
// times after a failure. The delay between attempts is fixed; it never grows
// and carries no jitter, so the worst-case duration of an upload batch stays
// predictable. maxRetries 0 means a single attempt.
// Returns the error from the last attempt if every attempt fails.
func RetryFixedDelay(ctx context.Context, operation func() error, maxRetries int, delay time.Duration) error {
	if maxRetries < 0 {
		return ErrInvalidMaxRetries
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries+1; attempt++ {
		// Check context before attempting
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("operation succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		slog.Debug("operation failed, will retry",
			"attempt", attempt, "maxRetries", maxRetries, "error", lastErr)

		// Don't sleep after the last attempt
		if attempt == maxRetries+1 {
			break
		}

		// Sleep with context awareness
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}
