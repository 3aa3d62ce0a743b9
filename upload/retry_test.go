package upload

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryFixedDelay_Success(t *testing.T) {
	attempts := 0
	operation := func() error {
		attempts++
		return nil
	}

	err := RetryFixedDelay(context.Background(), operation, 3, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, attempts, "should succeed on first try")
}

func TestRetryFixedDelay_EventualSuccess(t *testing.T) {
	attempts := 0
	operation := func() error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	}

	err := RetryFixedDelay(context.Background(), operation, 3, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts, "should succeed on third attempt")
}

func TestRetryFixedDelay_AllAttemptsFail(t *testing.T) {
	attempts := 0
	expectedErr := errors.New("persistent error")
	operation := func() error {
		attempts++
		return expectedErr
	}

	err := RetryFixedDelay(context.Background(), operation, 2, 10*time.Millisecond)
	require.Error(t, err)
	assert.Equal(t, expectedErr, err, "should return the original error")
	assert.Equal(t, 3, attempts, "retryLimit 2 means three attempts total")
}

func TestRetryFixedDelay_ZeroRetries(t *testing.T) {
	attempts := 0
	operation := func() error {
		attempts++
		return errors.New("error")
	}

	err := RetryFixedDelay(context.Background(), operation, 0, 10*time.Millisecond)
	require.Error(t, err)
	assert.Equal(t, 1, attempts, "retryLimit 0 means a single attempt")
}

func TestRetryFixedDelay_NegativeRetries(t *testing.T) {
	err := RetryFixedDelay(context.Background(), func() error { return nil }, -1, time.Millisecond)
	assert.ErrorIs(t, err, ErrInvalidMaxRetries)
}

func TestRetryFixedDelay_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	operation := func() error {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return errors.New("error")
	}

	err := RetryFixedDelay(ctx, operation, 10, 10*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled, "should return context.Canceled")
	assert.LessOrEqual(t, attempts, 2, "should stop when context is canceled")
}

func TestRetryFixedDelay_DelayStaysFixed(t *testing.T) {
	attempts := 0
	operation := func() error {
		attempts++
		return errors.New("error")
	}

	delay := 20 * time.Millisecond
	start := time.Now()
	err := RetryFixedDelay(context.Background(), operation, 3, delay)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Equal(t, 4, attempts)
	// Three pauses of a fixed 20ms. Backoff growth would push this past 140ms.
	assert.GreaterOrEqual(t, elapsed, 3*delay)
	assert.Less(t, elapsed, 7*delay)
}
