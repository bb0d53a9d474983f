package common

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hollis-dev/invoice-sentinel/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastOpts(attempts int) service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
	}
}

func TestWithRetryStopsOnNonRetryableError(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return &RetryableError{Err: errors.New("bad request"), Retryable: false}
	}, fastOpts(5))

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.NotErrorIs(t, err, ErrMaxRetries)
}

func TestWithRetryRetriesRateLimitUntilExhausted(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return fmt.Errorf("%w: provider said slow down", ErrRateLimit)
	}, fastOpts(3))

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, ErrMaxRetries)
}

func TestWithRetryRecoversAfterTransientFailures(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, fastOpts(5))

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}
