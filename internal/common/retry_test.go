package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recurhq/recur/internal/service"
)

func fastOpts() service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestWithRetrySucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}, fastOpts())

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryStopsOnNonRetryableError(t *testing.T) {
	attempts := 0
	permanent := &RetryableError{Err: errors.New("bad credentials"), Retryable: false}

	err := WithRetry(context.Background(), func() error {
		attempts++
		return permanent
	}, fastOpts())

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.NotErrorIs(t, err, ErrMaxRetries)
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		return errors.New("still failing")
	}, fastOpts())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMaxRetries)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, func() error {
		return errors.New("transient")
	}, fastOpts())

	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrRateLimit))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.True(t, IsRetryable(&RetryableError{Err: errors.New("flaky"), Retryable: true}))
	assert.False(t, IsRetryable(&RetryableError{Err: errors.New("fatal"), Retryable: false}))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(nil))
}

func TestUserErrorPreservesCause(t *testing.T) {
	cause := errors.New("oauth token expired")
	err := NewUserError("not authenticated; run 'recur auth' first", cause)

	assert.Equal(t, "not authenticated; run 'recur auth' first: oauth token expired", err.Error())
	assert.ErrorIs(t, err, cause)

	var userErr *UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, "not authenticated; run 'recur auth' first", userErr.UserMessage)
}
