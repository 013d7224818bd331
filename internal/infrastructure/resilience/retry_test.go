package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrySucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), DefaultSettings(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryEventuallySucceeds(t *testing.T) {
	calls := 0
	s := Settings{Attempts: 3, Backoff: time.Millisecond}
	err := Retry(context.Background(), s, func() error {
		calls++
		if calls < 3 {
			return errors.New("flaky")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	s := Settings{Attempts: 4, Backoff: time.Millisecond}
	sentinel := errors.New("still broken")
	err := Retry(context.Background(), s, func() error {
		calls++
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 4, calls)
}

func TestRetryPermanentStopsImmediately(t *testing.T) {
	calls := 0
	s := Settings{Attempts: 5, Backoff: time.Millisecond}
	inner := errors.New("bad working directory")
	err := Retry(context.Background(), s, func() error {
		calls++
		return Permanent(inner)
	})
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, 1, calls)
}

func TestRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := Settings{Attempts: 3, Backoff: time.Hour}
	err := Retry(ctx, s, func() error {
		return errors.New("flaky")
	})
	assert.ErrorIs(t, err, context.Canceled)
}
