package fix

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry_NoBackoffAfterLastAttempt(t *testing.T) {
	var waits []int
	backoff := func(attempt int) time.Duration {
		waits = append(waits, attempt)
		return time.Millisecond
	}
	calls := 0
	_, err := retry(context.Background(), 3, backoff, func() (string, error) {
		calls++
		return "", ErrEmptyResponse
	})

	require.ErrorIs(t, err, ErrEmptyResponse)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{0, 1}, waits, "only the gaps between attempts wait")
}

func TestRetry_StopsOnSuccess(t *testing.T) {
	calls := 0
	out, err := retry(context.Background(), 3, func(int) time.Duration { return 0 }, func() (string, error) {
		calls++
		if calls < 2 {
			return "", errors.New("unavailable")
		}
		return "FROM python:3.11-slim", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "FROM python:3.11-slim", out)
	assert.Equal(t, 2, calls)
}

func TestRetry_CanceledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := retry(ctx, 3, func(int) time.Duration { return time.Hour }, func() (string, error) {
		calls++
		cancel()
		return "", errors.New("unavailable")
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestGeminiBackoff(t *testing.T) {
	assert.Equal(t, 300*time.Millisecond, geminiBackoff(0))
	assert.Equal(t, 600*time.Millisecond, geminiBackoff(1))
}
