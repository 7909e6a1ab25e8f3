package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_SuccessFirstAttempt(t *testing.T) {
	t.Parallel()
	attempts := 0

	v, err := Value(context.Background(), func(context.Context) (string, error) {
		attempts++
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 1, attempts)
}

func TestValue_SuccessAfterRetries(t *testing.T) {
	t.Parallel()
	attempts := 0

	v, err := Value(context.Background(), func(context.Context) (int, error) {
		attempts++
		if attempts < 3 {
			return 0, errors.New("temporary error")
		}
		return 42, nil
	}, WithInitialDelay(5*time.Millisecond))

	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 3, attempts)
}

func TestValue_MaxRetries(t *testing.T) {
	t.Parallel()
	attempts := 0
	persistent := errors.New("persistent error")

	_, err := Value(context.Background(), func(context.Context) (int, error) {
		attempts++
		return 0, persistent
	}, WithMaxRetries(3), WithInitialDelay(time.Millisecond))

	require.Error(t, err)
	assert.ErrorIs(t, err, persistent)
	// MaxRetries counts retries after the first attempt.
	assert.Equal(t, 4, attempts)
}

func TestValue_OnlyRetryable(t *testing.T) {
	t.Parallel()

	t.Run("retryable errors are retried", func(t *testing.T) {
		t.Parallel()
		attempts := 0
		_, err := Value(context.Background(), func(context.Context) (bool, error) {
			attempts++
			if attempts < 2 {
				return false, Retryable(errors.New("connection reset"))
			}
			return true, nil
		}, OnlyRetryable(), WithInitialDelay(time.Millisecond))

		require.NoError(t, err)
		assert.Equal(t, 2, attempts)
	})

	t.Run("plain errors are returned immediately", func(t *testing.T) {
		t.Parallel()
		attempts := 0
		plain := errors.New("bad request")
		_, err := Value(context.Background(), func(context.Context) (bool, error) {
			attempts++
			return false, plain
		}, OnlyRetryable(), WithInitialDelay(time.Millisecond))

		assert.Equal(t, plain, err)
		assert.Equal(t, 1, attempts)
	})
}

func TestValue_ContextCancellation(t *testing.T) {
	t.Parallel()
	attempts := 0

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Value(ctx, func(context.Context) (int, error) {
		attempts++
		return 0, errors.New("error")
	}, WithInitialDelay(10*time.Millisecond))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestWithExponentialBackoff_FatalError(t *testing.T) {
	t.Parallel()
	attempts := 0

	err := WithExponentialBackoff(context.Background(), func() error {
		attempts++
		return Fatal(errors.New("fatal error"))
	}, WithInitialDelay(time.Millisecond))

	require.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.Equal(t, 1, attempts)
}

func TestWithExponentialBackoff_BackoffCapped(t *testing.T) {
	t.Parallel()
	attempts := 0
	var delays []time.Duration
	last := time.Now()

	err := WithExponentialBackoff(context.Background(), func() error {
		attempts++
		now := time.Now()
		if attempts > 1 {
			delays = append(delays, now.Sub(last))
		}
		last = now
		if attempts < 4 {
			return errors.New("error")
		}
		return nil
	}, WithInitialDelay(20*time.Millisecond), WithMaxDelay(40*time.Millisecond))

	require.NoError(t, err)
	require.Len(t, delays, 3)
	for _, d := range delays {
		assert.GreaterOrEqual(t, d, 20*time.Millisecond)
	}
	// Third delay is capped at MaxDelay rather than 80ms.
	assert.Less(t, delays[2], 75*time.Millisecond)
}

func TestMarkers(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Fatal(nil))
	assert.NoError(t, Retryable(nil))

	base := errors.New("boom")
	fatal := Fatal(base)
	retryable := Retryable(base)

	assert.True(t, IsFatal(fatal))
	assert.False(t, IsRetryable(fatal))
	assert.True(t, IsRetryable(retryable))
	assert.False(t, IsFatal(retryable))
	assert.ErrorIs(t, fatal, base)
	assert.ErrorIs(t, retryable, base)
	assert.Equal(t, "boom", retryable.Error())
}
