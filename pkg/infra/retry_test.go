package infra

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry_PermanentFailureInvokesExactlyMaxAttempts(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}

	calls := 0
	_, err := Retry(context.Background(), policy, func(ctx context.Context) (string, error) {
		calls++
		return "", fmt.Errorf("attempt %d failed", calls)
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	// The final cause surfaces unwrapped
	assert.EqualError(t, err, "attempt 3 failed")
}

func TestRetry_SuccessOnFirstAttemptStopsImmediately(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 5, BaseDelay: time.Millisecond}

	calls := 0
	v, err := Retry(context.Background(), policy, func(ctx context.Context) (int, error) {
		calls++
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)
}

func TestRetry_EventualSuccessReturnsValue(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, JitterMax: time.Millisecond}

	calls := 0
	v, err := Retry(context.Background(), policy, func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 3, calls)
}

func TestRetry_ContextCancellationAbortsWait(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Hour}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	calls := 0
	start := time.Now()
	_, err := Retry(ctx, policy, func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("transient")
	})

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, calls)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRetryPolicy_DelayGrowsExponentiallyWithinJitterBounds(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 4, BaseDelay: 100 * time.Millisecond, JitterMax: 50 * time.Millisecond}

	for attempt := 1; attempt <= 3; attempt++ {
		floor := policy.BaseDelay << (attempt - 1)
		ceiling := floor + policy.JitterMax

		for range 100 {
			d := policy.Delay(attempt)
			assert.GreaterOrEqual(t, d, floor, "attempt %d", attempt)
			assert.Less(t, d, ceiling, "attempt %d", attempt)
		}
	}
}

func TestRetryPolicy_NoJitterIsDeterministic(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond}

	assert.Equal(t, 500*time.Millisecond, policy.Delay(1))
	assert.Equal(t, 1000*time.Millisecond, policy.Delay(2))
	assert.Equal(t, 2000*time.Millisecond, policy.Delay(3))
}
