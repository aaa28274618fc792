package infra

import (
	"context"
	"math/rand/v2"
	"time"
)

// RetryPolicy bounds how persistently an operation is retried.
// Immutable; build one per call site
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	JitterMax   time.Duration
}

// Delay returns the wait applied after a failed attempt (1-based):
// BaseDelay * 2^(attempt-1) plus a uniform jitter in [0, JitterMax).
// Jitter desynchronizes retry storms against a degraded dependency
func (p RetryPolicy) Delay(attempt int) time.Duration {
	backoff := p.BaseDelay << (attempt - 1)
	if p.JitterMax <= 0 {
		return backoff
	}
	return backoff + rand.N(p.JitterMax)
}

// Retry runs fn up to policy.MaxAttempts times, waiting the policy's
// backoff between failures. Every error from fn is treated as retryable:
// callers that reach a definitive answer must return it as a value, not
// an error. The final attempt's error is returned as-is, never wrapped.
// Waits are cooperative; ctx expiry aborts the wait and returns ctx.Err()
func Retry[T any](ctx context.Context, policy RetryPolicy, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if attempt == policy.MaxAttempts {
			break
		}

		select {
		case <-time.After(policy.Delay(attempt)):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	return zero, lastErr
}
