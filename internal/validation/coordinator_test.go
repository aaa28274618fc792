package validation

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Guizzs26/go-order-guard/internal/cache"
	"github.com/Guizzs26/go-order-guard/internal/events"
	"github.com/Guizzs26/go-order-guard/pkg/infra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() infra.RetryPolicy {
	return infra.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, JitterMax: time.Millisecond}
}

func newCoordinator(t *testing.T, remote http.HandlerFunc, c SnapshotReader) (*Coordinator, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		remote(w, r)
	}))
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCoordinator(srv.URL, 100*time.Millisecond, testPolicy(), c, logger), &calls
}

func TestValidate_RemoteAnswersOnFirstAttempt(t *testing.T) {
	coord, calls := newCoordinator(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, cache.NewAvailabilityCache())

	result := coord.Validate(context.Background(), "u1")

	assert.Equal(t, Valid, result)
	assert.Equal(t, int32(1), calls.Load())
}

func TestValidate_RemoteRecoversWithinRetryBudget(t *testing.T) {
	var attempt atomic.Int32
	coord, calls := newCoordinator(t, func(w http.ResponseWriter, r *http.Request) {
		if attempt.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}, cache.NewAvailabilityCache())

	result := coord.Validate(context.Background(), "u1")

	assert.Equal(t, Valid, result)
	assert.Equal(t, int32(3), calls.Load())
}

func TestValidate_ExhaustionFallsBackToCacheHit(t *testing.T) {
	c := cache.NewAvailabilityCache()
	c.Set("u1", events.UserSnapshot{ID: "u1", ObservedAt: time.Now()})

	coord, calls := newCoordinator(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, c)

	result := coord.Validate(context.Background(), "u1")

	assert.Equal(t, Valid, result)
	assert.Equal(t, int32(3), calls.Load())
}

func TestValidate_ExhaustionWithCacheMissIsUnavailable(t *testing.T) {
	coord, calls := newCoordinator(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, cache.NewAvailabilityCache())

	result := coord.Validate(context.Background(), "u2")

	assert.Equal(t, Unavailable, result)
	assert.Equal(t, int32(3), calls.Load())
}

func TestValidate_DefinitiveNotFoundIsNeverRetried(t *testing.T) {
	c := cache.NewAvailabilityCache()
	// Even a cached snapshot must not override a definitive remote answer
	c.Set("u1", events.UserSnapshot{ID: "u1", ObservedAt: time.Now()})

	coord, calls := newCoordinator(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, c)

	result := coord.Validate(context.Background(), "u1")

	assert.Equal(t, Invalid, result)
	assert.Equal(t, int32(1), calls.Load())
}

func TestValidate_PerAttemptTimeoutIsRetryable(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	c := cache.NewAvailabilityCache()
	c.Set("u1", events.UserSnapshot{ID: "u1", ObservedAt: time.Now()})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	coord := NewCoordinator(srv.URL, 20*time.Millisecond, testPolicy(), c, logger)

	result := coord.Validate(context.Background(), "u1")

	require.Equal(t, Valid, result)
	assert.Equal(t, int32(3), calls.Load())
}

func TestResult_String(t *testing.T) {
	assert.Equal(t, "valid", Valid.String())
	assert.Equal(t, "invalid", Invalid.String())
	assert.Equal(t, "unavailable", Unavailable.String())
}
