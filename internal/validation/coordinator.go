package validation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Guizzs26/go-order-guard/internal/events"
	"github.com/Guizzs26/go-order-guard/pkg/infra"
	"github.com/Guizzs26/go-order-guard/pkg/metrics"
)

// Result is the only thing callers ever see: retry and fallback mechanics
// stay invisible except through latency and the Unavailable outcome
type Result int

const (
	// Valid: the user exists, per the remote service or the cache
	Valid Result = iota
	// Invalid: the remote service definitively answered "does not exist"
	Invalid
	// Unavailable: the remote never answered definitively and the cache
	// holds nothing. "Cannot currently determine", not "does not exist"
	Unavailable
)

func (r Result) String() string {
	switch r {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "unavailable"
	}
}

// SnapshotReader is the read side of the availability cache
type SnapshotReader interface {
	Get(id string) (events.UserSnapshot, bool)
}

// Coordinator decides whether a user may anchor a new order. Primary path:
// a bounded-retry synchronous existence check against the user service.
// Fallback path, taken only after retry exhaustion: trust the last snapshot
// learned from lifecycle events. The trade is deliberate: possibly stale
// identity data in exchange for order creation surviving a remote outage
type Coordinator struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
	policy  infra.RetryPolicy
	cache   SnapshotReader
	logger  *slog.Logger
}

func NewCoordinator(baseURL string, timeout time.Duration, policy infra.RetryPolicy, cache SnapshotReader, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		// Per-attempt deadlines come from contexts, not a client-wide timeout
		client:  &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		policy:  policy,
		cache:   cache,
		logger:  logger,
	}
}

// Validate runs the existence check for userID and classifies the outcome
func (c *Coordinator) Validate(ctx context.Context, userID string) Result {
	l := c.logger.With("user_id", userID)

	exists, err := infra.Retry(ctx, c.policy, func(ctx context.Context) (bool, error) {
		return c.checkRemote(ctx, userID)
	})
	if err == nil {
		if exists {
			metrics.ValidationOutcomes.WithLabelValues("valid", "remote").Inc()
			return Valid
		}
		// Definitive rejection: retrying cannot change a "not found"
		metrics.ValidationOutcomes.WithLabelValues("invalid", "remote").Inc()
		return Invalid
	}

	l.Warn("Remote existence check exhausted, consulting availability cache",
		"attempts", c.policy.MaxAttempts,
		"error", err,
	)

	if snapshot, ok := c.cache.Get(userID); ok {
		metrics.FallbackLookups.WithLabelValues("hit").Inc()
		metrics.ValidationOutcomes.WithLabelValues("valid", "cache").Inc()
		l.Info("Validated from cached snapshot", "snapshot_observed_at", snapshot.ObservedAt)
		return Valid
	}

	metrics.FallbackLookups.WithLabelValues("miss").Inc()
	metrics.ValidationOutcomes.WithLabelValues("unavailable", "cache").Inc()
	return Unavailable
}

// checkRemote issues one bounded-timeout GET against the user service and
// classifies the response at the edge. Definitive answers (exists / not
// found) come back as values; only transient conditions come back as
// errors, which is what makes them retryable
func (c *Coordinator) checkRemote(ctx context.Context, userID string) (bool, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + "/users/" + url.PathEscape(userID)
	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build existence check request: %v", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		// Timeout cancels this attempt only; it is never a process-level failure
		metrics.RemoteCheckAttempts.WithLabelValues("retryable").Inc()
		return false, fmt.Errorf("existence check transport failure: %v", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		metrics.RemoteCheckAttempts.WithLabelValues("exists").Inc()
		return true, nil
	case resp.StatusCode >= 500:
		metrics.RemoteCheckAttempts.WithLabelValues("retryable").Inc()
		return false, fmt.Errorf("user service degraded: status %d", resp.StatusCode)
	default:
		// 404 and friends: a definitive no
		metrics.RemoteCheckAttempts.WithLabelValues("not_found").Inc()
		return false, nil
	}
}
