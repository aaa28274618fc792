package processor

import (
	"log/slog"
	"time"

	"github.com/Guizzs26/go-order-guard/internal/cache"
	"github.com/Guizzs26/go-order-guard/internal/events"
	"github.com/Guizzs26/go-order-guard/pkg/metrics"
)

// Action is the terminal state of one consumed message
type Action int

const (
	// Applied: snapshot written to the cache, message must be acked
	Applied Action = iota
	// Ignored: recognized as noise (unknown routing key), acked as a no-op
	Ignored
	// Rejected: permanently unprocessable, dropped without requeue
	Rejected
)

// SnapshotHandler applies user lifecycle events to the availability cache.
// It owns the per-message decision; transport acking stays in the consumer
type SnapshotHandler struct {
	cache  *cache.AvailabilityCache
	logger *slog.Logger
}

func NewSnapshotHandler(c *cache.AvailabilityCache, logger *slog.Logger) *SnapshotHandler {
	return &SnapshotHandler{cache: c, logger: logger}
}

// Handle runs one message through the state machine:
// parse -> classify routing key -> unconditional cache overwrite.
// A payload that does not parse will never parse; it is rejected for good.
// An unknown routing key is forward-compatible noise, not an error
func (h *SnapshotHandler) Handle(routingKey string, body []byte, observedAt time.Time) Action {
	start := time.Now()

	snapshot, err := events.ParseUserSnapshot(body, observedAt)
	if err != nil {
		h.logger.Error("Rejecting unparsable event", "routing_key", routingKey, "error", err)
		metrics.ConsumerMessages.WithLabelValues("malformed", routingKey).Inc()
		return Rejected
	}

	switch routingKey {
	case events.UserCreated, events.UserUpdated:
	default:
		h.logger.Debug("Ignoring unrecognized routing key", "routing_key", routingKey)
		metrics.ConsumerMessages.WithLabelValues("ignored", routingKey).Inc()
		return Ignored
	}

	// The overwrite is deliberately unconditional: duplicates and reordered
	// deliveries land on a well-defined final state instead of an error
	h.cache.Set(snapshot.ID, snapshot)

	metrics.ConsumerMessages.WithLabelValues("applied", routingKey).Inc()
	metrics.ConsumerLag.Observe(time.Since(start).Seconds())

	h.logger.Debug("Snapshot applied",
		"user_id", snapshot.ID,
		"routing_key", routingKey,
		"cache_size", h.cache.Len(),
	)
	return Applied
}
