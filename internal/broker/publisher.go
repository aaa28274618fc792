package broker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/Guizzs26/go-order-guard/pkg/metrics"
	"github.com/google/uuid"
)

// PublishClient is the slice of the broker client the publisher needs
type PublishClient interface {
	Publish(ctx context.Context, routingKey, correlationID string, body []byte) error
}

// EventPublisher emits domain events after a local state change commits.
// Emission is best-effort: by the time Emit runs, the entity is already
// committed and the caller's response already decided, so failures are
// logged and counted, never propagated and never retried
type EventPublisher struct {
	client PublishClient
	logger *slog.Logger
}

func NewEventPublisher(client PublishClient, logger *slog.Logger) *EventPublisher {
	return &EventPublisher{client: client, logger: logger}
}

// Emit serializes payload and hands it to the broker under routingKey.
// Safe to call when the broker never came up (nil client): the event is
// simply dropped and recorded
func (p *EventPublisher) Emit(ctx context.Context, routingKey string, payload any) {
	l := p.logger.With("routing_key", routingKey)

	body, err := json.Marshal(payload)
	if err != nil {
		l.Error("Dropping event: payload serialization failed", "error", err)
		metrics.PublishFailures.WithLabelValues(routingKey).Inc()
		return
	}

	if p.client == nil {
		l.Warn("Dropping event: no broker link")
		metrics.PublishFailures.WithLabelValues(routingKey).Inc()
		return
	}

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	correlationID := uuid.NewString()
	if err := p.client.Publish(publishCtx, routingKey, correlationID, body); err != nil {
		l.Error("Dropping event: broker publish failed",
			"correlation_id", correlationID,
			"error", err,
		)
		metrics.PublishFailures.WithLabelValues(routingKey).Inc()
		return
	}

	l.Debug("Event published", "correlation_id", correlationID)
}
