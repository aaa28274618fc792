package broker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Guizzs26/go-order-guard/internal/events"
	"github.com/Guizzs26/go-order-guard/internal/processor"
	amqp "github.com/rabbitmq/amqp091-go"
)

// QueueName is the durable queue feeding the availability cache
const QueueName = "orders.user-cache"

// EventConsumer manages the connection and message flow from the broker
type EventConsumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	handler *processor.SnapshotHandler
	logger  *slog.Logger
}

// NewEventConsumer dials the broker and prepares a channel for consumption
func NewEventConsumer(url string, handler *processor.SnapshotHandler, logger *slog.Logger) (*EventConsumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %v", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %v", err)
	}

	// QoS: Prefetch 1 keeps cache writes in broker delivery order
	if err := ch.Qos(1, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %v", err)
	}

	return &EventConsumer{
		conn:    conn,
		channel: ch,
		handler: handler,
		logger:  logger,
	}, nil
}

// Listen binds the durable queue to every user lifecycle routing key and
// runs the consumption loop until ctx is cancelled or the link drops
func (c *EventConsumer) Listen(ctx context.Context) error {
	if err := c.channel.ExchangeDeclare(events.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare topic exchange: %v", err)
	}

	// Durable queue survives broker restarts; one queue feeds both event kinds
	q, err := c.channel.QueueDeclare(QueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %v", err)
	}

	for _, key := range events.UserLifecycleKeys() {
		if err := c.channel.QueueBind(q.Name, key, events.Exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue to %s: %v", key, err)
		}
	}

	msgs, err := c.channel.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %v", err)
	}

	c.logger.Info("Consumer is online and waiting for lifecycle events",
		"queue", q.Name,
		"routing_keys", events.UserLifecycleKeys(),
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			switch c.handler.Handle(d.RoutingKey, d.Body, time.Now()) {
			case processor.Rejected:
				// Drop for good: a malformed message never becomes parseable
				if err := d.Nack(false, false); err != nil {
					c.logger.Error("Failed to Nack message", "error", err)
				}
			default:
				if err := d.Ack(false); err != nil {
					c.logger.Error("Failed to Ack message", "error", err)
				}
			}
		}
	}
}

// Close gracefully terminates RabbitMQ resources
func (c *EventConsumer) Close() {
	c.logger.Info("Shutting down event consumer")
	c.channel.Close()
	c.conn.Close()
}
