package broker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePublishClient struct {
	err   error
	calls int
	keys  []string
}

func (f *fakePublishClient) Publish(ctx context.Context, routingKey, correlationID string, body []byte) error {
	f.calls++
	f.keys = append(f.keys, routingKey)
	return f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEmit_HandsPayloadToBroker(t *testing.T) {
	client := &fakePublishClient{}
	p := NewEventPublisher(client, discardLogger())

	p.Emit(context.Background(), "order.created", map[string]string{"id": "o1"})

	assert.Equal(t, 1, client.calls)
	assert.Equal(t, []string{"order.created"}, client.keys)
}

func TestEmit_BrokerFailureIsSwallowed(t *testing.T) {
	client := &fakePublishClient{err: errors.New("broker down")}
	p := NewEventPublisher(client, discardLogger())

	// Must not panic or propagate: the caller's result is already decided
	p.Emit(context.Background(), "order.created", map[string]string{"id": "o1"})

	assert.Equal(t, 1, client.calls)
}

func TestEmit_NoRetryOnFailure(t *testing.T) {
	client := &fakePublishClient{err: errors.New("broker down")}
	p := NewEventPublisher(client, discardLogger())

	p.Emit(context.Background(), "order.created", map[string]string{"id": "o1"})
	p.Emit(context.Background(), "order.cancelled", map[string]string{"id": "o1"})

	// One attempt per event, never more
	assert.Equal(t, 2, client.calls)
}

func TestEmit_ToleratesMissingBrokerLink(t *testing.T) {
	p := NewEventPublisher(nil, discardLogger())

	assert.NotPanics(t, func() {
		p.Emit(context.Background(), "order.created", map[string]string{"id": "o1"})
	})
}

func TestEmit_UnserializablePayloadIsDropped(t *testing.T) {
	client := &fakePublishClient{}
	p := NewEventPublisher(client, discardLogger())

	p.Emit(context.Background(), "order.created", make(chan int))

	assert.Zero(t, client.calls)
}
