package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Exchange is the single topic exchange every service publishes to
const Exchange = "orderguard.v1.topic"

// Routing keys for the lifecycle events crossing the exchange
const (
	UserCreated    = "user.created"
	UserUpdated    = "user.updated"
	OrderCreated   = "order.created"
	OrderCancelled = "order.cancelled"
)

// UserLifecycleKeys lists the routing keys the availability cache feeds on.
// Both event kinds carry a full snapshot and go through the same upsert
func UserLifecycleKeys() []string {
	return []string{UserCreated, UserUpdated}
}

// UserSnapshot is an immutable-per-arrival copy of a user's public fields
// as of the moment its event was observed. Replaced wholesale on every
// relevant event; never partially merged
type UserSnapshot struct {
	ID         string         `json:"id"`
	Attributes map[string]any `json:"attributes"`
	ObservedAt time.Time      `json:"observed_at"`
}

// ParseUserSnapshot decodes a raw event payload into a snapshot.
// The payload is the serialized entity itself; everything except the id
// is kept opaque. A missing or non-string id makes the message permanently
// unprocessable
func ParseUserSnapshot(body []byte, observedAt time.Time) (UserSnapshot, error) {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return UserSnapshot{}, fmt.Errorf("payload is not a JSON object: %v", err)
	}

	id, ok := fields["id"].(string)
	if !ok || id == "" {
		return UserSnapshot{}, fmt.Errorf("payload has no usable id field")
	}
	delete(fields, "id")

	return UserSnapshot{
		ID:         id,
		Attributes: fields,
		ObservedAt: observedAt,
	}, nil
}
