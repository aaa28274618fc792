package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserSnapshot_ValidPayload(t *testing.T) {
	observedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	body := []byte(`{"id":"u1","name":"Alice","email":"alice@example.com"}`)

	snap, err := ParseUserSnapshot(body, observedAt)
	require.NoError(t, err)

	assert.Equal(t, "u1", snap.ID)
	assert.Equal(t, observedAt, snap.ObservedAt)
	assert.Equal(t, "Alice", snap.Attributes["name"])
	// The id is promoted to the key, not duplicated in the attributes
	assert.NotContains(t, snap.Attributes, "id")
}

func TestParseUserSnapshot_NotJSON(t *testing.T) {
	_, err := ParseUserSnapshot([]byte("not json at all"), time.Now())
	assert.Error(t, err)
}

func TestParseUserSnapshot_MissingID(t *testing.T) {
	_, err := ParseUserSnapshot([]byte(`{"name":"Alice"}`), time.Now())
	assert.Error(t, err)
}

func TestParseUserSnapshot_NonStringID(t *testing.T) {
	_, err := ParseUserSnapshot([]byte(`{"id":42,"name":"Alice"}`), time.Now())
	assert.Error(t, err)
}
