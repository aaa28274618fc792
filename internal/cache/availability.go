package cache

import (
	"sync"

	"github.com/Guizzs26/go-order-guard/internal/events"
	"github.com/Guizzs26/go-order-guard/pkg/metrics"
)

// AvailabilityCache maps user ids to their last-consumed snapshot.
// Written only by the event consumer, read by the validation coordinator.
// There is no eviction: entries live for the life of the process
type AvailabilityCache struct {
	mu      sync.RWMutex
	entries map[string]events.UserSnapshot
}

func NewAvailabilityCache() *AvailabilityCache {
	return &AvailabilityCache{
		entries: make(map[string]events.UserSnapshot),
	}
}

// Set unconditionally replaces the snapshot for an id. The overwrite is
// the idempotency mechanism: reapplied or reordered events always leave a
// well-defined entry, at worst a stale one
func (c *AvailabilityCache) Set(id string, snapshot events.UserSnapshot) {
	c.mu.Lock()
	c.entries[id] = snapshot
	size := len(c.entries)
	c.mu.Unlock()

	metrics.CacheEntries.Set(float64(size))
}

func (c *AvailabilityCache) Get(id string) (events.UserSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot, ok := c.entries[id]
	return snapshot, ok
}

func (c *AvailabilityCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
