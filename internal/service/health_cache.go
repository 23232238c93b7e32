package service

import (
	"sync"
	"time"
)

// HealthCache keeps the last backend health result for a short time so that
// repeated /status commands do not all reach the backend.
type HealthCache struct {
	mu       sync.RWMutex
	status   *HealthStatus
	cachedAt time.Time
	ttl      time.Duration
	now      func() time.Time
}

func NewHealthCache(ttl time.Duration) *HealthCache {
	return &HealthCache{ttl: ttl, now: time.Now}
}

// Get returns a copy of the cached status, or nil if there is none or it expired.
func (c *HealthCache) Get() *HealthStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.status == nil || c.now().Sub(c.cachedAt) > c.ttl {
		return nil
	}
	s := *c.status
	return &s
}

func (c *HealthCache) Set(status *HealthStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := *status
	c.status = &s
	c.cachedAt = c.now()
}

// Invalidate drops the cached status, e.g. after the index was cleared.
func (c *HealthCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = nil
}
