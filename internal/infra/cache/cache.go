// Package cache holds recently fetched result envelopes so repeated
// list requests do not hammer an upstream that already struggles under
// load. In production this could be backed by Redis.
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/hospvida/hospital-admin-bff/internal/domain"
)

type entry struct {
	env       *domain.Envelope
	expiresAt time.Time
}

// EnvelopeCache is a thread-safe in-memory TTL cache for result
// envelopes. Only successful envelopes are stored; failures must reach
// the caller every time.
type EnvelopeCache struct {
	mu    sync.RWMutex
	items map[string]entry
	ttl   time.Duration
	stop  chan struct{}
}

// New creates an envelope cache with the given TTL and starts its
// cleanup goroutine.
func New(ttl time.Duration) *EnvelopeCache {
	c := &EnvelopeCache{
		items: make(map[string]entry),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}
	go c.cleanup()
	return c
}

// Get returns the cached envelope for key, or false when absent or
// expired.
func (c *EnvelopeCache) Get(key string) (*domain.Envelope, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.items[key]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.env, true
}

// Put stores an envelope under key. Failed envelopes are ignored.
func (c *EnvelopeCache) Put(key string, env *domain.Envelope) {
	if env == nil || !env.Success {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry{env: env, expiresAt: time.Now().Add(c.ttl)}
}

// Invalidate drops a single key.
func (c *EnvelopeCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// InvalidatePrefix drops every key under a resource prefix, e.g.
// "patients:" after any patient write.
func (c *EnvelopeCache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
}

// Close stops the cleanup goroutine.
func (c *EnvelopeCache) Close() {
	close(c.stop)
}

func (c *EnvelopeCache) cleanup() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for k, e := range c.items {
				if now.After(e.expiresAt) {
					delete(c.items, k)
				}
			}
			c.mu.Unlock()
		}
	}
}
