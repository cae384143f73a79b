// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package feeds

import (
	"sync"
	"time"

	"playgrid/internal/models"
)

// DefaultProviderTTL is how long a resolved provider row is reused
// before the next import looks it up again.
const DefaultProviderTTL = 5 * time.Minute

// Clock supplies the current time. Injectable so expiry is testable
// without sleeping.
type Clock func() time.Time

// ProviderCache memoizes provider rows by source URL for a fixed TTL.
// Imports within the window skip the database round-trip; entries expire
// at a fixed interval after insertion regardless of reads.
type ProviderCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     Clock
	entries map[string]providerEntry
}

type providerEntry struct {
	provider *models.Provider
	expires  time.Time
}

// NewProviderCache builds a cache with the given TTL. A nil clock
// defaults to time.Now.
func NewProviderCache(ttl time.Duration, now Clock) *ProviderCache {
	if now == nil {
		now = time.Now
	}
	return &ProviderCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]providerEntry),
	}
}

// Get returns the cached provider for sourceURL, or nil when absent
// or expired. Expired entries are dropped on access.
func (c *ProviderCache) Get(sourceURL string) *models.Provider {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[sourceURL]
	if !ok {
		return nil
	}
	if !c.now().Before(entry.expires) {
		delete(c.entries, sourceURL)
		return nil
	}
	return entry.provider
}

// Put stores a provider under its source URL with a fresh expiry.
func (c *ProviderCache) Put(sourceURL string, p *models.Provider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[sourceURL] = providerEntry{provider: p, expires: c.now().Add(c.ttl)}
}
