package repository

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type lruEntry struct {
	value     string
	expiresAt time.Time
}

// LRUCache is a bounded in-process CacheRepository. Entries past their TTL
// are treated as misses and evicted on read.
type LRUCache struct {
	entries *lru.Cache[string, lruEntry]
	now     func() time.Time
}

func NewLRUCache(size int) (*LRUCache, error) {
	entries, err := lru.New[string, lruEntry](size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &LRUCache{entries: entries, now: time.Now}, nil
}

func (c *LRUCache) Get(_ context.Context, key string) (string, bool) {
	entry, ok := c.entries.Get(key)
	if !ok {
		return "", false
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.entries.Remove(key)
		return "", false
	}
	return entry.value, true
}

// Set stores value; a ttl of zero keeps it until evicted.
func (c *LRUCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	entry := lruEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.entries.Add(key, entry)
	return nil
}

func (c *LRUCache) Len() int {
	return c.entries.Len()
}
