package feed

import (
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
)

const (
	cacheTTL = 5 * time.Minute

	// maxCachedItems caps the item list of a cached document to bound
	// memory and replay cost.
	maxCachedItems = 50
)

type cacheEntry struct {
	feed      *gofeed.Feed
	expiresAt time.Time
}

// Cache is a keyed, TTL-bounded store of parsed feed documents. Entries are
// immutable snapshots; concurrent syncs of the same URL may race on
// population and last writer wins.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     cacheTTL,
	}
}

func (c *Cache) Get(url string) (*gofeed.Feed, bool) {
	c.mu.RLock()
	entry, ok := c.entries[url]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}

	return entry.feed, true
}

// Put stores a size-capped snapshot of the document and returns it.
func (c *Cache) Put(url string, parsed *gofeed.Feed) *gofeed.Feed {
	if len(parsed.Items) > maxCachedItems {
		capped := *parsed
		capped.Items = parsed.Items[:maxCachedItems]
		parsed = &capped
	}

	c.mu.Lock()
	c.entries[url] = cacheEntry{feed: parsed, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	return parsed
}
