package server

import (
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mj1618/desktop-fences/internal/output"
)

// cacheEntry holds a rendered fence list with its timestamp.
type cacheEntry struct {
	fences    []output.FenceView
	timestamp time.Time
}

// ListCache provides a TTL-based cache for fence listings. Listing stats
// every tracked path, so repeated reads from an agent are served from here
// until a write invalidates them. Concurrent misses share one read.
type ListCache struct {
	mu    sync.Mutex
	entry *cacheEntry
	gen   uint64
	ttl   time.Duration
	reads singleflight.Group
}

// NewListCache creates a new cache. A ttl of 0 disables caching.
func NewListCache(ttl time.Duration) *ListCache {
	return &ListCache{ttl: ttl}
}

// Fences returns the cached listing if within TTL, otherwise calls read.
// A read that overlaps an Invalidate is returned but not cached.
func (c *ListCache) Fences(read func() ([]output.FenceView, error)) ([]output.FenceView, error) {
	if c.ttl == 0 {
		return read()
	}

	c.mu.Lock()
	if c.entry != nil && time.Since(c.entry.timestamp) < c.ttl {
		fences := c.entry.fences
		c.mu.Unlock()
		return fences, nil
	}
	gen := c.gen
	c.mu.Unlock()

	// keyed by generation so reads after an invalidation never join
	// one that started before it
	v, err, _ := c.reads.Do(strconv.FormatUint(gen, 10), func() (interface{}, error) {
		fences, err := read()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.entry = &cacheEntry{fences: fences, timestamp: time.Now()}
		}
		c.mu.Unlock()
		return fences, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]output.FenceView), nil
}

// Invalidate drops the cached listing.
func (c *ListCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = nil
	c.gen++
}
