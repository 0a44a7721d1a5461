package server

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mj1618/a11y-bridge/internal/model"
)

// TreeCache holds the last display tree read from the bridge. Concurrent
// misses share one read, and any write tool invalidates it.
type TreeCache struct {
	group singleflight.Group
	ttl   time.Duration

	mu    sync.Mutex
	gen   uint64
	tree  []model.Element
	stamp time.Time
	valid bool
}

// NewTreeCache creates a new cache. A ttl of 0 disables caching, though
// concurrent reads are still collapsed.
func NewTreeCache(ttl time.Duration) *TreeCache {
	return &TreeCache{ttl: ttl}
}

// Tree returns the cached tree if within TTL, otherwise calls read. The
// result is shared between callers and must not be modified.
func (c *TreeCache) Tree(read func() []model.Element) []model.Element {
	c.mu.Lock()
	if c.valid && c.ttl > 0 && time.Since(c.stamp) < c.ttl {
		tree := c.tree
		c.mu.Unlock()
		return tree
	}
	gen := c.gen
	c.mu.Unlock()

	v, _, _ := c.group.Do("tree", func() (any, error) {
		tree := read()
		c.mu.Lock()
		// A write since the read started makes this result stale.
		if c.gen == gen {
			c.tree, c.stamp, c.valid = tree, time.Now(), true
		}
		c.mu.Unlock()
		return tree, nil
	})
	return v.([]model.Element)
}

// Invalidate drops the cached tree.
func (c *TreeCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.tree, c.valid = nil, false
}
