package menu

import (
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/vantagepoint/vantage-admin/internal/domain"
)

// Hash returns a content hash of a flat list. Lists with the same items in
// the same order hash equal; timestamps are ignored.
func Hash(items []domain.MenuItem) uint64 {
	d := xxhash.New()
	var buf []byte
	for i := range items {
		it := &items[i]
		buf = buf[:0]
		buf = append(buf, it.ID...)
		buf = append(buf, 0)
		if it.ParentID != nil {
			buf = append(buf, 1)
			buf = append(buf, *it.ParentID...)
		}
		buf = append(buf, 0)
		buf = strconv.AppendInt(buf, int64(it.Sort), 10)
		buf = append(buf, 0)
		buf = append(buf, it.Name...)
		buf = append(buf, 0)
		buf = append(buf, it.Route...)
		buf = append(buf, 0)
		buf = append(buf, it.CustomURL...)
		buf = append(buf, 0)
		buf = append(buf, it.RouteParams...)
		buf = append(buf, 0xff)
		_, _ = d.Write(buf)
	}
	return d.Sum64()
}

type cached struct {
	hash uint64
	tree []*domain.MenuNode
}

// TreeCache memoizes BuildTree per menu type, keyed by the content hash of
// the flat list. Returned trees are shared and must be treated as read-only.
type TreeCache struct {
	mu      sync.Mutex
	entries map[string]cached
	hits    uint64
	misses  uint64
}

// NewTreeCache creates an empty cache.
func NewTreeCache() *TreeCache {
	return &TreeCache{entries: make(map[string]cached)}
}

// Tree returns the tree for items, rebuilding it only when the content of
// items differs from the last call for the same key.
func (c *TreeCache) Tree(key string, items []domain.MenuItem) []*domain.MenuNode {
	h := Hash(items)

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok && e.hash == h {
		c.hits++
		return e.tree
	}

	c.misses++
	tree := BuildTree(items)
	c.entries[key] = cached{hash: h, tree: tree}
	return tree
}

// Invalidate drops the cached tree for key.
func (c *TreeCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Stats returns the hit and miss counts.
func (c *TreeCache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
