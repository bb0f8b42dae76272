package service

import (
	"slices"
	"sync"

	"github.com/vantagepoint/vantage-admin/internal/client"
)

// Collection mirrors the last list page received from the backend and applies
// the results of later mutations to it without refetching.
type Collection[T any] struct {
	mu         sync.RWMutex
	items      []T
	pagination client.Pagination

	key func(T) int
	cmp func(a, b T) int
}

// NewCollection creates an empty mirror. key returns the record id. When cmp
// is nil new records are inserted first, otherwise the mirror is kept sorted
// by cmp.
func NewCollection[T any](key func(T) int, cmp func(a, b T) int) *Collection[T] {
	return &Collection[T]{key: key, cmp: cmp}
}

// Reset replaces the mirror with a freshly fetched page.
func (c *Collection[T]) Reset(page *client.Page[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = slices.Clone(page.Items)
	c.pagination = page.Pagination
}

// Items returns a copy of the mirrored records.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// Pagination returns the pagination of the mirrored page.
func (c *Collection[T]) Pagination() client.Pagination {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pagination
}

// Len returns the number of mirrored records.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Get returns the record with id.
func (c *Collection[T]) Get(id int) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.index(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Insert adds a created record. A record already present is replaced.
func (c *Collection[T]) Insert(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(c.key(item)); i >= 0 {
		c.items = slices.Delete(c.items, i, i+1)
	} else {
		c.pagination.TotalCount++
	}

	if c.cmp == nil {
		c.items = slices.Insert(c.items, 0, item)
		return
	}
	// After every record that does not sort later.
	pos := slices.IndexFunc(c.items, func(other T) bool { return c.cmp(other, item) > 0 })
	if pos < 0 {
		pos = len(c.items)
	}
	c.items = slices.Insert(c.items, pos, item)
}

// Replace swaps an updated record in place. Unknown records are ignored.
func (c *Collection[T]) Replace(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(c.key(item))
	if i < 0 {
		return
	}
	c.items[i] = item
	if c.cmp != nil {
		slices.SortStableFunc(c.items, c.cmp)
	}
}

// Remove drops the records with the given ids.
func (c *Collection[T]) Remove(ids ...int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := len(c.items)
	c.items = slices.DeleteFunc(c.items, func(item T) bool {
		return slices.Contains(ids, c.key(item))
	})
	c.pagination.TotalCount = max(0, c.pagination.TotalCount-(before-len(c.items)))
}

func (c *Collection[T]) index(id int) int {
	return slices.IndexFunc(c.items, func(item T) bool { return c.key(item) == id })
}
