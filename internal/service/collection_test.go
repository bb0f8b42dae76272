package service

import (
	"cmp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vantagepoint/vantage-admin/internal/client"
)

type record struct {
	ID   int
	Sort int
}

func recordIDs(items []record) []int {
	out := make([]int, 0, len(items))
	for _, r := range items {
		out = append(out, r.ID)
	}
	return out
}

func TestCollection_InsertFirst(t *testing.T) {
	c := NewCollection(func(r record) int { return r.ID }, nil)
	c.Reset(&client.Page[record]{Items: []record{{ID: 1}, {ID: 2}}, Pagination: client.Pagination{TotalCount: 2}})

	c.Insert(record{ID: 3})
	assert.Equal(t, []int{3, 1, 2}, recordIDs(c.Items()))
	assert.Equal(t, 3, c.Pagination().TotalCount)

	// Inserting a known record moves it instead of duplicating it.
	c.Insert(record{ID: 2})
	assert.Equal(t, []int{2, 3, 1}, recordIDs(c.Items()))
	assert.Equal(t, 3, c.Pagination().TotalCount)
}

func TestCollection_SortedInsertAndReplace(t *testing.T) {
	c := NewCollection(
		func(r record) int { return r.ID },
		func(a, b record) int { return cmp.Compare(a.Sort, b.Sort) },
	)
	c.Reset(&client.Page[record]{Items: []record{{ID: 1, Sort: 0}, {ID: 2, Sort: 10}}})

	c.Insert(record{ID: 3, Sort: 5})
	c.Insert(record{ID: 4, Sort: 100})
	c.Insert(record{ID: 5, Sort: 0})
	assert.Equal(t, []int{1, 5, 3, 2, 4}, recordIDs(c.Items()))

	c.Replace(record{ID: 1, Sort: 50})
	assert.Equal(t, []int{5, 3, 2, 1, 4}, recordIDs(c.Items()))

	c.Replace(record{ID: 99, Sort: 1})
	assert.Equal(t, 5, c.Len())
}

func TestCollection_Remove(t *testing.T) {
	c := NewCollection(func(r record) int { return r.ID }, nil)
	c.Reset(&client.Page[record]{Items: []record{{ID: 1}, {ID: 2}, {ID: 3}}, Pagination: client.Pagination{TotalCount: 1}})

	c.Remove(1, 3, 42)
	assert.Equal(t, []int{2}, recordIDs(c.Items()))
	assert.Equal(t, 0, c.Pagination().TotalCount)

	_, ok := c.Get(1)
	assert.False(t, ok)
	r, ok := c.Get(2)
	assert.True(t, ok)
	assert.Equal(t, 2, r.ID)
}

func TestCollection_ItemsIsACopy(t *testing.T) {
	c := NewCollection(func(r record) int { return r.ID }, nil)
	c.Reset(&client.Page[record]{Items: []record{{ID: 1}}})

	items := c.Items()
	items[0].ID = 100

	_, ok := c.Get(1)
	assert.True(t, ok)
}
