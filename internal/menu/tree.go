// Package menu converts flat parent-pointer menu item lists into trees and
// back, and computes drag-and-drop placement.
//
// The flat list is authoritative. Trees are pure projections of it and are
// never patched in place; after any change the tree is rebuilt.
package menu

import (
	"slices"

	"github.com/vantagepoint/vantage-admin/internal/domain"
)

// BuildTree converts a flat list into a forest of nodes.
//
// An item whose parent id does not resolve within items becomes a root. An
// item whose parent link would close a cycle with the links of the items
// before it also becomes a root, so every cycle is cut exactly once. Every
// sibling group is
// stably sorted by sort, ascending. Duplicate ids keep their first item.
// The result is never nil and every node has a non-nil Children slice.
func BuildTree(items []domain.MenuItem) []*domain.MenuNode {
	nodes := make(map[string]*domain.MenuNode, len(items))
	order := make([]int, 0, len(items))
	for i := range items {
		it := &items[i]
		if _, dup := nodes[it.ID]; dup {
			continue
		}
		nodes[it.ID] = &domain.MenuNode{
			ID:        it.ID,
			Name:      it.Name,
			Route:     it.Route,
			CustomURL: it.CustomURL,
			Sort:      it.Sort,
			Children:  []*domain.MenuNode{},
		}
		order = append(order, i)
	}

	parents := make(map[string]string, len(items))
	for _, i := range order {
		it := &items[i]
		if p := it.Parent(); p != "" {
			if _, ok := nodes[p]; ok && !reaches(parents, p, it.ID) {
				parents[it.ID] = p
			}
		}
	}

	roots := []*domain.MenuNode{}
	for _, i := range order {
		node := nodes[items[i].ID]
		if p, ok := parents[node.ID]; ok {
			parent := nodes[p]
			parent.Children = append(parent.Children, node)
			continue
		}
		roots = append(roots, node)
	}

	sortNodes(roots)
	return roots
}

// reaches reports whether walking up from id through parents arrives at target.
func reaches(parents map[string]string, id, target string) bool {
	for cur, ok := id, true; ok; cur, ok = parents[cur] {
		if cur == target {
			return true
		}
	}
	return false
}

func sortNodes(nodes []*domain.MenuNode) {
	slices.SortStableFunc(nodes, func(a, b *domain.MenuNode) int {
		return a.Sort - b.Sort
	})
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}

// FlattenTree walks the forest depth first and returns one placement per
// node. Sort becomes the node's 0-based index among its siblings and ParentID
// its immediate ancestor, nil at the root. Original sort values are discarded.
func FlattenTree(roots []*domain.MenuNode) []domain.Placement {
	out := []domain.Placement{}
	var walk func(nodes []*domain.MenuNode, parent *string)
	walk = func(nodes []*domain.MenuNode, parent *string) {
		for i, n := range nodes {
			out = append(out, domain.Placement{ID: n.ID, ParentID: parent, Sort: i})
			if len(n.Children) > 0 {
				id := n.ID
				walk(n.Children, &id)
			}
		}
	}
	walk(roots, nil)
	return out
}

// Find returns the node with id, searching depth first.
func Find(roots []*domain.MenuNode, id string) *domain.MenuNode {
	for _, n := range roots {
		if n.ID == id {
			return n
		}
		if found := Find(n.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// Walk calls fn for every node depth first with its depth, starting at 0.
func Walk(roots []*domain.MenuNode, fn func(n *domain.MenuNode, depth int)) {
	var walk func(nodes []*domain.MenuNode, depth int)
	walk = func(nodes []*domain.MenuNode, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			walk(n.Children, depth+1)
		}
	}
	walk(roots, 0)
}
