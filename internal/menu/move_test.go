package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantagepoint/vantage-admin/internal/domain"
)

// fixture:
//
//	a(0)
//	  a1(0)
//	  a2(1)
//	b(1)
//	c(2)
func fixture() []domain.MenuItem {
	return []domain.MenuItem{
		item("a", "A", "", 0),
		item("a1", "A1", "a", 0),
		item("a2", "A2", "a", 1),
		item("b", "B", "", 1),
		item("c", "C", "", 2),
	}
}

func byID(items []domain.MenuItem) map[string]domain.MenuItem {
	m := make(map[string]domain.MenuItem, len(items))
	for _, it := range items {
		m[it.ID] = it
	}
	return m
}

func TestMove(t *testing.T) {
	tests := []struct {
		name       string
		drag, drop string
		pos        Position
		wantParent string
		wantSort   int
		wantSorts  map[string]int
		wantRoots  []string
	}{
		{
			name: "before shifts target and later siblings",
			drag: "c", drop: "b", pos: Before,
			wantParent: "", wantSort: 1,
			wantSorts: map[string]int{"a": 0, "b": 2},
			wantRoots: []string{"a", "c", "b"},
		},
		{
			name: "after shifts only later siblings",
			drag: "a", drop: "b", pos: After,
			wantParent: "", wantSort: 2,
			wantSorts: map[string]int{"b": 1, "c": 3},
			wantRoots: []string{"b", "a", "c"},
		},
		{
			name: "inside appends after last child",
			drag: "c", drop: "a", pos: Inside,
			wantParent: "a", wantSort: 2,
			wantSorts: map[string]int{"a1": 0, "a2": 1},
			wantRoots: []string{"a", "b"},
		},
		{
			name: "inside empty parent starts at one",
			drag: "c", drop: "b", pos: Inside,
			wantParent: "b", wantSort: 1,
			wantRoots: []string{"a", "b"},
		},
		{
			name: "before child re-parents into child group",
			drag: "b", drop: "a2", pos: Before,
			wantParent: "a", wantSort: 1,
			wantSorts: map[string]int{"a1": 0, "a2": 2},
			wantRoots: []string{"a", "c"},
		},
		{
			name: "child out to root after",
			drag: "a1", drop: "c", pos: After,
			wantParent: "", wantSort: 3,
			wantRoots: []string{"a", "b", "c", "a1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := fixture()
			out, err := Move(items, tt.drag, tt.drop, tt.pos)
			require.NoError(t, err)

			got := byID(out)
			dragged := got[tt.drag]
			assert.Equal(t, tt.wantParent, dragged.Parent())
			assert.Equal(t, tt.wantSort, got[tt.drag].Sort)
			for id, sort := range tt.wantSorts {
				assert.Equal(t, sort, got[id].Sort, "sort of %s", id)
			}
			assert.Equal(t, tt.wantRoots, nodeIDs(BuildTree(out)))

			// Input untouched.
			assert.Equal(t, fixture(), items)
		})
	}
}

func TestMove_Errors(t *testing.T) {
	tests := []struct {
		name       string
		drag, drop string
		pos        Position
		wantErr    error
	}{
		{"unknown drag", "zz", "a", Before, ErrItemNotFound},
		{"unknown drop", "a", "zz", Before, ErrItemNotFound},
		{"inside itself", "a", "a", Inside, ErrCycle},
		{"inside own child", "a", "a1", Inside, ErrCycle},
		{"next to own child", "a", "a2", After, ErrCycle},
		{"bad position", "a", "b", Position("above"), ErrInvalidPosition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Move(fixture(), tt.drag, tt.drop, tt.pos)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMove_NextToItselfIsNoop(t *testing.T) {
	out, err := Move(fixture(), "b", "b", Before)
	require.NoError(t, err)
	assert.Equal(t, fixture(), out)
}

// The drag arithmetic and the structural save renumber differently but must
// agree on sibling order.
func TestMove_ConvergesWithFlatten(t *testing.T) {
	moves := []struct {
		drag, drop string
		pos        Position
	}{
		{"c", "a", Before},
		{"a1", "b", Inside},
		{"a2", "c", After},
		{"b", "a", After},
		{"a", "a1", Before},
	}

	items := fixture()
	for _, m := range moves {
		var err error
		items, err = Move(items, m.drag, m.drop, m.pos)
		require.NoError(t, err, "%s %s %s", m.drag, m.pos, m.drop)

		before := BuildTree(items)
		placements := FlattenTree(before)

		saved := make([]domain.MenuItem, 0, len(placements))
		for _, p := range placements {
			saved = append(saved, domain.MenuItem{ID: p.ID, ParentID: p.ParentID, Sort: p.Sort})
		}
		after := BuildTree(saved)

		assert.Equal(t, shape(before), shape(after))
		assert.Empty(t, Check(items))
	}
}

func TestParsePosition(t *testing.T) {
	p, err := ParsePosition(" Inside ")
	require.NoError(t, err)
	assert.Equal(t, Inside, p)

	_, err = ParsePosition("under")
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

// shape renders a tree as nested id lists for order comparisons.
func shape(nodes []*domain.MenuNode) []any {
	out := make([]any, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID, shape(n.Children))
	}
	return out
}
