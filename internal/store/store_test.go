package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantagepoint/vantage-admin/internal/domain"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func ids(items []domain.MenuItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestTokens_RoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.GetTokens(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SetTokens(ctx, &domain.TokenPair{AccessToken: "a", RefreshToken: "r"}))
	got, err := s.GetTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", got.AccessToken)
	assert.Equal(t, "r", got.RefreshToken)

	require.NoError(t, s.ClearTokens(ctx))
	_, err = s.GetTokens(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokens_PersistAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := New(dir, nil)
	require.NoError(t, err)
	require.NoError(t, s.SetTokens(ctx, &domain.TokenPair{AccessToken: "a", RefreshToken: "r"}))
	require.NoError(t, s.Close())

	s, err = New(dir, nil)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r", got.RefreshToken)
}

func TestMenuItems_AddListOrdering(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddMenuItem(ctx, "main", &domain.MenuItem{ID: "b", Name: "B", Sort: 1}))
	require.NoError(t, s.AddMenuItem(ctx, "main", &domain.MenuItem{ID: "a", Name: "A", Sort: 0}))
	require.NoError(t, s.AddMenuItem(ctx, "main", &domain.MenuItem{ID: "c", Name: "C", ParentID: domain.StringPtr("a"), Sort: 0}))
	require.NoError(t, s.AddMenuItem(ctx, "footer", &domain.MenuItem{ID: "f", Name: "F"}))

	items, err := s.ListMenuItems(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, ids(items))
	assert.False(t, items[0].CreatedAt.IsZero())

	footer, err := s.ListMenuItems(ctx, "footer")
	require.NoError(t, err)
	assert.Equal(t, []string{"f"}, ids(footer))
}

func TestMenuItems_AddGeneratesID(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	item := &domain.MenuItem{Name: "Главная"}
	require.NoError(t, s.AddMenuItem(ctx, "main", item))
	assert.NotEmpty(t, item.ID)

	got, err := s.GetMenuItem(ctx, "main", item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Главная", got.Name)
}

func TestMenuItems_AddRejects(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddMenuItem(ctx, "main", &domain.MenuItem{ID: "a", Name: "A"}))

	err := s.AddMenuItem(ctx, "main", &domain.MenuItem{ID: "a", Name: "A2"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	err = s.AddMenuItem(ctx, "main", &domain.MenuItem{ID: "x", Name: "X", ParentID: domain.StringPtr("missing")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = s.AddMenuItem(ctx, "bad:type", &domain.MenuItem{ID: "y", Name: "Y"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMenuItems_Update(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	item := &domain.MenuItem{ID: "a", Name: "A"}
	require.NoError(t, s.AddMenuItem(ctx, "main", item))
	created := item.CreatedAt

	require.NoError(t, s.UpdateMenuItem(ctx, "main", &domain.MenuItem{ID: "a", Name: "Renamed"}))
	got, err := s.GetMenuItem(ctx, "main", "a")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.True(t, created.Equal(got.CreatedAt.Time))

	err = s.UpdateMenuItem(ctx, "main", &domain.MenuItem{ID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.UpdateMenuItem(ctx, "main", &domain.MenuItem{ID: "a", ParentID: domain.StringPtr("a")})
	assert.ErrorIs(t, err, ErrParentCycle)
}

func TestMenuItems_UpdateRejectsDescendantParent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddMenuItem(ctx, "main", &domain.MenuItem{ID: "a", Name: "A"}))
	require.NoError(t, s.AddMenuItem(ctx, "main", &domain.MenuItem{ID: "b", Name: "B", ParentID: domain.StringPtr("a")}))
	require.NoError(t, s.AddMenuItem(ctx, "main", &domain.MenuItem{ID: "c", Name: "C", ParentID: domain.StringPtr("b")}))

	tests := []struct {
		name   string
		parent string
	}{
		{"direct child", "b"},
		{"grandchild", "c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.UpdateMenuItem(ctx, "main", &domain.MenuItem{ID: "a", Name: "A", ParentID: domain.StringPtr(tt.parent)})
			assert.ErrorIs(t, err, ErrParentCycle)
		})
	}

	got, err := s.GetMenuItem(ctx, "main", "a")
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)

	// Re-parenting under an unrelated branch is still allowed.
	require.NoError(t, s.AddMenuItem(ctx, "main", &domain.MenuItem{ID: "d", Name: "D"}))
	require.NoError(t, s.UpdateMenuItem(ctx, "main", &domain.MenuItem{ID: "c", Name: "C", ParentID: domain.StringPtr("d")}))
}

func TestMenuItems_UpdateStopsAtLoopingChain(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceMenuItems(ctx, "main", []domain.MenuItem{
		{ID: "x", Name: "X", ParentID: domain.StringPtr("y")},
		{ID: "y", Name: "Y", ParentID: domain.StringPtr("x")},
		{ID: "z", Name: "Z"},
	}))

	require.NoError(t, s.UpdateMenuItem(ctx, "main", &domain.MenuItem{ID: "z", Name: "Z", ParentID: domain.StringPtr("x")}))
}

func TestMenuItems_RemoveCascades(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddMenuItem(ctx, "main", &domain.MenuItem{ID: "root", Name: "Root"}))
	require.NoError(t, s.AddMenuItem(ctx, "main", &domain.MenuItem{ID: "child", Name: "Child", ParentID: domain.StringPtr("root")}))
	require.NoError(t, s.AddMenuItem(ctx, "main", &domain.MenuItem{ID: "grand", Name: "Grand", ParentID: domain.StringPtr("child")}))
	require.NoError(t, s.AddMenuItem(ctx, "main", &domain.MenuItem{ID: "other", Name: "Other", Sort: 1}))

	removed, err := s.RemoveMenuItem(ctx, "main", "root")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"root", "child", "grand"}, removed)

	items, err := s.ListMenuItems(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, []string{"other"}, ids(items))

	removed, err = s.RemoveMenuItem(ctx, "main", "root")
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestMenuItems_ApplyPlacements(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddMenuItem(ctx, "main", &domain.MenuItem{ID: "a", Name: "A", Sort: 5}))
	require.NoError(t, s.AddMenuItem(ctx, "main", &domain.MenuItem{ID: "b", Name: "B", Sort: 9}))

	err := s.ApplyPlacements(ctx, "main", []domain.Placement{
		{ID: "b", ParentID: nil, Sort: 0},
		{ID: "a", ParentID: domain.StringPtr("b"), Sort: 0},
	}, false)
	require.NoError(t, err)

	a, err := s.GetMenuItem(ctx, "main", "a")
	require.NoError(t, err)
	assert.Equal(t, "b", a.Parent())
	assert.Equal(t, 0, a.Sort)

	err = s.ApplyPlacements(ctx, "main", []domain.Placement{{ID: "ghost"}}, true)
	assert.ErrorIs(t, err, ErrNotFound)

	unsaved, err := s.MenuUnsaved(ctx, "main")
	require.NoError(t, err)
	assert.False(t, unsaved, "failed placement leaves the flag untouched")
}

func TestMenuItems_UnsavedFlagSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := New(dir, nil)
	require.NoError(t, err)
	require.NoError(t, s.AddMenuItem(ctx, "main", &domain.MenuItem{ID: "a", Name: "A"}))
	require.NoError(t, s.ApplyPlacements(ctx, "main", []domain.Placement{{ID: "a", Sort: 3}}, true))
	require.NoError(t, s.Close())

	s, err = New(dir, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	unsaved, err := s.MenuUnsaved(ctx, "main")
	require.NoError(t, err)
	assert.True(t, unsaved)

	other, err := s.MenuUnsaved(ctx, "footer")
	require.NoError(t, err)
	assert.False(t, other)

	items, err := s.ListMenuItems(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(items))

	require.NoError(t, s.ApplyPlacements(ctx, "main", nil, false))
	unsaved, err = s.MenuUnsaved(ctx, "main")
	require.NoError(t, err)
	assert.False(t, unsaved)

	require.NoError(t, s.ApplyPlacements(ctx, "main", nil, true))
	require.NoError(t, s.ClearMenuItems(ctx, "main"))
	unsaved, err = s.MenuUnsaved(ctx, "main")
	require.NoError(t, err)
	assert.False(t, unsaved)
}

func TestMenuItems_ReplaceAndClear(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddMenuItem(ctx, "main", &domain.MenuItem{ID: "old", Name: "Old"}))
	require.NoError(t, s.ReplaceMenuItems(ctx, "main", []domain.MenuItem{
		{ID: "n1", Name: "N1", Sort: 0},
		{ID: "n2", Name: "N2", Sort: 1},
	}))

	items, err := s.ListMenuItems(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, []string{"n1", "n2"}, ids(items))

	require.NoError(t, s.ClearMenuItems(ctx, "main"))
	items, err = s.ListMenuItems(ctx, "main")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestNewInMemory(t *testing.T) {
	s, err := NewInMemory(nil)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.AddMenuItem(context.Background(), "main", &domain.MenuItem{ID: "a", Name: "A"}))
	items, err := s.ListMenuItems(context.Background(), "main")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestContextCancelled(t *testing.T) {
	s := setupTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListMenuItems(ctx, "main")
	assert.ErrorIs(t, err, context.Canceled)
}
