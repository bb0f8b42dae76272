package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantagepoint/vantage-admin/internal/session"
	"github.com/vantagepoint/vantage-admin/internal/store"
)

func TestStores(t *testing.T) {
	db, err := store.NewInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	stores := map[string]session.Store{
		"memory": session.NewMemoryStore(),
		"badger": session.NewBadgerStore(db),
	}

	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.Get(ctx)
			assert.ErrorIs(t, err, session.ErrNoSession)

			require.NoError(t, s.Set(ctx, session.Tokens{Access: "a1", Refresh: "r1"}))
			got, err := s.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, session.Tokens{Access: "a1", Refresh: "r1"}, got)

			require.NoError(t, s.Set(ctx, session.Tokens{Access: "a2", Refresh: "r2"}))
			got, err = s.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, "a2", got.Access)

			require.NoError(t, s.Clear(ctx))
			_, err = s.Get(ctx)
			assert.ErrorIs(t, err, session.ErrNoSession)

			// Clearing twice is fine.
			require.NoError(t, s.Clear(ctx))
		})
	}
}
