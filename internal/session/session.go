// Package session holds the access and refresh tokens of the signed-in user.
//
// The API client and the auth flow reach the tokens only through a Store, so
// tests can substitute an in-memory one and the CLI can persist them between
// invocations.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vantagepoint/vantage-admin/internal/domain"
	"github.com/vantagepoint/vantage-admin/internal/store"
)

// ErrNoSession is returned by Get when no tokens are stored.
var ErrNoSession = errors.New("no session")

// Tokens is the credential pair of a session.
type Tokens struct {
	Access  string
	Refresh string
}

// Store gets, sets and clears the current session tokens.
type Store interface {
	Get(ctx context.Context) (Tokens, error)
	Set(ctx context.Context, tokens Tokens) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps tokens in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens *Tokens
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context) (Tokens, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.tokens == nil {
		return Tokens{}, ErrNoSession
	}
	return *m.tokens, nil
}

// Set implements Store.
func (m *MemoryStore) Set(_ context.Context, tokens Tokens) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens = &tokens
	return nil
}

// Clear implements Store.
func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens = nil
	return nil
}

// BadgerStore persists tokens in the local database.
type BadgerStore struct {
	db *store.Store
}

// NewBadgerStore creates a store backed by db.
func NewBadgerStore(db *store.Store) *BadgerStore {
	return &BadgerStore{db: db}
}

// Get implements Store.
func (b *BadgerStore) Get(ctx context.Context) (Tokens, error) {
	pair, err := b.db.GetTokens(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return Tokens{}, ErrNoSession
	}
	if err != nil {
		return Tokens{}, fmt.Errorf("load session: %w", err)
	}
	return Tokens{Access: pair.AccessToken, Refresh: pair.RefreshToken}, nil
}

// Set implements Store.
func (b *BadgerStore) Set(ctx context.Context, tokens Tokens) error {
	return b.db.SetTokens(ctx, &domain.TokenPair{
		AccessToken:  tokens.Access,
		RefreshToken: tokens.Refresh,
	})
}

// Clear implements Store.
func (b *BadgerStore) Clear(ctx context.Context) error {
	return b.db.ClearTokens(ctx)
}
