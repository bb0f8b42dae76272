package store

import (
	"context"
	"fmt"

	"github.com/vantagepoint/vantage-admin/internal/domain"
)

// GetTokens returns the persisted token pair, or ErrNotFound.
func (s *Store) GetTokens(ctx context.Context) (*domain.TokenPair, error) {
	var tokens domain.TokenPair
	if err := s.get(ctx, []byte(sessionKey), &tokens); err != nil {
		return nil, err
	}
	return &tokens, nil
}

// SetTokens replaces the persisted token pair.
func (s *Store) SetTokens(ctx context.Context, tokens *domain.TokenPair) error {
	if err := s.set(ctx, []byte(sessionKey), tokens); err != nil {
		return fmt.Errorf("save tokens: %w", err)
	}
	return nil
}

// ClearTokens removes the persisted token pair.
func (s *Store) ClearTokens(ctx context.Context) error {
	if err := s.delete(ctx, []byte(sessionKey)); err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}
	return nil
}
