package service

import (
	"context"
	"log/slog"

	"github.com/vantagepoint/vantage-admin/internal/domain"
	"github.com/vantagepoint/vantage-admin/internal/validation"
)

// AuthService signs the console user in and out.
type AuthService struct {
	api       AuthAPI
	validator *validation.Validator
	logger    *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(api AuthAPI, v *validation.Validator, logger *slog.Logger) *AuthService {
	return &AuthService{api: api, validator: v, logger: orDiscard(logger)}
}

// Login validates the credentials and exchanges them for a session.
func (s *AuthService) Login(ctx context.Context, form *validation.LoginForm) (*domain.TokenPair, error) {
	return submit(ctx, s.validator, s.logger, "auth.login", form,
		func(ctx context.Context) (*domain.TokenPair, error) {
			return s.api.Login(ctx, *form)
		})
}

// Logout ends the session.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.api.Logout(ctx); err != nil {
		return err
	}
	s.logger.Info("signed out")
	return nil
}

// Authenticated reports whether a session is present.
func (s *AuthService) Authenticated(ctx context.Context) bool {
	return s.api.Authenticated(ctx)
}
