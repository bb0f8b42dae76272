package client

import (
	"context"
	"errors"
	"net/http"

	"github.com/vantagepoint/vantage-admin/internal/domain"
	"github.com/vantagepoint/vantage-admin/internal/session"
	"github.com/vantagepoint/vantage-admin/internal/validation"
)

// Login exchanges credentials for a token pair and stores it in the session.
func (c *Client) Login(ctx context.Context, creds validation.LoginForm) (*domain.TokenPair, error) {
	const op = "auth.login"

	form := NewForm().
		Set("email", creds.Email).
		Set("password", creds.Password)

	var pair domain.TokenPair
	_, err := c.call(ctx, op, request{
		method: http.MethodPost,
		path:   "/auth/token-generate",
		form:   form,
	}, &pair)
	if err != nil {
		return nil, err
	}
	if pair.AccessToken == "" {
		return nil, wrapError(op, errors.New("empty access token"))
	}

	if err := c.session.Set(ctx, session.Tokens{Access: pair.AccessToken, Refresh: pair.RefreshToken}); err != nil {
		return nil, wrapError(op, err)
	}
	c.logger.Info("signed in", "email", creds.Email)
	return &pair, nil
}

// Logout clears the session. The backend keeps no server-side logout.
func (c *Client) Logout(ctx context.Context) error {
	return wrapError("auth.logout", c.session.Clear(ctx))
}

// Authenticated reports whether the session holds an access token.
func (c *Client) Authenticated(ctx context.Context) bool {
	tokens, err := c.session.Get(ctx)
	return err == nil && tokens.Access != ""
}
