package devserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/vantagepoint/vantage-admin/internal/auth"
	"github.com/vantagepoint/vantage-admin/internal/domain"
	"github.com/vantagepoint/vantage-admin/internal/http/response"
)

const invalidCredentialsMessage = "Неверный email или пароль"

func (s *Server) handleTokenGenerate(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		response.BadRequest(w, malformedFormMessage, s.logger)
		return
	}

	var errs fieldErrors
	email := errs.required(r, "email", "Email")
	password := errs.required(r, "password", "Пароль")
	if errs.failed(w, s.logger) {
		return
	}

	if !s.checkCredentials(email, password) {
		s.logger.Warn("login rejected", "email", email, "ip", clientIP(r))
		response.ValidationFailed(w, []response.FieldError{
			{Field: "password", Message: invalidCredentialsMessage},
		}, s.logger)
		return
	}

	pair, err := s.issue(email)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	s.logger.Info("token issued", "email", email)
	response.Success(w, pair, s.logger)
}

func (s *Server) handleTokenRefresh(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		response.BadRequest(w, malformedFormMessage, s.logger)
		return
	}

	token := strings.TrimSpace(r.PostFormValue("refresh_token"))
	if token == "" {
		response.BadRequest(w, "Не передан refresh_token", s.logger)
		return
	}

	// Refresh tokens are single use: the presented one is consumed whether
	// or not it is still valid.
	hash := auth.HashRefreshToken(token)
	s.data.mu.Lock()
	sess, ok := s.data.refresh[hash]
	delete(s.data.refresh, hash)
	s.data.mu.Unlock()

	if !ok || time.Now().After(sess.expiresAt) {
		response.Unauthorized(w, "Refresh token is invalid or expired", s.logger)
		return
	}

	pair, err := s.issue(sess.email)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	s.logger.Info("token refreshed", "email", sess.email)
	response.Success(w, pair, s.logger)
}

func (s *Server) handleExpireTokens(w http.ResponseWriter, _ *http.Request) {
	s.ExpireAccessTokens()
	response.NoContent(w)
}

func (s *Server) handleRevokeSessions(w http.ResponseWriter, _ *http.Request) {
	s.RevokeSessions()
	response.NoContent(w)
}

// ExpireAccessTokens invalidates every issued access token. Refresh tokens
// stay valid, so clients recover with one refresh.
func (s *Server) ExpireAccessTokens() {
	s.data.mu.Lock()
	clear(s.data.access)
	s.data.mu.Unlock()
	s.logger.Info("access tokens expired")
}

// RevokeSessions invalidates every access and refresh token.
func (s *Server) RevokeSessions() {
	s.data.mu.Lock()
	clear(s.data.access)
	clear(s.data.refresh)
	s.data.mu.Unlock()
	s.logger.Info("sessions revoked")
}

func (s *Server) checkCredentials(email, password string) bool {
	ok, err := auth.VerifyPassword(s.passwordHash, password)
	if err != nil {
		return false
	}
	return ok && strings.EqualFold(email, s.adminEmail)
}

// issue creates and records a token pair for email.
func (s *Server) issue(email string) (*domain.TokenPair, error) {
	pair, err := s.tokens.Issue(email)
	if err != nil {
		return nil, err
	}

	s.data.mu.Lock()
	s.data.access[pair.TokenID] = struct{}{}
	s.data.refresh[auth.HashRefreshToken(pair.RefreshToken)] = refreshSession{
		email:     email,
		expiresAt: pair.RefreshExpiresAt,
	}
	s.data.mu.Unlock()

	return &domain.TokenPair{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		AccessExpiredAt:  pair.AccessExpiresAt.UTC().Format(time.RFC3339),
		RefreshExpiredAt: pair.RefreshExpiresAt.UTC().Format(time.RFC3339),
	}, nil
}
