// Package client is the HTTP client for the blog backend REST API.
//
// Every authenticated call carries the session's bearer token. A 401 triggers
// one token refresh, shared by all concurrent callers, after which the call is
// retried exactly once. Non-2xx responses become *APIError values, which
// errors.Normalize understands.
package client

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vantagepoint/vantage-admin/internal/domain"
	"github.com/vantagepoint/vantage-admin/internal/ratelimit"
	"github.com/vantagepoint/vantage-admin/internal/session"
)

const (
	defaultTimeout = 30 * time.Second
	defaultRPS     = 10.0
	defaultBurst   = 20

	userAgent = "VantageAdmin/1.0"

	// HeaderRequestID correlates client and server logs.
	HeaderRequestID = "X-Request-ID"
)

// Config holds client settings. Session is required.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
	Session    session.Store
	Logger     *slog.Logger

	// OnSessionExpired is called after a failed refresh has cleared the
	// session, before the error is returned to the caller.
	OnSessionExpired func(err error)
}

// Client is a rate-limited backend API client.
type Client struct {
	base    *url.URL
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	session session.Store
	logger  *slog.Logger
	expired func(err error)

	refresher *refresher
}

// New creates a new client.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" || base.Host == "" {
		return nil, fmt.Errorf("base url must be an absolute http(s) url: %q", cfg.BaseURL)
	}
	if cfg.Session == nil {
		return nil, errors.New("session store is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	rps, burst := cfg.RequestsPerSecond, cfg.Burst
	if rps == 0 {
		rps = defaultRPS
	}
	if burst <= 0 {
		burst = defaultBurst
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	c := &Client{
		base:    base,
		http:    httpClient,
		limiter: ratelimit.New(rps, burst),
		session: cfg.Session,
		logger:  logger,
		expired: cfg.OnSessionExpired,
	}
	c.refresher = newRefresher(c.performRefresh)
	return c, nil
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// RefreshState reports whether a token refresh is in flight.
func (c *Client) RefreshState() RefreshState {
	return c.refresher.State()
}

// Refresh exchanges the stored refresh token for a new pair, joining a
// refresh already in flight.
func (c *Client) Refresh(ctx context.Context) error {
	return wrapError("auth.refresh", c.refresher.Refresh(ctx, nil))
}

// request describes one API call.
type request struct {
	method string
	path   string
	query  url.Values
	form   *Form
	auth   bool
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// call sends r and decodes a JSON response body into out, when out is not nil.
func (c *Client) call(ctx context.Context, op string, r request, out any) (http.Header, error) {
	resp, err := c.send(ctx, r)
	if err != nil {
		return nil, wrapError(op, err)
	}

	if out != nil && len(resp.body) > 0 {
		if err := json.Unmarshal(resp.body, out); err != nil {
			return nil, wrapError(op, fmt.Errorf("decode response: %w", err))
		}
	}
	return resp.header, nil
}

// send performs r, refreshing the session and retrying once on a 401.
func (c *Client) send(ctx context.Context, r request) (*response, error) {
	for retried := false; ; retried = true {
		token := ""
		if r.auth {
			tokens, err := c.session.Get(ctx)
			switch {
			case err == nil:
				token = tokens.Access
			case !errors.Is(err, session.ErrNoSession):
				return nil, err
			}
		}

		resp, err := c.roundTrip(ctx, r, token)
		if err != nil {
			return nil, err
		}

		if resp.status == http.StatusUnauthorized && r.auth && !retried {
			if err := c.refreshAfter(ctx, token); err != nil {
				return nil, err
			}
			continue
		}

		if !resp.ok() {
			return nil, newAPIError(resp.status, resp.body)
		}
		return resp, nil
	}
}

// refreshAfter refreshes the session unless another caller already replaced
// the rejected token while this request was in flight.
func (c *Client) refreshAfter(ctx context.Context, rejected string) error {
	return c.refresher.Refresh(ctx, func() bool {
		tokens, err := c.session.Get(ctx)
		return err == nil && tokens.Access != "" && tokens.Access != rejected
	})
}

// performRefresh is the single refresh run by the refresher. Any failure
// clears the session and reports it as expired.
func (c *Client) performRefresh(ctx context.Context) error {
	tokens, err := c.session.Get(ctx)
	if err != nil || tokens.Refresh == "" {
		return c.expire(ctx, ErrNoRefreshToken)
	}

	form := NewForm().Set("refresh_token", tokens.Refresh)
	resp, err := c.roundTrip(ctx, request{
		method: http.MethodPost,
		path:   "/auth/token-refresh",
		form:   form,
	}, "")
	if err != nil {
		return c.expire(ctx, fmt.Errorf("%w: %w", ErrRefreshFailed, err))
	}
	if !resp.ok() {
		return c.expire(ctx, fmt.Errorf("%w: %w", ErrRefreshFailed, newAPIError(resp.status, resp.body)))
	}

	var pair domain.TokenPair
	if err := json.Unmarshal(resp.body, &pair); err != nil {
		return c.expire(ctx, fmt.Errorf("%w: decode tokens: %w", ErrRefreshFailed, err))
	}
	if pair.AccessToken == "" {
		return c.expire(ctx, fmt.Errorf("%w: empty access token", ErrRefreshFailed))
	}
	if pair.RefreshToken == "" {
		pair.RefreshToken = tokens.Refresh
	}

	if err := c.session.Set(ctx, session.Tokens{Access: pair.AccessToken, Refresh: pair.RefreshToken}); err != nil {
		return c.expire(ctx, fmt.Errorf("%w: %w", ErrRefreshFailed, err))
	}

	c.logger.Info("session refreshed")
	return nil
}

func (c *Client) expire(ctx context.Context, cause error) error {
	if err := c.session.Clear(ctx); err != nil {
		c.logger.Error("failed to clear session", "error", err)
	}
	c.logger.Warn("session expired", "error", cause)

	if c.expired != nil {
		c.expired(cause)
	}
	return fmt.Errorf("%w: %w", ErrSessionExpired, cause)
}

// roundTrip executes one HTTP exchange with rate limiting.
func (c *Client) roundTrip(ctx context.Context, r request, token string) (*response, error) {
	if err := c.limiter.Wait(ctx, c.base.Host); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + r.path
	u.RawQuery = r.query.Encode()

	var (
		body        io.Reader
		contentType string
	)
	if r.form != nil {
		buf, ct, err := r.form.encode()
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(HeaderRequestID, requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("api request",
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	return &response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}
