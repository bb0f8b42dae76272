// Package devserver is an in-memory stand-in for the blog REST backend.
//
// It speaks the same wire format as the production API: multipart form
// requests, bare JSON responses, 422 field lists, pagination headers and
// bearer tokens with refresh rotation. It exists for local development and
// for end-to-end tests of the API client.
package devserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vantagepoint/vantage-admin/internal/auth"
	"github.com/vantagepoint/vantage-admin/internal/ratelimit"
	"github.com/vantagepoint/vantage-admin/internal/store"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 30 * 24 * time.Hour

	defaultLoginRPS   = 1.0
	defaultLoginBurst = 5
)

// Config holds dev server settings. AdminEmail and AdminPassword are the only
// accepted credentials.
type Config struct {
	AdminEmail    string
	AdminPassword string

	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Key is the 32-byte token key. A random key is used when nil.
	Key []byte

	// LoginRPS limits token-generate calls per client address.
	// A negative value disables the limit.
	LoginRPS   float64
	LoginBurst int

	AllowedOrigins []string
}

// Server is the dev backend. It implements http.Handler.
type Server struct {
	router       *chi.Mux
	tokens       *auth.TokenService
	limiter      *ratelimit.KeyedRateLimiter
	menus        *store.Store
	data         *data
	adminEmail   string
	passwordHash string
	origins      []string
	logger       *slog.Logger
}

// New creates a dev server with empty data.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil, errors.New("admin email and password are required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	accessTTL, refreshTTL := cfg.AccessTTL, cfg.RefreshTTL
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}

	key := cfg.Key
	if key == nil {
		var err error
		if key, err = auth.GenerateKey(); err != nil {
			return nil, err
		}
	}
	tokens, err := auth.NewTokenService(key, accessTTL, refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("create token service: %w", err)
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}

	menus, err := store.NewInMemory(logger)
	if err != nil {
		return nil, err
	}

	rps, burst := cfg.LoginRPS, cfg.LoginBurst
	if rps == 0 {
		rps = defaultLoginRPS
	}
	if burst <= 0 {
		burst = defaultLoginBurst
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{
		router:       chi.NewRouter(),
		tokens:       tokens,
		limiter:      ratelimit.New(rps, burst),
		menus:        menus,
		data:         newData(),
		adminEmail:   cfg.AdminEmail,
		passwordHash: hash,
		origins:      origins,
		logger:       logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases the limiter and the menu item database.
func (s *Server) Close() error {
	s.limiter.Stop()
	return s.menus.Close()
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{
			headerTotalCount,
			headerPageCount,
			headerCurrentPage,
			headerPerPage,
		},
		MaxAge: 300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/uploads/{id}/{name}", s.handleUpload)

	s.router.Route("/auth", func(r chi.Router) {
		r.With(s.rateLimit).Post("/token-generate", s.handleTokenGenerate)
		r.Post("/token-refresh", s.handleTokenRefresh)
	})

	// Session controls for exercising the client's refresh path by hand.
	s.router.Route("/dev", func(r chi.Router) {
		r.Post("/expire-tokens", s.handleExpireTokens)
		r.Post("/revoke-sessions", s.handleRevokeSessions)
	})

	s.router.Route("/manage", func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Route("/posts", func(r chi.Router) {
			r.Get("/default", s.handlePostList)
			r.Get("/detail", s.handlePostDetail)
			r.Post("/add", s.handlePostCreate)
			r.Post("/edit", s.handlePostUpdate)
			r.Delete("/remove", s.handlePostDelete)
		})

		r.Route("/authors", func(r chi.Router) {
			r.Get("/default", s.handleAuthorList)
			r.Get("/detail", s.handleAuthorDetail)
			r.Post("/add", s.handleAuthorCreate)
			r.Post("/edit", s.handleAuthorUpdate)
			r.Delete("/remove", s.handleAuthorDelete)
			r.Delete("/multiple-remove", s.handleAuthorDeleteMany)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/default", s.handleTagList)
			r.Get("/detail", s.handleTagDetail)
			r.Post("/add", s.handleTagCreate)
			r.Post("/edit", s.handleTagUpdate)
			r.Delete("/remove", s.handleTagDelete)
			r.Delete("/multiple-remove", s.handleTagDeleteMany)
		})

		r.Route("/menu", func(r chi.Router) {
			r.Get("/types", s.handleMenuTypeList)
			r.Post("/types/add", s.handleMenuTypeCreate)
			r.Post("/types/edit", s.handleMenuTypeUpdate)
			r.Delete("/types/remove", s.handleMenuTypeDelete)
			r.Get("/items/tree", s.handleMenuTree)
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
