// Package service implements the admin console flows on top of the API client:
// validate and sanitize a form, call the backend, normalize any server failure
// once, and keep a local mirror of what the backend returned.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vantagepoint/vantage-admin/internal/client"
	"github.com/vantagepoint/vantage-admin/internal/domain"
	domainerrors "github.com/vantagepoint/vantage-admin/internal/errors"
	"github.com/vantagepoint/vantage-admin/internal/validation"
)

// PostAPI is the part of the backend client used by PostService.
type PostAPI interface {
	ListPosts(ctx context.Context, page int) (*client.Page[domain.Post], error)
	GetPost(ctx context.Context, id int) (*domain.PostDetail, error)
	CreatePost(ctx context.Context, f validation.PostForm) (*domain.PostDetail, error)
	UpdatePost(ctx context.Context, id int, f validation.PostForm) (*domain.PostDetail, error)
	DeletePost(ctx context.Context, id int) error
}

// AuthorAPI is the part of the backend client used by AuthorService.
type AuthorAPI interface {
	ListAuthors(ctx context.Context, page int) (*client.Page[domain.Author], error)
	GetAuthor(ctx context.Context, id int) (*domain.Author, error)
	CreateAuthor(ctx context.Context, f validation.AuthorForm) (*domain.Author, error)
	UpdateAuthor(ctx context.Context, id int, f validation.AuthorForm) (*domain.Author, error)
	DeleteAuthor(ctx context.Context, id int) error
	DeleteAuthors(ctx context.Context, ids []int) error
}

// TagAPI is the part of the backend client used by TagService.
type TagAPI interface {
	ListTags(ctx context.Context, page int) (*client.Page[domain.Tag], error)
	GetTag(ctx context.Context, id int) (*domain.Tag, error)
	CreateTag(ctx context.Context, f validation.TagForm) (*domain.Tag, error)
	UpdateTag(ctx context.Context, id int, f validation.TagForm) (*domain.Tag, error)
	DeleteTag(ctx context.Context, id int) error
	DeleteTags(ctx context.Context, ids []int) error
}

// MenuAPI is the part of the backend client used by MenuService.
type MenuAPI interface {
	ListMenuTypes(ctx context.Context) ([]domain.MenuType, error)
	CreateMenuType(ctx context.Context, f validation.MenuTypeForm) (*domain.MenuType, error)
	UpdateMenuType(ctx context.Context, f validation.MenuTypeForm) (*domain.MenuType, error)
	DeleteMenuType(ctx context.Context, id string) error
	MenuTree(ctx context.Context, typeID string) ([]*domain.MenuNode, error)
}

// AuthAPI is the part of the backend client used by AuthService.
type AuthAPI interface {
	Login(ctx context.Context, creds validation.LoginForm) (*domain.TokenPair, error)
	Logout(ctx context.Context) error
	Authenticated(ctx context.Context) bool
}

var (
	_ PostAPI   = (*client.Client)(nil)
	_ AuthorAPI = (*client.Client)(nil)
	_ TagAPI    = (*client.Client)(nil)
	_ MenuAPI   = (*client.Client)(nil)
	_ AuthAPI   = (*client.Client)(nil)
)

// serverError converts an error returned by the API layer into the value a
// service returns. Session expiry is passed through untouched since it is
// handled by the session hook, not shown on a form.
func serverError(logger *slog.Logger, op string, err error) error {
	if errors.Is(err, client.ErrSessionExpired) {
		return err
	}
	derr := domainerrors.Normalize(err)
	logger.Warn("request failed", "op", op, "kind", derr.Kind, "error", err)
	return derr
}

// submit validates and sanitizes form, then runs call with it. Local failures
// are returned as validation.Errors and call is never made.
func submit[F validation.Form, T any](
	ctx context.Context,
	v *validation.Validator,
	logger *slog.Logger,
	op string,
	form F,
	call func(ctx context.Context) (T, error),
) (T, error) {
	var zero T
	if err := v.Parse(form); err != nil {
		logger.Debug("form rejected", "op", op, "error", err)
		return zero, err
	}

	out, err := call(ctx)
	if err != nil {
		return zero, serverError(logger, op, err)
	}
	return out, nil
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
