package service

import (
	"context"
	"log/slog"

	"github.com/vantagepoint/vantage-admin/internal/client"
	"github.com/vantagepoint/vantage-admin/internal/domain"
	"github.com/vantagepoint/vantage-admin/internal/validation"
)

// AuthorService manages post authors.
type AuthorService struct {
	api       AuthorAPI
	validator *validation.Validator
	authors   *Collection[domain.Author]
	logger    *slog.Logger
}

// NewAuthorService creates a new author service.
func NewAuthorService(api AuthorAPI, v *validation.Validator, logger *slog.Logger) *AuthorService {
	return &AuthorService{
		api:       api,
		validator: v,
		authors:   NewCollection(func(a domain.Author) int { return a.ID }, nil),
		logger:    orDiscard(logger),
	}
}

// Authors returns the local mirror of the last listed page.
func (s *AuthorService) Authors() *Collection[domain.Author] {
	return s.authors
}

// List fetches a page of authors and mirrors it.
func (s *AuthorService) List(ctx context.Context, page int) (*client.Page[domain.Author], error) {
	p, err := s.api.ListAuthors(ctx, page)
	if err != nil {
		return nil, serverError(s.logger, "authors.list", err)
	}
	s.authors.Reset(p)
	return p, nil
}

// Get fetches a single author.
func (s *AuthorService) Get(ctx context.Context, id int) (*domain.Author, error) {
	author, err := s.api.GetAuthor(ctx, id)
	if err != nil {
		return nil, serverError(s.logger, "authors.get", err)
	}
	return author, nil
}

// Create validates form and creates the author.
func (s *AuthorService) Create(ctx context.Context, form *validation.AuthorForm) (*domain.Author, error) {
	author, err := submit(ctx, s.validator, s.logger, "authors.create", form,
		func(ctx context.Context) (*domain.Author, error) {
			return s.api.CreateAuthor(ctx, *form)
		})
	if err != nil {
		return nil, err
	}

	s.authors.Insert(*author)
	s.logger.Info("author created", "id", author.ID, "name", author.FullName())
	return author, nil
}

// Update validates form and replaces author id.
func (s *AuthorService) Update(ctx context.Context, id int, form *validation.AuthorForm) (*domain.Author, error) {
	author, err := submit(ctx, s.validator, s.logger, "authors.update", form,
		func(ctx context.Context) (*domain.Author, error) {
			return s.api.UpdateAuthor(ctx, id, *form)
		})
	if err != nil {
		return nil, err
	}

	s.authors.Replace(*author)
	s.logger.Info("author updated", "id", author.ID)
	return author, nil
}

// Delete removes an author.
func (s *AuthorService) Delete(ctx context.Context, id int) error {
	if err := s.api.DeleteAuthor(ctx, id); err != nil {
		return serverError(s.logger, "authors.delete", err)
	}
	s.authors.Remove(id)
	s.logger.Info("author deleted", "id", id)
	return nil
}

// DeleteMany removes several authors in one call.
func (s *AuthorService) DeleteMany(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.api.DeleteAuthors(ctx, ids); err != nil {
		return serverError(s.logger, "authors.delete_many", err)
	}
	s.authors.Remove(ids...)
	s.logger.Info("authors deleted", "count", len(ids))
	return nil
}
