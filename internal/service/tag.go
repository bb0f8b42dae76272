package service

import (
	"cmp"
	"context"
	"log/slog"

	"github.com/vantagepoint/vantage-admin/internal/client"
	"github.com/vantagepoint/vantage-admin/internal/domain"
	"github.com/vantagepoint/vantage-admin/internal/validation"
)

// TagService manages post tags. The mirror is kept in sort order, so a
// created tag lands where its sort value puts it.
type TagService struct {
	api       TagAPI
	validator *validation.Validator
	tags      *Collection[domain.Tag]
	logger    *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(api TagAPI, v *validation.Validator, logger *slog.Logger) *TagService {
	return &TagService{
		api:       api,
		validator: v,
		tags: NewCollection(
			func(t domain.Tag) int { return t.ID },
			func(a, b domain.Tag) int { return cmp.Compare(a.Sort, b.Sort) },
		),
		logger: orDiscard(logger),
	}
}

// Tags returns the local mirror of the last listed page.
func (s *TagService) Tags() *Collection[domain.Tag] {
	return s.tags
}

// List fetches a page of tags and mirrors it.
func (s *TagService) List(ctx context.Context, page int) (*client.Page[domain.Tag], error) {
	p, err := s.api.ListTags(ctx, page)
	if err != nil {
		return nil, serverError(s.logger, "tags.list", err)
	}
	s.tags.Reset(p)
	return p, nil
}

// Get fetches a single tag.
func (s *TagService) Get(ctx context.Context, id int) (*domain.Tag, error) {
	tag, err := s.api.GetTag(ctx, id)
	if err != nil {
		return nil, serverError(s.logger, "tags.get", err)
	}
	return tag, nil
}

// Create validates form and creates the tag.
func (s *TagService) Create(ctx context.Context, form *validation.TagForm) (*domain.Tag, error) {
	tag, err := submit(ctx, s.validator, s.logger, "tags.create", form,
		func(ctx context.Context) (*domain.Tag, error) {
			return s.api.CreateTag(ctx, *form)
		})
	if err != nil {
		return nil, err
	}

	s.tags.Insert(*tag)
	s.logger.Info("tag created", "id", tag.ID, "code", tag.Code)
	return tag, nil
}

// Update validates form and replaces tag id.
func (s *TagService) Update(ctx context.Context, id int, form *validation.TagForm) (*domain.Tag, error) {
	tag, err := submit(ctx, s.validator, s.logger, "tags.update", form,
		func(ctx context.Context) (*domain.Tag, error) {
			return s.api.UpdateTag(ctx, id, *form)
		})
	if err != nil {
		return nil, err
	}

	s.tags.Replace(*tag)
	s.logger.Info("tag updated", "id", tag.ID)
	return tag, nil
}

// Delete removes a tag.
func (s *TagService) Delete(ctx context.Context, id int) error {
	if err := s.api.DeleteTag(ctx, id); err != nil {
		return serverError(s.logger, "tags.delete", err)
	}
	s.tags.Remove(id)
	s.logger.Info("tag deleted", "id", id)
	return nil
}

// DeleteMany removes several tags in one call.
func (s *TagService) DeleteMany(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.api.DeleteTags(ctx, ids); err != nil {
		return serverError(s.logger, "tags.delete_many", err)
	}
	s.tags.Remove(ids...)
	s.logger.Info("tags deleted", "count", len(ids))
	return nil
}
