package service

import (
	"context"
	"log/slog"

	"github.com/vantagepoint/vantage-admin/internal/client"
	"github.com/vantagepoint/vantage-admin/internal/domain"
	"github.com/vantagepoint/vantage-admin/internal/validation"
)

// PostService manages blog posts.
type PostService struct {
	api       PostAPI
	validator *validation.Validator
	posts     *Collection[domain.Post]
	logger    *slog.Logger
}

// NewPostService creates a new post service.
func NewPostService(api PostAPI, v *validation.Validator, logger *slog.Logger) *PostService {
	return &PostService{
		api:       api,
		validator: v,
		posts:     NewCollection(func(p domain.Post) int { return p.ID }, nil),
		logger:    orDiscard(logger),
	}
}

// Posts returns the local mirror of the last listed page.
func (s *PostService) Posts() *Collection[domain.Post] {
	return s.posts
}

// List fetches a page of posts and mirrors it.
func (s *PostService) List(ctx context.Context, page int) (*client.Page[domain.Post], error) {
	p, err := s.api.ListPosts(ctx, page)
	if err != nil {
		return nil, serverError(s.logger, "posts.list", err)
	}
	s.posts.Reset(p)
	return p, nil
}

// Get fetches a single post.
func (s *PostService) Get(ctx context.Context, id int) (*domain.PostDetail, error) {
	post, err := s.api.GetPost(ctx, id)
	if err != nil {
		return nil, serverError(s.logger, "posts.get", err)
	}
	return post, nil
}

// Create validates form and creates the post. The new post is inserted at
// the top of the mirror.
func (s *PostService) Create(ctx context.Context, form *validation.PostForm) (*domain.PostDetail, error) {
	post, err := submit(ctx, s.validator, s.logger, "posts.create", form,
		func(ctx context.Context) (*domain.PostDetail, error) {
			return s.api.CreatePost(ctx, *form)
		})
	if err != nil {
		return nil, err
	}

	s.posts.Insert(post.Summary())
	s.logger.Info("post created", "id", post.ID, "code", post.Code)
	return post, nil
}

// Update validates form and replaces post id.
func (s *PostService) Update(ctx context.Context, id int, form *validation.PostForm) (*domain.PostDetail, error) {
	post, err := submit(ctx, s.validator, s.logger, "posts.update", form,
		func(ctx context.Context) (*domain.PostDetail, error) {
			return s.api.UpdatePost(ctx, id, *form)
		})
	if err != nil {
		return nil, err
	}

	s.posts.Replace(post.Summary())
	s.logger.Info("post updated", "id", post.ID)
	return post, nil
}

// Delete removes a post once the backend acknowledges it.
func (s *PostService) Delete(ctx context.Context, id int) error {
	if err := s.api.DeletePost(ctx, id); err != nil {
		return serverError(s.logger, "posts.delete", err)
	}
	s.posts.Remove(id)
	s.logger.Info("post deleted", "id", id)
	return nil
}
