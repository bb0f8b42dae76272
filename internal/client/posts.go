package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vantagepoint/vantage-admin/internal/domain"
	"github.com/vantagepoint/vantage-admin/internal/validation"
)

func pageQuery(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": {strconv.Itoa(page)}}
}

func idQuery(id int) url.Values {
	return url.Values{"id": {strconv.Itoa(id)}}
}

func idsQuery(ids []int) url.Values {
	q := url.Values{}
	for _, id := range ids {
		q.Add("id", strconv.Itoa(id))
	}
	return q
}

// ListPosts returns one page of posts.
func (c *Client) ListPosts(ctx context.Context, page int) (*Page[domain.Post], error) {
	var items []domain.Post
	h, err := c.call(ctx, "posts.list", request{
		method: http.MethodGet,
		path:   "/manage/posts/default",
		query:  pageQuery(page),
		auth:   true,
	}, &items)
	if err != nil {
		return nil, err
	}
	return &Page[domain.Post]{Items: items, Pagination: parsePagination(h)}, nil
}

// GetPost returns the full representation of a post.
func (c *Client) GetPost(ctx context.Context, id int) (*domain.PostDetail, error) {
	var post domain.PostDetail
	_, err := c.call(ctx, "posts.get", request{
		method: http.MethodGet,
		path:   "/manage/posts/detail",
		query:  idQuery(id),
		auth:   true,
	}, &post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost creates a post.
func (c *Client) CreatePost(ctx context.Context, f validation.PostForm) (*domain.PostDetail, error) {
	var post domain.PostDetail
	_, err := c.call(ctx, "posts.create", request{
		method: http.MethodPost,
		path:   "/manage/posts/add",
		form:   postForm(f),
		auth:   true,
	}, &post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost replaces the fields of post id.
func (c *Client) UpdatePost(ctx context.Context, id int, f validation.PostForm) (*domain.PostDetail, error) {
	var post domain.PostDetail
	_, err := c.call(ctx, "posts.update", request{
		method: http.MethodPost,
		path:   "/manage/posts/edit",
		query:  idQuery(id),
		form:   postForm(f),
		auth:   true,
	}, &post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, id int) error {
	_, err := c.call(ctx, "posts.delete", request{
		method: http.MethodDelete,
		path:   "/manage/posts/remove",
		query:  idQuery(id),
		auth:   true,
	}, nil)
	return err
}

func postForm(f validation.PostForm) *Form {
	return NewForm().
		Set("code", f.Code).
		Set("title", f.Title).
		Set("text", f.Text).
		SetInt("authorId", f.AuthorID).
		SetInts("tagIds", f.TagIDs).
		File("previewPicture", f.PreviewPicture)
}
