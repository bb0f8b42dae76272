package client

import (
	"context"
	"net/http"

	"github.com/vantagepoint/vantage-admin/internal/domain"
	"github.com/vantagepoint/vantage-admin/internal/validation"
)

// ListTags returns one page of tags.
func (c *Client) ListTags(ctx context.Context, page int) (*Page[domain.Tag], error) {
	var items []domain.Tag
	h, err := c.call(ctx, "tags.list", request{
		method: http.MethodGet,
		path:   "/manage/tags/default",
		query:  pageQuery(page),
		auth:   true,
	}, &items)
	if err != nil {
		return nil, err
	}
	return &Page[domain.Tag]{Items: items, Pagination: parsePagination(h)}, nil
}

// GetTag returns a tag.
func (c *Client) GetTag(ctx context.Context, id int) (*domain.Tag, error) {
	var tag domain.Tag
	_, err := c.call(ctx, "tags.get", request{
		method: http.MethodGet,
		path:   "/manage/tags/detail",
		query:  idQuery(id),
		auth:   true,
	}, &tag)
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// CreateTag creates a tag.
func (c *Client) CreateTag(ctx context.Context, f validation.TagForm) (*domain.Tag, error) {
	var tag domain.Tag
	_, err := c.call(ctx, "tags.create", request{
		method: http.MethodPost,
		path:   "/manage/tags/add",
		form:   tagForm(f),
		auth:   true,
	}, &tag)
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// UpdateTag replaces the fields of tag id.
func (c *Client) UpdateTag(ctx context.Context, id int, f validation.TagForm) (*domain.Tag, error) {
	var tag domain.Tag
	_, err := c.call(ctx, "tags.update", request{
		method: http.MethodPost,
		path:   "/manage/tags/edit",
		query:  idQuery(id),
		form:   tagForm(f),
		auth:   true,
	}, &tag)
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// DeleteTag removes a tag.
func (c *Client) DeleteTag(ctx context.Context, id int) error {
	_, err := c.call(ctx, "tags.delete", request{
		method: http.MethodDelete,
		path:   "/manage/tags/remove",
		query:  idQuery(id),
		auth:   true,
	}, nil)
	return err
}

// DeleteTags removes several tags in one call.
func (c *Client) DeleteTags(ctx context.Context, ids []int) error {
	_, err := c.call(ctx, "tags.delete_many", request{
		method: http.MethodDelete,
		path:   "/manage/tags/multiple-remove",
		query:  idsQuery(ids),
		auth:   true,
	}, nil)
	return err
}

func tagForm(f validation.TagForm) *Form {
	return NewForm().
		Set("code", f.Code).
		Set("name", f.Name).
		SetInt("sort", f.Sort)
}
