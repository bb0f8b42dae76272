package client

import (
	"context"
	"net/http"

	"github.com/vantagepoint/vantage-admin/internal/domain"
	"github.com/vantagepoint/vantage-admin/internal/validation"
)

// ListAuthors returns one page of authors.
func (c *Client) ListAuthors(ctx context.Context, page int) (*Page[domain.Author], error) {
	var items []domain.Author
	h, err := c.call(ctx, "authors.list", request{
		method: http.MethodGet,
		path:   "/manage/authors/default",
		query:  pageQuery(page),
		auth:   true,
	}, &items)
	if err != nil {
		return nil, err
	}
	return &Page[domain.Author]{Items: items, Pagination: parsePagination(h)}, nil
}

// GetAuthor returns an author.
func (c *Client) GetAuthor(ctx context.Context, id int) (*domain.Author, error) {
	var author domain.Author
	_, err := c.call(ctx, "authors.get", request{
		method: http.MethodGet,
		path:   "/manage/authors/detail",
		query:  idQuery(id),
		auth:   true,
	}, &author)
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// CreateAuthor creates an author.
func (c *Client) CreateAuthor(ctx context.Context, f validation.AuthorForm) (*domain.Author, error) {
	var author domain.Author
	_, err := c.call(ctx, "authors.create", request{
		method: http.MethodPost,
		path:   "/manage/authors/add",
		form:   authorForm(f),
		auth:   true,
	}, &author)
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// UpdateAuthor replaces the fields of author id.
func (c *Client) UpdateAuthor(ctx context.Context, id int, f validation.AuthorForm) (*domain.Author, error) {
	var author domain.Author
	_, err := c.call(ctx, "authors.update", request{
		method: http.MethodPost,
		path:   "/manage/authors/edit",
		query:  idQuery(id),
		form:   authorForm(f),
		auth:   true,
	}, &author)
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// DeleteAuthor removes an author.
func (c *Client) DeleteAuthor(ctx context.Context, id int) error {
	_, err := c.call(ctx, "authors.delete", request{
		method: http.MethodDelete,
		path:   "/manage/authors/remove",
		query:  idQuery(id),
		auth:   true,
	}, nil)
	return err
}

// DeleteAuthors removes several authors in one call.
func (c *Client) DeleteAuthors(ctx context.Context, ids []int) error {
	_, err := c.call(ctx, "authors.delete_many", request{
		method: http.MethodDelete,
		path:   "/manage/authors/multiple-remove",
		query:  idsQuery(ids),
		auth:   true,
	}, nil)
	return err
}

func authorForm(f validation.AuthorForm) *Form {
	form := NewForm().
		Set("name", f.Name).
		Set("lastName", f.LastName)
	if f.SecondName != "" {
		form.Set("secondName", f.SecondName)
	}
	if f.ShortDescription != "" {
		form.Set("shortDescription", f.ShortDescription)
	}
	if f.Description != "" {
		form.Set("description", f.Description)
	}
	if f.RemoveAvatar {
		form.Set("removeAvatar", "1")
	}
	return form.File("avatar", f.Avatar)
}
