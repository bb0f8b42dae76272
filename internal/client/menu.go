package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/vantagepoint/vantage-admin/internal/domain"
	"github.com/vantagepoint/vantage-admin/internal/validation"
)

// ListMenuTypes returns every menu type.
func (c *Client) ListMenuTypes(ctx context.Context) ([]domain.MenuType, error) {
	var types []domain.MenuType
	_, err := c.call(ctx, "menu.types.list", request{
		method: http.MethodGet,
		path:   "/manage/menu/types",
		auth:   true,
	}, &types)
	if err != nil {
		return nil, err
	}
	return types, nil
}

// CreateMenuType creates a menu type with a caller-chosen id.
func (c *Client) CreateMenuType(ctx context.Context, f validation.MenuTypeForm) (*domain.MenuType, error) {
	var mt domain.MenuType
	_, err := c.call(ctx, "menu.types.create", request{
		method: http.MethodPost,
		path:   "/manage/menu/types/add",
		form:   NewForm().Set("id", f.ID).Set("name", f.Name),
		auth:   true,
	}, &mt)
	if err != nil {
		return nil, err
	}
	return &mt, nil
}

// UpdateMenuType renames menu type f.ID.
func (c *Client) UpdateMenuType(ctx context.Context, f validation.MenuTypeForm) (*domain.MenuType, error) {
	var mt domain.MenuType
	_, err := c.call(ctx, "menu.types.update", request{
		method: http.MethodPost,
		path:   "/manage/menu/types/edit",
		query:  url.Values{"id": {f.ID}},
		form:   NewForm().Set("name", f.Name),
		auth:   true,
	}, &mt)
	if err != nil {
		return nil, err
	}
	return &mt, nil
}

// DeleteMenuType removes a menu type. The backend removes its items too.
func (c *Client) DeleteMenuType(ctx context.Context, id string) error {
	_, err := c.call(ctx, "menu.types.delete", request{
		method: http.MethodDelete,
		path:   "/manage/menu/types/remove",
		query:  url.Values{"id": {id}},
		auth:   true,
	}, nil)
	return err
}

// MenuTree returns the backend's tree for a menu type.
func (c *Client) MenuTree(ctx context.Context, typeID string) ([]*domain.MenuNode, error) {
	var tree []*domain.MenuNode
	_, err := c.call(ctx, "menu.tree", request{
		method: http.MethodGet,
		path:   "/manage/menu/items/tree",
		query:  url.Values{"typeId": {typeID}},
		auth:   true,
	}, &tree)
	if err != nil {
		return nil, err
	}
	return tree, nil
}
