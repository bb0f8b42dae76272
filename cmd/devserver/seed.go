package main

import (
	"context"

	"github.com/vantagepoint/vantage-admin/internal/di/providers"
	"github.com/vantagepoint/vantage-admin/internal/domain"
)

var demoMenuType = domain.MenuType{ID: "main", Name: "Главное меню"}

func demoMenuItems() []domain.MenuItem {
	parent := func(id string) *string { return &id }
	return []domain.MenuItem{
		{ID: "home", Name: "Главная", Route: "home", Sort: 0},
		{ID: "blog", Name: "Блог", Route: "posts", Sort: 1},
		{ID: "blog-news", Name: "Новости", Route: "posts", RouteParams: `{"tag":"news"}`, ParentID: parent("blog"), Sort: 0},
		{ID: "blog-reviews", Name: "Обзоры", Route: "posts", RouteParams: `{"tag":"reviews"}`, ParentID: parent("blog"), Sort: 1},
		{ID: "authors", Name: "Авторы", Route: "authors", Sort: 2},
		{ID: "about", Name: "О проекте", CustomURL: "https://example.com/about", Sort: 3},
	}
}

func seed(ctx context.Context, handle *providers.DevServerHandle) error {
	return handle.SeedMenu(ctx, demoMenuType, demoMenuItems())
}
