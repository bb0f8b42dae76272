package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vantagepoint/vantage-admin/internal/domain"
	domainerrors "github.com/vantagepoint/vantage-admin/internal/errors"
	"github.com/vantagepoint/vantage-admin/internal/menu"
	"github.com/vantagepoint/vantage-admin/internal/store"
	"github.com/vantagepoint/vantage-admin/internal/validation"
)

// Menu service errors.
var (
	ErrMenuItemNotFound = menu.ErrItemNotFound
	ErrMissingItemID    = errors.New("menu item id is required")
)

const (
	parentNotFoundMessage = "Родительский пункт меню не найден"
	parentCycleMessage    = "Пункт меню нельзя вложить в самого себя или в свой дочерний пункт"
	duplicateItemMessage  = "Пункт меню с таким ID уже существует"
	invalidMenuMessage    = "Некорректные данные меню"
)

// MenuService manages menu types on the backend and their items in the local
// store. The flat item list is authoritative; trees are derived from it and
// cached by content.
type MenuService struct {
	api       MenuAPI
	items     *store.Store
	validator *validation.Validator
	cache     *menu.TreeCache
	logger    *slog.Logger
}

// NewMenuService creates a new menu service.
func NewMenuService(api MenuAPI, items *store.Store, v *validation.Validator, logger *slog.Logger) *MenuService {
	return &MenuService{
		api:       api,
		items:     items,
		validator: v,
		cache:     menu.NewTreeCache(),
		logger:    orDiscard(logger),
	}
}

// ListTypes returns every menu type.
func (s *MenuService) ListTypes(ctx context.Context) ([]domain.MenuType, error) {
	types, err := s.api.ListMenuTypes(ctx)
	if err != nil {
		return nil, serverError(s.logger, "menu.types.list", err)
	}
	return types, nil
}

// CreateType validates form and creates a menu type.
func (s *MenuService) CreateType(ctx context.Context, form *validation.MenuTypeForm) (*domain.MenuType, error) {
	mt, err := submit(ctx, s.validator, s.logger, "menu.types.create", form,
		func(ctx context.Context) (*domain.MenuType, error) {
			return s.api.CreateMenuType(ctx, *form)
		})
	if err != nil {
		return nil, err
	}
	s.logger.Info("menu type created", "id", mt.ID)
	return mt, nil
}

// UpdateType validates form and renames the menu type form.ID.
func (s *MenuService) UpdateType(ctx context.Context, form *validation.MenuTypeForm) (*domain.MenuType, error) {
	return submit(ctx, s.validator, s.logger, "menu.types.update", form,
		func(ctx context.Context) (*domain.MenuType, error) {
			return s.api.UpdateMenuType(ctx, *form)
		})
}

// DeleteType removes a menu type and its local items.
func (s *MenuService) DeleteType(ctx context.Context, id string) error {
	if err := s.api.DeleteMenuType(ctx, id); err != nil {
		return serverError(s.logger, "menu.types.delete", err)
	}
	if err := s.items.ClearMenuItems(ctx, id); err != nil {
		return fmt.Errorf("clear menu items: %w", err)
	}
	s.cache.Invalidate(id)
	s.logger.Info("menu type deleted", "id", id)
	return nil
}

// RemoteTree returns the tree the backend builds for a menu type.
func (s *MenuService) RemoteTree(ctx context.Context, typeID string) ([]*domain.MenuNode, error) {
	tree, err := s.api.MenuTree(ctx, typeID)
	if err != nil {
		return nil, serverError(s.logger, "menu.tree", err)
	}
	return tree, nil
}

// Items returns the flat items of a menu type.
func (s *MenuService) Items(ctx context.Context, typeID string) ([]domain.MenuItem, error) {
	items, err := s.items.ListMenuItems(ctx, typeID)
	if err != nil {
		return nil, s.storeError(err, false)
	}
	return items, nil
}

// Tree returns the tree view of a menu type. The result is shared with the
// cache and must not be modified.
func (s *MenuService) Tree(ctx context.Context, typeID string) ([]*domain.MenuNode, error) {
	items, err := s.Items(ctx, typeID)
	if err != nil {
		return nil, err
	}
	return s.cache.Tree(typeID, items), nil
}

// Check reports structural problems in the stored items of a menu type.
func (s *MenuService) Check(ctx context.Context, typeID string) ([]menu.Issue, error) {
	items, err := s.Items(ctx, typeID)
	if err != nil {
		return nil, err
	}
	return menu.Check(items), nil
}

// AddItem validates form and stores a new item. An empty form.ID gets a
// generated id.
func (s *MenuService) AddItem(ctx context.Context, form *validation.MenuItemForm) (*domain.MenuItem, error) {
	if err := s.validator.Parse(form); err != nil {
		return nil, err
	}

	item := domain.MenuItem{
		ID:        form.ID,
		Name:      form.Name,
		ParentID:  form.ParentID,
		CustomURL: form.URL,
		Sort:      form.Sort,
	}
	if err := s.items.AddMenuItem(ctx, form.TypeID, &item); err != nil {
		return nil, s.storeError(err, form.ParentID != nil)
	}

	s.logger.Info("menu item added", "type", form.TypeID, "id", item.ID)
	return &item, nil
}

// UpdateItem validates form and overwrites the item form.ID, keeping its
// route fields.
func (s *MenuService) UpdateItem(ctx context.Context, form *validation.MenuItemForm) (*domain.MenuItem, error) {
	if form.ID == "" {
		return nil, ErrMissingItemID
	}
	if err := s.validator.Parse(form); err != nil {
		return nil, err
	}

	item, err := s.items.GetMenuItem(ctx, form.TypeID, form.ID)
	if err != nil {
		return nil, s.storeError(err, false)
	}
	item.Name = form.Name
	item.ParentID = form.ParentID
	item.CustomURL = form.URL
	item.Sort = form.Sort

	if err := s.items.UpdateMenuItem(ctx, form.TypeID, item); err != nil {
		return nil, s.storeError(err, form.ParentID != nil)
	}
	return item, nil
}

// RemoveItem deletes an item and its descendants and returns the removed ids.
func (s *MenuService) RemoveItem(ctx context.Context, typeID, id string) ([]string, error) {
	removed, err := s.items.RemoveMenuItem(ctx, typeID, id)
	if err != nil {
		return nil, s.storeError(err, false)
	}
	s.logger.Info("menu items removed", "type", typeID, "ids", removed)
	return removed, nil
}

// Move drops dragID before, after or inside dropID and stores the changed
// parent and sort values. The menu type stays marked unsaved in the store
// until SaveStructure runs.
func (s *MenuService) Move(ctx context.Context, typeID, dragID, dropID string, pos menu.Position) ([]*domain.MenuNode, error) {
	items, err := s.Items(ctx, typeID)
	if err != nil {
		return nil, err
	}

	moved, err := menu.Move(items, dragID, dropID, pos)
	if err != nil {
		return nil, err
	}

	if changed := changedPlacements(items, moved); len(changed) > 0 {
		if err := s.items.ApplyPlacements(ctx, typeID, changed, true); err != nil {
			return nil, s.storeError(err, false)
		}
	}
	return s.cache.Tree(typeID, moved), nil
}

// SaveStructure writes the current visual order back as canonical placements:
// contiguous sibling indexes and resolved parents.
func (s *MenuService) SaveStructure(ctx context.Context, typeID string) error {
	items, err := s.Items(ctx, typeID)
	if err != nil {
		return err
	}

	placements := menu.FlattenTree(s.cache.Tree(typeID, items))
	if err := s.items.ApplyPlacements(ctx, typeID, placements, false); err != nil {
		return s.storeError(err, false)
	}
	s.cache.Invalidate(typeID)

	s.logger.Info("menu structure saved", "type", typeID, "items", len(placements))
	return nil
}

// Dirty reports whether typeID has moves that were not saved yet.
func (s *MenuService) Dirty(ctx context.Context, typeID string) (bool, error) {
	dirty, err := s.items.MenuUnsaved(ctx, typeID)
	if err != nil {
		return false, s.storeError(err, false)
	}
	return dirty, nil
}

func (s *MenuService) storeError(err error, hasParent bool) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrMenuItemNotFound
	case errors.Is(err, store.ErrParentCycle):
		return domainerrors.Validation(domainerrors.FieldErrors{"parentId": parentCycleMessage})
	case errors.Is(err, store.ErrAlreadyExists):
		return domainerrors.Validation(domainerrors.FieldErrors{"id": duplicateItemMessage})
	case errors.Is(err, store.ErrInvalidInput) && hasParent:
		return domainerrors.Validation(domainerrors.FieldErrors{"parentId": parentNotFoundMessage})
	case errors.Is(err, store.ErrInvalidInput):
		s.logger.Warn("invalid menu data", "error", err)
		return domainerrors.Form(invalidMenuMessage)
	default:
		return err
	}
}

func changedPlacements(before, after []domain.MenuItem) []domain.Placement {
	old := make(map[string]domain.MenuItem, len(before))
	for _, it := range before {
		old[it.ID] = it
	}

	var out []domain.Placement
	for _, it := range after {
		prev, ok := old[it.ID]
		if ok && prev.Sort == it.Sort && prev.Parent() == it.Parent() {
			continue
		}
		out = append(out, domain.Placement{ID: it.ID, ParentID: it.ParentID, Sort: it.Sort})
	}
	return out
}
