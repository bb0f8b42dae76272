package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/vantagepoint/vantage-admin/internal/domain"
	"github.com/vantagepoint/vantage-admin/internal/id"
)

// now is truncated to the precision timestamps are stored with.
func now() domain.Timestamp {
	return domain.At(time.Now().UTC().Truncate(time.Second))
}

func checkTypeID(typeID string) error {
	if typeID == "" || strings.Contains(typeID, ":") {
		return ErrInvalidInput.WithCause(fmt.Errorf("menu type id %q", typeID))
	}
	return nil
}

// ListMenuItems returns the flat items of a menu type ordered by sort, then id.
func (s *Store) ListMenuItems(ctx context.Context, typeID string) ([]domain.MenuItem, error) {
	if err := checkTypeID(typeID); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var items []domain.MenuItem
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		items, err = listMenuItems(txn, typeID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}

	slices.SortStableFunc(items, func(a, b domain.MenuItem) int {
		if a.Sort != b.Sort {
			return a.Sort - b.Sort
		}
		return strings.Compare(a.ID, b.ID)
	})
	return items, nil
}

// GetMenuItem returns one item, or ErrNotFound.
func (s *Store) GetMenuItem(ctx context.Context, typeID, itemID string) (*domain.MenuItem, error) {
	if err := checkTypeID(typeID); err != nil {
		return nil, err
	}

	var item domain.MenuItem
	if err := s.get(ctx, menuItemKey(typeID, itemID), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// AddMenuItem stores a new item. An empty ID is replaced with a generated one.
// The parent, when set, must already exist in the same menu type.
func (s *Store) AddMenuItem(ctx context.Context, typeID string, item *domain.MenuItem) error {
	if err := checkTypeID(typeID); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if item.ID == "" {
		newID, err := id.Generate(id.MenuItem)
		if err != nil {
			return err
		}
		item.ID = newID
	}
	item.CreatedAt = now()
	item.UpdatedAt = item.CreatedAt

	return s.db.Update(func(txn *badger.Txn) error {
		key := menuItemKey(typeID, item.ID)
		if _, err := txn.Get(key); err == nil {
			return ErrAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to check existing key: %w", err)
		}

		if err := checkParent(txn, typeID, item); err != nil {
			return err
		}
		return putMenuItem(txn, typeID, item)
	})
}

// UpdateMenuItem overwrites an existing item, keeping its creation time.
func (s *Store) UpdateMenuItem(ctx context.Context, typeID string, item *domain.MenuItem) error {
	if err := checkTypeID(typeID); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		old, err := getMenuItem(txn, typeID, item.ID)
		if err != nil {
			return err
		}
		if err := checkParent(txn, typeID, item); err != nil {
			return err
		}

		item.CreatedAt = old.CreatedAt
		item.UpdatedAt = now()
		return putMenuItem(txn, typeID, item)
	})
}

// RemoveMenuItem deletes an item together with all of its descendants.
// Removing a missing item is not an error. Returns the removed ids.
func (s *Store) RemoveMenuItem(ctx context.Context, typeID, itemID string) ([]string, error) {
	if err := checkTypeID(typeID); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var removed []string
	err := s.db.Update(func(txn *badger.Txn) error {
		items, err := listMenuItems(txn, typeID)
		if err != nil {
			return err
		}

		doomed := map[string]bool{}
		exists := false
		for _, it := range items {
			if it.ID == itemID {
				exists = true
				break
			}
		}
		if !exists {
			return nil
		}
		doomed[itemID] = true

		// Parents may appear after children, so sweep until stable.
		for changed := true; changed; {
			changed = false
			for _, it := range items {
				if !doomed[it.ID] && it.ParentID != nil && doomed[*it.ParentID] {
					doomed[it.ID] = true
					changed = true
				}
			}
		}

		for _, it := range items {
			if !doomed[it.ID] {
				continue
			}
			if err := txn.Delete(menuItemKey(typeID, it.ID)); err != nil {
				return fmt.Errorf("failed to delete key: %w", err)
			}
			removed = append(removed, it.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// ApplyPlacements writes new parent and sort values for the given items in a
// single transaction. Every placement must name an existing item. The unsaved
// flag of the menu type is set or cleared in the same transaction.
func (s *Store) ApplyPlacements(ctx context.Context, typeID string, placements []domain.Placement, unsaved bool) error {
	if err := checkTypeID(typeID); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	stamp := now()
	return s.db.Update(func(txn *badger.Txn) error {
		for _, p := range placements {
			item, err := getMenuItem(txn, typeID, p.ID)
			if err != nil {
				return fmt.Errorf("placement %s: %w", p.ID, err)
			}
			item.ParentID = p.ParentID
			item.Sort = p.Sort
			item.UpdatedAt = stamp
			if err := putMenuItem(txn, typeID, item); err != nil {
				return err
			}
		}
		return setUnsaved(txn, typeID, unsaved)
	})
}

// MenuUnsaved reports whether a menu type has moves that were not saved as
// a structure yet.
func (s *Store) MenuUnsaved(ctx context.Context, typeID string) (bool, error) {
	if err := checkTypeID(typeID); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var unsaved bool
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(menuDirtyKey(typeID))
		switch {
		case err == nil:
			unsaved = true
			return nil
		case errors.Is(err, badger.ErrKeyNotFound):
			return nil
		default:
			return fmt.Errorf("failed to get key: %w", err)
		}
	})
	return unsaved, err
}

func setUnsaved(txn *badger.Txn, typeID string, unsaved bool) error {
	key := menuDirtyKey(typeID)
	if unsaved {
		if err := txn.Set(key, []byte{1}); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}
		return nil
	}
	if err := txn.Delete(key); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

// ReplaceMenuItems swaps the whole item list of a menu type.
func (s *Store) ReplaceMenuItems(ctx context.Context, typeID string, items []domain.MenuItem) error {
	if err := checkTypeID(typeID); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := deletePrefix(txn, menuTypePrefix(typeID)); err != nil {
			return err
		}
		for i := range items {
			if items[i].ID == "" {
				return ErrInvalidInput.WithCause(errors.New("menu item without id"))
			}
			if err := putMenuItem(txn, typeID, &items[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// ClearMenuItems removes every item of a menu type and its unsaved flag.
func (s *Store) ClearMenuItems(ctx context.Context, typeID string) error {
	if err := checkTypeID(typeID); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := deletePrefix(txn, menuTypePrefix(typeID)); err != nil {
			return err
		}
		return setUnsaved(txn, typeID, false)
	})
}

func listMenuItems(txn *badger.Txn, typeID string) ([]domain.MenuItem, error) {
	prefix := menuTypePrefix(typeID)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix

	it := txn.NewIterator(opts)
	defer it.Close()

	items := []domain.MenuItem{}
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var item domain.MenuItem
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &item)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal menu item: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

func getMenuItem(txn *badger.Txn, typeID, itemID string) (*domain.MenuItem, error) {
	entry, err := txn.Get(menuItemKey(typeID, itemID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}

	var item domain.MenuItem
	err = entry.Value(func(val []byte) error {
		return json.Unmarshal(val, &item)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal menu item: %w", err)
	}
	return &item, nil
}

func putMenuItem(txn *badger.Txn, typeID string, item *domain.MenuItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal menu item: %w", err)
	}
	if err := txn.Set(menuItemKey(typeID, item.ID), data); err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}
	return nil
}

// checkParent rejects a missing parent and any parent chain that leads back
// to item. A chain that ends at a dangling or already looping link stops there.
func checkParent(txn *badger.Txn, typeID string, item *domain.MenuItem) error {
	if item.ParentID == nil || *item.ParentID == "" {
		return nil
	}
	if *item.ParentID == item.ID {
		return ErrParentCycle
	}

	parent, err := getMenuItem(txn, typeID, *item.ParentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidInput.WithCause(fmt.Errorf("parent %s not found", *item.ParentID))
		}
		return err
	}

	seen := map[string]bool{parent.ID: true}
	for cur := parent; cur.ParentID != nil && *cur.ParentID != ""; {
		if *cur.ParentID == item.ID {
			return ErrParentCycle.WithCause(fmt.Errorf("%s is a descendant of %s", *item.ParentID, item.ID))
		}
		if seen[*cur.ParentID] {
			return nil
		}
		seen[*cur.ParentID] = true

		next, err := getMenuItem(txn, typeID, *cur.ParentID)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		cur = next
	}
	return nil
}

func deletePrefix(txn *badger.Txn, prefix []byte) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false

	it := txn.NewIterator(opts)
	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()

	for _, k := range keys {
		if err := txn.Delete(k); err != nil {
			return fmt.Errorf("failed to delete key: %w", err)
		}
	}
	return nil
}
