package menu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vantagepoint/vantage-admin/internal/domain"
)

// Position is where a dragged item lands relative to the drop target.
type Position string

// Drop positions.
const (
	Before Position = "before"
	After  Position = "after"
	Inside Position = "inside"
)

// ParsePosition parses a position name, case-insensitively.
func ParsePosition(s string) (Position, error) {
	switch p := Position(strings.ToLower(strings.TrimSpace(s))); p {
	case Before, After, Inside:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}
}

// Errors returned by Move.
var (
	ErrItemNotFound    = errors.New("menu item not found")
	ErrCycle           = errors.New("menu item cannot be moved into itself or its descendants")
	ErrInvalidPosition = errors.New("invalid drop position")
)

// Move returns a copy of items with dragID re-parented relative to dropID.
//
// Before and After make the drop target's parent the new parent, Inside
// makes the drop target itself the parent. The new sort is computed by
// inserting at the target's position and shifting the sort of every later
// sibling in the new parent group up by one:
//
//   - Before: sort = drop.sort; siblings with sort >= drop.sort shift.
//   - After:  sort = drop.sort + 1; siblings with sort > drop.sort shift.
//   - Inside: sort = max(0, children sort) + 1, so 1 for an empty parent.
//
// Sort values are not renumbered, so gaps are left behind in the old parent
// group. FlattenTree on the rebuilt tree keeps the resulting sibling order.
// items is never modified.
func Move(items []domain.MenuItem, dragID, dropID string, pos Position) ([]domain.MenuItem, error) {
	switch pos {
	case Before, After, Inside:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidPosition, pos)
	}

	dragIdx, dropIdx := -1, -1
	for i := range items {
		if dragIdx < 0 && items[i].ID == dragID {
			dragIdx = i
		}
		if dropIdx < 0 && items[i].ID == dropID {
			dropIdx = i
		}
	}
	if dragIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, dragID)
	}
	if dropIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, dropID)
	}

	out := make([]domain.MenuItem, len(items))
	copy(out, items)

	drop := out[dropIdx]
	var newParent string
	if pos == Inside {
		newParent = drop.ID
	} else {
		newParent = drop.Parent()
	}

	if newParent != "" && isDescendantOrSelf(out, newParent, dragID) {
		return nil, ErrCycle
	}
	if dragID == dropID {
		// Before or after itself.
		return out, nil
	}

	var newSort int
	switch pos {
	case Inside:
		highest := 0
		for i := range out {
			if i != dragIdx && out[i].Parent() == newParent {
				highest = max(highest, out[i].Sort)
			}
		}
		newSort = highest + 1
	case Before:
		newSort = drop.Sort
		for i := range out {
			if i != dragIdx && out[i].Parent() == newParent && out[i].Sort >= newSort {
				out[i].Sort++
			}
		}
	case After:
		newSort = drop.Sort + 1
		for i := range out {
			if i != dragIdx && out[i].Parent() == newParent && out[i].Sort > drop.Sort {
				out[i].Sort++
			}
		}
	}

	out[dragIdx].ParentID = domain.StringPtr(newParent)
	out[dragIdx].Sort = newSort
	return out, nil
}

// isDescendantOrSelf reports whether id is ancestor itself or one of its
// descendants, following parent links in items.
func isDescendantOrSelf(items []domain.MenuItem, id, ancestor string) bool {
	parentOf := make(map[string]string, len(items))
	for i := range items {
		if _, seen := parentOf[items[i].ID]; !seen {
			parentOf[items[i].ID] = items[i].Parent()
		}
	}

	visited := make(map[string]bool)
	for cur := id; cur != "" && !visited[cur]; cur = parentOf[cur] {
		if cur == ancestor {
			return true
		}
		visited[cur] = true
	}
	return false
}
