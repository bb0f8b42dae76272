package menu

import (
	"fmt"

	"github.com/vantagepoint/vantage-admin/internal/domain"
)

// IssueKind classifies a structural problem in a flat list.
type IssueKind string

// Issue kinds reported by Check.
const (
	IssueDuplicateID    IssueKind = "duplicate_id"
	IssueSelfParent     IssueKind = "self_parent"
	IssueDanglingParent IssueKind = "dangling_parent"
	IssueCycle          IssueKind = "cycle"
)

// Issue is one problem found in a flat list. BuildTree still renders the
// item; the issue explains why it appears where it does.
type Issue struct {
	ItemID string
	Kind   IssueKind
	Detail string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s (%s)", i.ItemID, i.Kind, i.Detail)
}

// Check reports items that BuildTree roots or drops instead of placing under
// their declared parent. Items are not modified. An empty result means the
// flat list and its tree agree.
func Check(items []domain.MenuItem) []Issue {
	var issues []Issue

	seen := make(map[string]bool, len(items))
	kept := make([]int, 0, len(items))
	for i := range items {
		id := items[i].ID
		if seen[id] {
			issues = append(issues, Issue{ItemID: id, Kind: IssueDuplicateID, Detail: fmt.Sprintf("item %d ignored", i)})
			continue
		}
		seen[id] = true
		kept = append(kept, i)
	}

	parents := make(map[string]string, len(items))
	for _, i := range kept {
		it := &items[i]
		p := it.Parent()
		switch {
		case p == "":
		case p == it.ID:
			issues = append(issues, Issue{ItemID: it.ID, Kind: IssueSelfParent, Detail: "rendered as root"})
		case !seen[p]:
			issues = append(issues, Issue{ItemID: it.ID, Kind: IssueDanglingParent, Detail: fmt.Sprintf("parent %s not in list, rendered as root", p)})
		case reaches(parents, p, it.ID):
			issues = append(issues, Issue{ItemID: it.ID, Kind: IssueCycle, Detail: fmt.Sprintf("parent %s is its descendant, rendered as root", p)})
		default:
			parents[it.ID] = p
		}
	}

	return issues
}
