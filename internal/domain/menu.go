package domain

// MenuType is a named navigation menu. ID is a slug chosen by the user.
type MenuType struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// MenuItem is one entry of a menu in flat, parent-pointer form.
// The flat list is the source of truth; trees are derived from it.
type MenuItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ParentID    *string   `json:"parentId"`
	CustomURL   string    `json:"customUrl,omitempty"`
	Route       string    `json:"route,omitempty"`
	RouteParams string    `json:"routeParams,omitempty"`
	Sort        int       `json:"sort"`
	CreatedAt   Timestamp `json:"createdAt,omitzero"`
	UpdatedAt   Timestamp `json:"updatedAt,omitzero"`
}

// Parent returns the parent id, or "" for a root item.
func (m *MenuItem) Parent() string {
	if m.ParentID == nil {
		return ""
	}
	return *m.ParentID
}

// MenuNode is an item in the derived tree view.
type MenuNode struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Route     string      `json:"route,omitempty"`
	CustomURL string      `json:"customUrl,omitempty"`
	Sort      int         `json:"sort"`
	Children  []*MenuNode `json:"children"`
}

// Placement is the position of an item as written back on a structural save.
type Placement struct {
	ID       string  `json:"id"`
	ParentID *string `json:"parentId"`
	Sort     int     `json:"sort"`
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
