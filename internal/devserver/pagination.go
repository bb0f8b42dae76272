package devserver

import (
	"net/http"
	"strconv"
)

// Pagination headers, as the production backend sends them.
const (
	headerTotalCount  = "X-Pagination-Total-Count"
	headerPageCount   = "X-Pagination-Page-Count"
	headerCurrentPage = "X-Pagination-Current-Page"
	headerPerPage     = "X-Pagination-Per-Page"

	defaultPerPage = 10
	maxPerPage     = 50
)

// paginate writes the pagination headers and returns the requested page of
// items. Pages past the end are empty.
func paginate[T any](w http.ResponseWriter, r *http.Request, items []T) []T {
	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	perPage := min(max(queryInt(r, "per-page", defaultPerPage), 1), maxPerPage)

	total := len(items)
	pageCount := (total + perPage - 1) / perPage

	h := w.Header()
	h.Set(headerTotalCount, strconv.Itoa(total))
	h.Set(headerPageCount, strconv.Itoa(pageCount))
	h.Set(headerCurrentPage, strconv.Itoa(page))
	h.Set(headerPerPage, strconv.Itoa(perPage))

	start := (page - 1) * perPage
	if start >= total {
		return []T{}
	}
	return items[start:min(start+perPage, total)]
}

func queryInt(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return def
	}
	return n
}
