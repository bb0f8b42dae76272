package client

import (
	"net/http"
	"strconv"
)

// Pagination headers sent by list endpoints.
const (
	HeaderTotalCount  = "X-Pagination-Total-Count"
	HeaderPageCount   = "X-Pagination-Page-Count"
	HeaderCurrentPage = "X-Pagination-Current-Page"
	HeaderPerPage     = "X-Pagination-Per-Page"
)

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	TotalCount  int `json:"totalCount"`
	PageCount   int `json:"pageCount"`
	CurrentPage int `json:"currentPage"`
	PerPage     int `json:"perPage"`
}

// HasNext reports whether a later page exists.
func (p Pagination) HasNext() bool {
	return p.CurrentPage < p.PageCount
}

// Page is one page of a list endpoint.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// parsePagination reads the pagination headers. Missing or malformed headers
// fall back to 0 items on a single page of 10.
func parsePagination(h http.Header) Pagination {
	return Pagination{
		TotalCount:  headerInt(h, HeaderTotalCount, 0),
		PageCount:   headerInt(h, HeaderPageCount, 1),
		CurrentPage: headerInt(h, HeaderCurrentPage, 1),
		PerPage:     headerInt(h, HeaderPerPage, 10),
	}
}

func headerInt(h http.Header, key string, def int) int {
	v := h.Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
