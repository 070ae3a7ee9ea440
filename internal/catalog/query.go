// Package catalog builds product-listing queries for the commerce backend.
package catalog

import (
	"net/url"
	"strconv"
)

// ListQuery captures the storefront's active filter selections. Category and
// brand are independent AND constraints: when both are set the backend returns
// the intersection, and clearing one never clears the other.
type ListQuery struct {
	Category string // category slug, empty = no category filter
	Brand    string // brand slug, empty = no brand filter
	Search   string
	Ordering string
	Page     int // 0 = fresh filter change, encoded as page=1
	PageSize int
}

// Values encodes the query for the product-listing endpoint. The slugs are
// opaque; no existence check happens before hitting the backend.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category_slug", q.Category)
	}
	if q.Brand != "" {
		v.Set("brand__slug", q.Brand)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Ordering != "" {
		v.Set("ordering", q.Ordering)
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return v
}
