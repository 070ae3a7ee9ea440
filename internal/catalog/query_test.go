package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValues_FilterCombinations(t *testing.T) {
	cases := []struct {
		name     string
		q        ListQuery
		category string
		brand    string
	}{
		{"no filters", ListQuery{}, "", ""},
		{"category only", ListQuery{Category: "laptops"}, "laptops", ""},
		{"brand only", ListQuery{Brand: "acme"}, "", "acme"},
		{"both are independent AND filters", ListQuery{Category: "bikes", Brand: "honda"}, "bikes", "honda"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := tc.q.Values()
			if tc.category == "" {
				assert.False(t, v.Has("category_slug"), "category_slug must be absent")
			} else {
				assert.Equal(t, tc.category, v.Get("category_slug"))
			}
			if tc.brand == "" {
				assert.False(t, v.Has("brand__slug"), "brand__slug must be absent")
			} else {
				assert.Equal(t, tc.brand, v.Get("brand__slug"))
			}
			assert.Equal(t, "1", v.Get("page"), "fresh filter change starts at page 1")
		})
	}
}

func TestValues_OneFilterDoesNotClearTheOther(t *testing.T) {
	v := ListQuery{Category: "bikes", Brand: "honda"}.Values()
	assert.Equal(t, "bikes", v.Get("category_slug"))
	assert.Equal(t, "honda", v.Get("brand__slug"))
}

func TestValues_Pagination(t *testing.T) {
	v := ListQuery{Page: 3, PageSize: 24}.Values()
	assert.Equal(t, "3", v.Get("page"))
	assert.Equal(t, "24", v.Get("page_size"))

	v = ListQuery{Page: -1}.Values()
	assert.Equal(t, "1", v.Get("page"))
	assert.False(t, v.Has("page_size"))
}

func TestValues_SearchAndOrdering(t *testing.T) {
	v := ListQuery{Search: "ssd", Ordering: "-created_at"}.Values()
	assert.Equal(t, "ssd", v.Get("search"))
	assert.Equal(t, "-created_at", v.Get("ordering"))
}
