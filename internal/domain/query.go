package domain

import "strings"

// AllCategories is the category sentinel that disables category filtering.
const AllCategories = "All"

// SortKey selects the ordering of a sortable listing. SortNone keeps
// authoring order.
type SortKey string

const (
	SortNone    SortKey = ""
	SortPopular SortKey = "popular"
	SortNewest  SortKey = "newest"
	SortViews   SortKey = "views"
)

// QuerySpec is the current search/filter/sort state of one listing.
type QuerySpec struct {
	SearchText string  `json:"q"`
	Category   string  `json:"category"`
	Sort       SortKey `json:"sort,omitempty"`
}

// ParseSortKey accepts the sort names used by the listing pages and the
// API. Unknown names are a validation error.
func ParseSortKey(raw string) (SortKey, error) {
	switch strings.TrimSpace(raw) {
	case "", "relevance", "none":
		return SortNone, nil
	case "popular", "mostLiked", "mostPopular":
		return SortPopular, nil
	case "newest":
		return SortNewest, nil
	case "views", "mostViewed":
		return SortViews, nil
	default:
		return SortNone, NewValidationError("sort", "unknown sort option "+raw)
	}
}

// Reset returns the identity query: no search text, every category, and
// authoring order.
func (q QuerySpec) Reset() QuerySpec {
	return QuerySpec{Category: AllCategories}
}

// AllSelected reports whether the category filter is disabled.
func (q QuerySpec) AllSelected() bool {
	return q.Category == "" || q.Category == AllCategories
}

// Needle returns the lower-cased search text, or "" when search is off.
// Whitespace-only text turns search off; otherwise the text is matched as
// typed, surrounding spaces included.
func (q QuerySpec) Needle() string {
	if strings.TrimSpace(q.SearchText) == "" {
		return ""
	}
	return strings.ToLower(q.SearchText)
}
