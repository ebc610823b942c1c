// Package listing filters, searches and sorts content collections.
//
// Every function here is pure: inputs are never mutated and the same
// (items, query) pair always yields the same output in the same order.
package listing

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"genai_portfolio/internal/domain"
)

// Result is the outcome of applying a query to a collection.
type Result[T domain.Searchable] struct {
	Items []T              `json:"items"`
	Total int              `json:"total"`
	Query domain.QuerySpec `json:"query"`
}

// Empty reports whether nothing matched. Callers render a "no results"
// state with a reset action (see domain.QuerySpec.Reset).
func (r Result[T]) Empty() bool {
	return len(r.Items) == 0
}

// Query applies query to items and wraps the output with the totals the
// page needs.
func Query[T domain.Searchable](items []T, query domain.QuerySpec) Result[T] {
	return Result[T]{
		Items: Apply(items, query),
		Total: len(items),
		Query: query,
	}
}

// Apply returns the items matching query's category and text predicates,
// ordered by query.Sort when the item kind is sortable and by input order
// otherwise.
func Apply[T domain.Searchable](items []T, query domain.QuerySpec) []T {
	needle := query.Needle()

	out := make([]T, 0, len(items))
	for _, item := range items {
		if !matchesCategory(item, query) {
			continue
		}
		if needle != "" && !matchesText(item, needle) {
			continue
		}
		out = append(out, item)
	}

	if query.Sort != domain.SortNone && sortable[T]() {
		slices.SortStableFunc(out, func(a, b T) int {
			return compareBy(query.Sort, any(a).(domain.Sortable), any(b).(domain.Sortable))
		})
	}

	return out
}

func matchesCategory(item domain.Searchable, query domain.QuerySpec) bool {
	if query.AllSelected() {
		return true
	}
	return slices.Contains(item.Categories(), query.Category)
}

func matchesText(item domain.Searchable, needle string) bool {
	if strings.Contains(strings.ToLower(item.ItemTitle()), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(item.ItemExcerpt()), needle) {
		return true
	}
	for _, tag := range item.SearchTags() {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func sortable[T domain.Searchable]() bool {
	var zero T
	_, ok := any(zero).(domain.Sortable)
	return ok
}

// compareBy orders descending on the chosen key. Equal keys compare as 0 so
// the stable sort keeps authoring order.
func compareBy(key domain.SortKey, a, b domain.Sortable) int {
	switch key {
	case domain.SortPopular:
		return cmp.Compare(b.ItemMetrics().Likes, a.ItemMetrics().Likes)
	case domain.SortViews:
		return cmp.Compare(b.ItemMetrics().Views, a.ItemMetrics().Views)
	case domain.SortNewest:
		if c := b.ItemDate().Compare(a.ItemDate()); c != 0 {
			return c
		}
		return compareIDs(b.ItemID(), a.ItemID())
	}
	return 0
}

// compareIDs orders numeric identifiers numerically. Non-numeric ids carry
// no recency information and compare equal.
func compareIDs(a, b string) int {
	x, errA := strconv.ParseInt(a, 10, 64)
	y, errB := strconv.ParseInt(b, 10, 64)
	if errA != nil || errB != nil {
		return 0
	}
	return cmp.Compare(x, y)
}
