package listing

import (
	"slices"

	"genai_portfolio/internal/domain"
)

// DefaultRelatedLimit is the number of related items shown under a detail view.
const DefaultRelatedLimit = 3

// Related returns up to limit items, other than current, that share a
// category or a tag with it. Input order is kept.
func Related[T domain.Searchable](items []T, current T, limit int) []T {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	out := make([]T, 0, limit)
	for _, item := range items {
		if len(out) == limit {
			break
		}
		if item.ItemID() == current.ItemID() {
			continue
		}
		if sharesAny(item.Categories(), current.Categories()) || sharesAny(tagsOf(item), tagsOf(current)) {
			out = append(out, item)
		}
	}
	return out
}

func tagsOf(item domain.Searchable) []string {
	if p, ok := item.(domain.Prompt); ok {
		return p.Tags
	}
	if p, ok := item.(domain.BlogPost); ok {
		return p.Tags
	}
	return item.SearchTags()
}

func sharesAny(a, b []string) bool {
	for _, v := range a {
		if slices.Contains(b, v) {
			return true
		}
	}
	return false
}

// Find returns the item whose id (or slug, for kinds that have one) equals key.
func Find[T domain.Searchable](items []T, key string) (T, bool) {
	for _, item := range items {
		if item.ItemID() == key || (slugOf(item) != "" && slugOf(item) == key) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func slugOf(item domain.Searchable) string {
	switch v := item.(type) {
	case domain.BlogPost:
		return v.Slug
	case domain.UseCase:
		return v.Slug
	}
	return ""
}
