package listing

import (
	"fmt"
	"slices"

	"genai_portfolio/internal/domain"
)

// CategorySet is the enumerated set of values a listing page offers in its
// filter control. The "All" sentinel always comes first.
type CategorySet struct {
	values []string
}

func NewCategorySet(categories ...string) CategorySet {
	values := []string{domain.AllCategories}
	for _, c := range categories {
		if c == "" || slices.Contains(values, c) {
			continue
		}
		values = append(values, c)
	}
	return CategorySet{values: values}
}

// Values returns the filter values in display order, "All" included.
func (s CategorySet) Values() []string {
	return slices.Clone(s.values)
}

func (s CategorySet) Contains(category string) bool {
	return category == "" || slices.Contains(s.values, category)
}

// Validate reports items none of whose categories is offered by the set.
// Such items could never be reached through the filter control.
func Validate[T domain.Searchable](s CategorySet, items []T) error {
	for _, item := range items {
		if !slices.ContainsFunc(item.Categories(), func(c string) bool { return slices.Contains(s.values[1:], c) }) {
			return fmt.Errorf("item %q has no category in %v: %w", item.ItemID(), s.values[1:], domain.ErrValidation)
		}
	}
	return nil
}

// ValidateIDs reports the first duplicate id in items.
func ValidateIDs[T domain.Searchable](items []T) error {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, dup := seen[item.ItemID()]; dup {
			return fmt.Errorf("duplicate id %q: %w", item.ItemID(), domain.ErrValidation)
		}
		seen[item.ItemID()] = struct{}{}
	}
	return nil
}
