package engine

import (
	"sort"
	"strings"
)

// ============================================================================
// FILTERS — Dimension filters and missing-value selection via RecordView
// ============================================================================
// Both return a SubView (index list into parent), no data copy.
// ============================================================================

// Filters define which records to include.
// Keys are dimension names. Values are allowed values.
// OR within a dimension, AND across dimensions. Empty = all.
//
//	filters:
//	  income_group: [Low income, Lower middle income]
type Filters struct {
	Dimensions map[string][]string `json:"dimensions" yaml:",inline"`
}

// Keys returns the filtered dimension names, sorted.
func (f Filters) Keys() []string {
	keys := make([]string, 0, len(f.Dimensions))
	for dim, vals := range f.Dimensions {
		if len(vals) > 0 {
			keys = append(keys, dim)
		}
	}
	sort.Strings(keys)
	return keys
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	for _, vals := range f.Dimensions {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// ApplyFilters returns a view of records matching all dimension filters.
// Matching is case-insensitive. Empty filter returns the original view.
func ApplyFilters(view RecordView, filters Filters) RecordView {
	if filters.IsEmpty() {
		return view
	}

	sets := make(map[string]map[string]bool)
	for dim, allowed := range filters.Dimensions {
		if len(allowed) > 0 {
			sets[dim] = toLowerSet(allowed)
		}
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for dim, set := range sets {
			if !set[strings.ToLower(view.Dimension(i, dim))] {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}

// DropMissing returns a view of records where every listed dimension is
// non-empty and every listed measure is present.
func DropMissing(view RecordView, dimensions []string, measures []string) RecordView {
	if len(dimensions) == 0 && len(measures) == 0 {
		return view
	}

	n := view.Len()
	indices := make([]int, 0, n)
rows:
	for i := 0; i < n; i++ {
		for _, d := range dimensions {
			if view.Dimension(i, d) == "" {
				continue rows
			}
		}
		for _, m := range measures {
			if _, ok := view.Measure(i, m); !ok {
				continue rows
			}
		}
		indices = append(indices, i)
	}
	if len(indices) == n {
		return view
	}
	return newSubView(view, indices)
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
