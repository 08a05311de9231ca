package engine

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// ============================================================================
// AGGREGATORS — Grouping, Statistics, and Sorting via RecordView
// ============================================================================
// All functions read the input table in place through RecordView.
// Grouping produces SubViews (index lists into parent view).
// Missing values are excluded per measure, never row-wise, unless a caller
// asks for paired observations.
// ============================================================================

// IncomeOrder is the fixed display order of World Bank income groups.
var IncomeOrder = []string{"High income", "Upper middle income", "Lower middle income", "Low income"}

var incomeLabels = map[string]string{
	"High income":         "High Income",
	"Upper middle income": "Upper-Mid Income",
	"Lower middle income": "Lower-Mid Income",
	"Low income":          "Low Income",
}

// IncomeLabel returns the display label for an income group.
func IncomeLabel(group string) string {
	if l, ok := incomeLabels[group]; ok {
		return l
	}
	return group
}

// GroupAndAggregate is the generic aggregation pipeline.
// Pipeline: group → aggregate → sort → limit.
func GroupAndAggregate(
	view RecordView,
	groupBy string,
	measure string,
	aggregation string,
	sortBy string,
	limit int,
) []Group {
	if view.Len() == 0 {
		return nil
	}

	// 1. Group
	var groups []Group
	if groupBy == "" {
		groups = []Group{{Key: "all", Label: "Total", View: view}}
	} else {
		groups = groupBySingle(view, groupBy)
	}

	// 2. Aggregate
	for i := range groups {
		aggregateGroup(&groups[i], measure, aggregation)
	}

	// 3. Sort
	groups = SortGroups(groups, sortBy)

	// 4. Limit
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}

	return groups
}

// ============================================================================
// GROUPING
// ============================================================================

// groupBySingle partitions a view by one dimension, in order of first
// appearance. Records with an empty key are dropped.
func groupBySingle(view RecordView, dimension string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		if key == "" {
			continue
		}
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Label: key,
			Count: len(grouped[key]),
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

// ============================================================================
// AGGREGATION
// ============================================================================

func aggregateGroup(group *Group, measure string, aggregation string) {
	group.Count = group.View.Len()
	values := Values(group.View, measure)

	switch aggregation {
	case "count":
		group.Value = Float(float64(len(values)))
	case "sum":
		var total float64
		for _, v := range values {
			total += v
		}
		group.Value = Float(total)
	case "median":
		group.Value = Median(values)
	case "max", "min":
		if len(values) == 0 {
			group.Value = Missing
			return
		}
		m := values[0]
		for _, v := range values[1:] {
			if (aggregation == "max" && v > m) || (aggregation == "min" && v < m) {
				m = v
			}
		}
		group.Value = Float(m)
	default: // "avg"
		group.Value = Mean(values)
	}
}

// Mean returns the arithmetic mean, or Missing for no values.
func Mean(values []float64) NullFloat {
	if len(values) == 0 {
		return Missing
	}
	return Float(stat.Mean(values, nil))
}

// Median returns the middle value, averaging the two middle values for an
// even count. Missing for no values. values is not modified.
func Median(values []float64) NullFloat {
	n := len(values)
	if n == 0 {
		return Missing
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return Float(sorted[n/2])
	}
	return Float((sorted[n/2-1] + sorted[n/2]) / 2)
}

// StdDev returns the sample standard deviation (n-1 denominator), or Missing
// for fewer than two values.
func StdDev(values []float64) NullFloat {
	if len(values) < 2 {
		return Missing
	}
	return Float(stat.StdDev(values, nil))
}

// Describe computes mean, median, sample std and count of values.
func Describe(values []float64) Stats {
	return Stats{
		Mean:   Mean(values),
		Median: Median(values),
		Std:    StdDev(values),
		Count:  len(values),
	}
}

// Pearson returns the Pearson correlation of paired samples. Missing when
// fewer than two pairs exist or either side has zero variance.
func Pearson(x, y []float64) NullFloat {
	if len(x) != len(y) || len(x) < 2 {
		return Missing
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return Missing
	}
	return Float(r)
}

// DescribeByGroup computes descriptive statistics of each measure per group.
// Each measure drops its own missing values; a record missing one indicator
// still counts toward the others.
func DescribeByGroup(view RecordView, groupKey string, measures []string, sortBy string) []GroupStats {
	groups := SortGroups(groupBySingle(view, groupKey), sortBy)

	out := make([]GroupStats, 0, len(groups))
	for _, g := range groups {
		gs := GroupStats{Group: g.Key, Measures: make(map[string]Stats, len(measures))}
		for _, m := range measures {
			gs.Measures[m] = Describe(Values(g.View, m))
		}
		out = append(out, gs)
	}
	return out
}

// YearlyMeans computes, for each year, the mean of each measure across all
// records of that year. Records with an empty or non-integer year are
// skipped. Years are returned ascending.
func YearlyMeans(view RecordView, yearKey string, measures []string) []YearMeans {
	byYear := make(map[int][]int)
	for i := 0; i < view.Len(); i++ {
		y, err := strconv.Atoi(view.Dimension(i, yearKey))
		if err != nil {
			continue
		}
		byYear[y] = append(byYear[y], i)
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]YearMeans, 0, len(years))
	for _, y := range years {
		sub := newSubView(view, byYear[y])
		ym := YearMeans{Year: y, Means: make(map[string]NullFloat, len(measures))}
		for _, m := range measures {
			ym.Means[m] = Mean(Values(sub, m))
		}
		out = append(out, ym)
	}
	return out
}

// CorrelateByGroup computes Pearson r between measures x and y per group,
// using only records where both are present.
func CorrelateByGroup(view RecordView, groupKey, x, y string, sortBy string) []Correlation {
	groups := SortGroups(groupBySingle(view, groupKey), sortBy)

	out := make([]Correlation, 0, len(groups))
	for _, g := range groups {
		xs, ys := PairedValues(g.View, x, y)
		out = append(out, Correlation{
			Group: g.Key,
			R:     Pearson(xs, ys),
			Pairs: len(xs),
		})
	}
	return out
}

// PairedValues collects (x, y) for records where both measures are present.
func PairedValues(view RecordView, x, y string) ([]float64, []float64) {
	xs := make([]float64, 0, view.Len())
	ys := make([]float64, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		xv, okx := view.Measure(i, x)
		yv, oky := view.Measure(i, y)
		if okx && oky {
			xs = append(xs, xv)
			ys = append(ys, yv)
		}
	}
	return xs, ys
}

// ============================================================================
// SORTING
// ============================================================================

// SortGroups orders groups by the specified mode and returns the result.
//
//	income_order  known income groups first in fixed order, others alphabetical
//	income_only   known income groups in fixed order, others dropped
//	value_desc    by aggregated value, missing last
//	value_asc     by aggregated value, missing last
//	label_asc     alphabetical
//	(default)     order of first appearance
func SortGroups(groups []Group, sortBy string) []Group {
	switch sortBy {
	case "income_order", "income_only":
		rank := make(map[string]int, len(IncomeOrder))
		for i, g := range IncomeOrder {
			rank[g] = i
		}
		out := groups[:0:0]
		for _, g := range groups {
			if _, known := rank[g.Key]; known || sortBy == "income_order" {
				out = append(out, g)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			ri, ki := rank[out[i].Key]
			rj, kj := rank[out[j].Key]
			switch {
			case ki && kj:
				return ri < rj
			case ki != kj:
				return ki
			default:
				return out[i].Key < out[j].Key
			}
		})
		return out
	case "value_desc", "value_asc":
		desc := sortBy == "value_desc"
		sort.SliceStable(groups, func(i, j int) bool {
			a, b := groups[i].Value, groups[j].Value
			if a.Valid != b.Valid {
				return a.Valid
			}
			if desc {
				return a.Float64 > b.Float64
			}
			return a.Float64 < b.Float64
		})
	case "label_asc":
		sort.SliceStable(groups, func(i, j int) bool {
			return strings.ToLower(groups[i].Key) < strings.ToLower(groups[j].Key)
		})
	}
	return groups
}

// LabelForDimension returns a capitalized label for a key: "gdp_pc" → "Gdp pc".
func LabelForDimension(key string) string {
	if key == "" {
		return ""
	}
	s := strings.ReplaceAll(key, "_", " ")
	return strings.ToUpper(s[:1]) + s[1:]
}
