package engine

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ============================================================================
// EXECUTOR — Dispatcher from OutputSpec to render-ready Result
// ============================================================================
// Entry point: Execute(spec, view, opts...)
//
// Pipeline:
//   1. Apply dimension filters
//   2. Drop records missing the group dimension (and year, when used)
//   3. Aggregate per spec.Aggregation
//   4. Dispatch to builder (chart / table)
//   5. Attach a one-line summary
//
// Nothing is drawn or written here.
// ============================================================================

// Execute runs an OutputSpec against a RecordView and returns a Result.
func Execute(spec OutputSpec, view RecordView, opts ...Option) (*Result, error) {
	cfg := applyOptions(opts)
	log := cfg.Logger.With(zap.String("output", spec.Name))

	if err := Validate(spec); err != nil {
		return nil, err
	}

	log.Debug("executing output",
		zap.Int("records", view.Len()),
		zap.String("aggregation", spec.Aggregation),
		zap.String("visualize", spec.Visualize))

	if !spec.Filters.IsEmpty() {
		before := view.Len()
		view = ApplyFilters(view, spec.Filters)
		log.Debug("filters applied", zap.Int("before", before), zap.Int("after", view.Len()))
	}

	var dims []string
	if spec.GroupBy != "" {
		dims = append(dims, spec.GroupBy)
	}
	if spec.Aggregation == "yearly_mean" || spec.Aggregation == "trend" {
		dims = append(dims, cfg.YearKey)
	}
	view = DropMissing(view, dims, nil)

	result := &Result{Success: true, Name: spec.Name, Title: spec.Title, Type: spec.Intent}

	switch spec.Aggregation {
	case "describe":
		rows := DescribeByGroup(view, spec.GroupBy, spec.Measures, spec.SortBy)
		result.TableData = BuildStatsTable(spec, rows, spec.Measures, cfg)
		result.Summary = SummarizeStats(rows, spec.Measures)

	case "yearly_mean":
		rows := YearlyMeans(view, cfg.YearKey, spec.Measures)
		if spec.Intent == "chart" {
			result.ChartConfig = BuildYearlyChart(spec, rows, spec.Measures, cfg.displayName, cfg.Palette)
		} else {
			result.TableData = BuildYearlyTable(spec, rows, spec.Measures, cfg)
		}
		result.Summary = SummarizeYearly(rows)

	case "distribution":
		measure := spec.Measures[0]
		var dists []Distribution
		for _, g := range SortGroups(groupBySingle(view, spec.GroupBy), spec.SortBy) {
			dists = append(dists, Distribution{Group: g.Key, Values: Values(g.View, measure)})
		}
		result.ChartConfig = BuildBoxChart(spec, dists, cfg.Palette)

	case "pairs":
		x, y := spec.Measures[0], spec.Measures[1]
		var groups []GroupPoints
		for _, g := range SortGroups(groupBySingle(view, spec.GroupBy), spec.SortBy) {
			xs, ys := PairedValues(g.View, x, y)
			groups = append(groups, GroupPoints{Group: g.Key, X: xs, Y: ys})
		}
		result.ChartConfig = BuildScatterChart(spec, groups, Values(view, x), cfg.Palette)

	case "correlation":
		corrs := CorrelateByGroup(view, spec.GroupBy, spec.Measures[0], spec.Measures[1], spec.SortBy)
		result.ChartConfig = BuildCorrelationChart(spec, corrs, cfg.Palette)
		result.Summary = SummarizeCorrelations(corrs)

	case "trend":
		trends := buildTrends(view, spec, cfg.YearKey)
		result.ChartConfig = BuildTrendChart(spec, trends, spec.Measures, cfg.displayName, cfg.Palette)

	default: // "avg", "median", "sum", "count", "max", "min"
		groups := GroupAndAggregate(view, spec.GroupBy, spec.Measures[0], spec.Aggregation, spec.SortBy, 0)
		result.ChartConfig = BuildBarChart(spec, groups, cfg.Palette)
	}

	if spec.Intent == "chart" {
		if result.ChartConfig == nil {
			result.Success = false
			result.Errors = append(result.Errors, "not enough data to draw "+spec.Name)
			log.Warn("chart has no data", zap.Int("records", view.Len()))
			return result, nil
		}
		if result.Summary == "" {
			result.Summary = SummarizeChart(result.ChartConfig)
		}
	}

	log.Debug("output ready", zap.String("summary", result.Summary))
	return result, nil
}

// ============================================================================
// VALIDATION
// ============================================================================

// visualForms lists the visualizations each aggregation can produce; the
// first is its default chart. Aggregations not listed draw bars.
var visualForms = map[string][]string{
	"describe":     {"table"},
	"yearly_mean":  {"dual_axis", "table"},
	"distribution": {"box"},
	"pairs":        {"scatter"},
	"correlation":  {"bar"},
	"trend":        {"multi_line"},
}

func formsOf(aggregation string) []string {
	if forms, ok := visualForms[aggregation]; ok {
		return forms
	}
	return []string{"bar"}
}

var measureArity = map[string]int{
	"describe":     1,
	"yearly_mean":  1,
	"distribution": 1,
	"pairs":        2,
	"correlation":  2,
	"trend":        1,
}

// Validate checks that spec is executable: a known intent, a visualization
// its aggregation can produce, enough measures and a group-by dimension.
func Validate(spec OutputSpec) error {
	switch spec.Intent {
	case "chart", "table":
	default:
		return fmt.Errorf("output %q: unknown intent %q", spec.Name, spec.Intent)
	}
	if spec.Intent == "table" && spec.Aggregation != "describe" && spec.Aggregation != "yearly_mean" {
		return fmt.Errorf("output %q: aggregation %q has no table form", spec.Name, spec.Aggregation)
	}
	if spec.Intent == "chart" && spec.Aggregation == "describe" {
		return fmt.Errorf("output %q: describe has no chart form", spec.Name)
	}
	if spec.Visualize != "" {
		forms := formsOf(spec.Aggregation)
		ok := false
		for _, f := range forms {
			ok = ok || f == spec.Visualize
		}
		if !ok {
			return fmt.Errorf("output %q: aggregation %q cannot be drawn as %q (want one of %s)",
				spec.Name, spec.Aggregation, spec.Visualize, strings.Join(forms, ", "))
		}
		if (spec.Visualize == "table") != (spec.Intent == "table") {
			return fmt.Errorf("output %q: visualize %q does not match intent %q",
				spec.Name, spec.Visualize, spec.Intent)
		}
	}
	min, ok := measureArity[spec.Aggregation]
	if !ok {
		min = 1
	}
	if len(spec.Measures) < min {
		return fmt.Errorf("output %q: aggregation %q needs %d measures, got %d",
			spec.Name, spec.Aggregation, min, len(spec.Measures))
	}
	if spec.GroupBy == "" && spec.Aggregation != "yearly_mean" {
		return fmt.Errorf("output %q: aggregation %q needs a group-by dimension", spec.Name, spec.Aggregation)
	}
	return nil
}

// ============================================================================
// INTERNAL HELPERS
// ============================================================================

// buildTrends collects each group's yearly values, groups in order of first
// appearance unless spec.SortBy says otherwise.
func buildTrends(view RecordView, spec OutputSpec, yearKey string) []GroupTrend {
	groups := SortGroups(groupBySingle(view, spec.GroupBy), spec.SortBy)
	trends := make([]GroupTrend, 0, len(groups))
	for _, g := range groups {
		t := GroupTrend{Group: g.Key, Values: make(map[string][]NullFloat, len(spec.Measures))}
		for i := 0; i < g.View.Len(); i++ {
			y, err := strconv.Atoi(g.View.Dimension(i, yearKey))
			if err != nil {
				continue
			}
			t.Years = append(t.Years, y)
			for _, m := range spec.Measures {
				v, ok := g.View.Measure(i, m)
				nf := Missing
				if ok {
					nf = Float(v)
				}
				t.Values[m] = append(t.Values[m], nf)
			}
		}
		trends = append(trends, t)
	}
	return trends
}
