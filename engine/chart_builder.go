package engine

import (
	"fmt"
	"sort"
	"strconv"
)

// ============================================================================
// CHART BUILDER — Produces ChartConfig from aggregates
// ============================================================================
// Pure functions: no drawing happens here. The render package turns a
// ChartConfig into pixels.
// ============================================================================

// Default color palette for chart series (tab10).
var defaultColors = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Standard magnitudes for log-scale GDP per capita ticks.
var logTickCandidates = []float64{500, 1000, 2000, 5000, 10000, 20000, 40000, 80000}

var lineMarkers = []string{"circle", "square", "triangle"}

// Distribution is the raw values of one measure within one group.
type Distribution struct {
	Group  string
	Values []float64
}

// GroupPoints is the paired (x, y) observations of one group.
type GroupPoints struct {
	Group string
	X, Y  []float64
}

// GroupTrend is one group's yearly values of each measure.
type GroupTrend struct {
	Group  string
	Years  []int
	Values map[string][]NullFloat // measure → value per year, aligned with Years
}

// LogTicks returns the candidate ticks lying within [min*0.8, max*1.2].
func LogTicks(min, max float64) []float64 {
	var ticks []float64
	for _, v := range logTickCandidates {
		if v >= min*0.8 && v <= max*1.2 {
			ticks = append(ticks, v)
		}
	}
	return ticks
}

// ============================================================================
// BOX PLOT
// ============================================================================

// BuildBoxChart plots one distribution per group. Groups without values are
// omitted; returns nil when nothing is left.
func BuildBoxChart(spec OutputSpec, dists []Distribution, palette []string) *ChartConfig {
	config := &ChartConfig{
		ChartType: "box",
		Title:     spec.Title,
		XAxis:     spec.XAxis,
		YAxis:     spec.YAxis,
		ShowGrid:  true,
		ZeroLine:  true,
		Width:     8,
		Height:    6,
	}

	for i, d := range dists {
		if len(d.Values) == 0 {
			continue
		}
		config.Series = append(config.Series, ChartSeries{
			Name:   IncomeLabel(d.Group),
			Values: d.Values,
			Color:  palette[i%len(palette)],
		})
	}
	if len(config.Series) == 0 {
		return nil
	}
	config.Colors = seriesColors(config.Series)
	return config
}

// ============================================================================
// SCATTER
// ============================================================================

// BuildScatterChart plots x against y, one series per group, on a log x-axis.
// observed holds every x value seen in the table; tick positions are chosen
// from its range. Groups without points are omitted.
func BuildScatterChart(spec OutputSpec, groups []GroupPoints, observed []float64, palette []string) *ChartConfig {
	config := &ChartConfig{
		ChartType:  "scatter",
		Title:      spec.Title,
		XAxis:      spec.XAxis,
		YAxis:      spec.YAxis,
		ShowLegend: true,
		ShowGrid:   true,
		LogX:       true,
		Width:      8.5,
		Height:     6,
	}

	for i, g := range groups {
		points := make([]ChartPoint, 0, len(g.X))
		for j := range g.X {
			if g.X[j] <= 0 {
				continue // not representable on a log axis
			}
			points = append(points, ChartPoint{X: g.X[j], Value: g.Y[j]})
		}
		if len(points) == 0 {
			continue
		}
		config.Series = append(config.Series, ChartSeries{
			Name:  IncomeLabel(g.Group),
			Data:  points,
			Color: palette[i%len(palette)],
		})
	}
	if len(config.Series) == 0 {
		return nil
	}

	lo, hi, ok := positiveRange(observed)
	if ok {
		config.XTicks = LogTicks(lo, hi)
	}
	config.Colors = seriesColors(config.Series)
	return config
}

func positiveRange(values []float64) (float64, float64, bool) {
	lo, hi, found := 0.0, 0.0, false
	for _, v := range values {
		if v <= 0 {
			continue
		}
		if !found || v < lo {
			lo = v
		}
		if !found || v > hi {
			hi = v
		}
		found = true
	}
	return lo, hi, found
}

// ============================================================================
// BAR
// ============================================================================

// BuildCorrelationChart plots one coefficient per group on a fixed [-1, 1]
// axis with value labels. Missing coefficients keep their slot but draw
// nothing.
func BuildCorrelationChart(spec OutputSpec, corrs []Correlation, palette []string) *ChartConfig {
	if len(corrs) == 0 {
		return nil
	}
	lo, hi := -1.0, 1.0
	config := &ChartConfig{
		ChartType:   "bar",
		Title:       spec.Title,
		XAxis:       spec.XAxis,
		YAxis:       spec.YAxis,
		ShowGrid:    true,
		ZeroLine:    true,
		ValueLabels: true,
		YMin:        &lo,
		YMax:        &hi,
		Width:       8,
		Height:      6,
	}

	points := make([]ChartPoint, len(corrs))
	for i, c := range corrs {
		points[i] = ChartPoint{
			Label:   IncomeLabel(c.Group),
			Value:   c.R.Float64,
			Missing: !c.R.Valid,
		}
	}
	config.Series = []ChartSeries{{Name: spec.YAxis, Data: points}}
	config.Colors = assignColors(len(points), palette)
	return config
}

// BuildBarChart plots one aggregated value per group, in the given order.
func BuildBarChart(spec OutputSpec, groups []Group, palette []string) *ChartConfig {
	if len(groups) == 0 {
		return nil
	}
	config := &ChartConfig{
		ChartType: "bar",
		Title:     spec.Title,
		XAxis:     spec.XAxis,
		YAxis:     spec.YAxis,
		ShowGrid:  true,
		Width:     8,
		Height:    6,
	}

	points := make([]ChartPoint, len(groups))
	for i, g := range groups {
		points[i] = ChartPoint{
			Label:   g.Label,
			Value:   g.Value.Float64,
			Missing: !g.Value.Valid,
		}
	}
	config.Series = []ChartSeries{{Name: spec.YAxis, Data: points}}
	config.Colors = assignColors(len(points), palette)
	return config
}

// ============================================================================
// LINE
// ============================================================================

// BuildTrendChart stacks one panel per measure; each panel has one line per
// group with points in ascending year order.
func BuildTrendChart(spec OutputSpec, trends []GroupTrend, measures []string, labels func(string) string, palette []string) *ChartConfig {
	if len(trends) == 0 || len(measures) == 0 {
		return nil
	}
	config := &ChartConfig{
		ChartType: "panels",
		Title:     spec.Title,
		XAxis:     spec.XAxis,
		Width:     10,
		Height:    4 * float64(len(measures)),
	}

	for pi, m := range measures {
		panel := ChartConfig{
			ChartType:  "line",
			Title:      labels(m),
			YAxis:      labels(m),
			ShowLegend: true,
			ShowGrid:   true,
		}
		if pi == len(measures)-1 {
			panel.XAxis = spec.XAxis
		}
		for gi, t := range trends {
			panel.Series = append(panel.Series, ChartSeries{
				Name:   t.Group,
				Data:   yearPoints(t.Years, t.Values[m]),
				Color:  palette[gi%len(palette)],
				Marker: "circle",
			})
		}
		panel.Colors = seriesColors(panel.Series)
		config.Panels = append(config.Panels, panel)
	}
	return config
}

// BuildYearlyChart plots yearly means over time. The first measure gets its
// own panel; the remaining measures share a second panel.
func BuildYearlyChart(spec OutputSpec, yms []YearMeans, measures []string, labels func(string) string, palette []string) *ChartConfig {
	if len(yms) == 0 || len(measures) == 0 {
		return nil
	}
	years := make([]int, len(yms))
	for i, ym := range yms {
		years[i] = ym.Year
	}
	series := func(mi int) ChartSeries {
		m := measures[mi]
		vals := make([]NullFloat, len(yms))
		for i, ym := range yms {
			vals[i] = ym.Means[m]
		}
		return ChartSeries{
			Name:   labels(m),
			Data:   yearPoints(years, vals),
			Color:  palette[mi%len(palette)],
			Marker: lineMarkers[mi%len(lineMarkers)],
		}
	}

	top := ChartConfig{
		ChartType:  "line",
		YAxis:      labels(measures[0]),
		Series:     []ChartSeries{series(0)},
		ShowLegend: true,
		ShowGrid:   true,
	}
	config := &ChartConfig{
		ChartType: "panels",
		Title:     spec.Title,
		XAxis:     spec.XAxis,
		Width:     9,
		Height:    7,
		Panels:    []ChartConfig{top},
	}
	if len(measures) == 1 {
		config.Panels[0].XAxis = spec.XAxis
		return config
	}

	bottom := ChartConfig{
		ChartType:  "line",
		XAxis:      spec.XAxis,
		YAxis:      spec.YAxis,
		ShowLegend: true,
		ShowGrid:   true,
	}
	for mi := 1; mi < len(measures); mi++ {
		bottom.Series = append(bottom.Series, series(mi))
	}
	config.Panels = append(config.Panels, bottom)
	return config
}

// yearPoints pairs years with values, skipping missing ones, ascending by year.
func yearPoints(years []int, vals []NullFloat) []ChartPoint {
	points := make([]ChartPoint, 0, len(years))
	for i, y := range years {
		if i >= len(vals) || !vals[i].Valid {
			continue
		}
		points = append(points, ChartPoint{
			Label: strconv.Itoa(y),
			X:     float64(y),
			Value: vals[i].Float64,
		})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].X < points[j].X })
	return points
}

// ============================================================================
// HELPERS
// ============================================================================

func seriesColors(series []ChartSeries) []string {
	colors := make([]string, len(series))
	for i, s := range series {
		colors[i] = s.Color
	}
	return colors
}

func assignColors(count int, palette []string) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = palette[i%len(palette)]
	}
	return colors
}

// FormatCorrelation formats a coefficient as a bar label.
func FormatCorrelation(r float64) string {
	return fmt.Sprintf("%.2f", r)
}
