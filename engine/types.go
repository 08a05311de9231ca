package engine

import "strconv"

// ============================================================================
// ENGINE TYPES — Indicator records, aggregates, render-ready output
// ============================================================================

// ============================================================================
// RECORD — One row of an indicator table
// ============================================================================

// Record is a single data row with string dimensions and numeric measures.
// A measure absent from Measures is missing (unparseable or empty cell).
//
//	Record{Dimensions["income_group"]="Low income", Measures["gdp_pc"]=612.4}
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// ============================================================================
// NULLABLE FLOAT — Statistics that may be undefined
// ============================================================================

// NullFloat is a statistic that may be undefined (std of one value,
// correlation of fewer than two pairs).
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Float wraps a defined value.
func Float(v float64) NullFloat { return NullFloat{Float64: v, Valid: true} }

// Missing is the undefined value.
var Missing = NullFloat{}

// String formats the value for CSV output; undefined values are empty.
func (n NullFloat) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Float64, 'f', -1, 64)
}

// ============================================================================
// AGGREGATES
// ============================================================================

// Stats holds descriptive statistics of one indicator within one group.
type Stats struct {
	Mean   NullFloat `json:"mean"`
	Median NullFloat `json:"median"`
	Std    NullFloat `json:"std"` // sample standard deviation (n-1)
	Count  int       `json:"count"`
}

// GroupStats is one aggregate record of the by-group statistics.
type GroupStats struct {
	Group    string           `json:"group"`
	Measures map[string]Stats `json:"measures"`
}

// YearMeans is one aggregate record of the by-year statistics.
type YearMeans struct {
	Year  int                  `json:"year"`
	Means map[string]NullFloat `json:"means"`
}

// Correlation is the Pearson coefficient between two indicators in one group.
type Correlation struct {
	Group string    `json:"group"`
	R     NullFloat `json:"r"`
	Pairs int       `json:"pairs"`
}

// ============================================================================
// OUTPUT SPEC — What to compute and how to present it
// ============================================================================

// OutputSpec defines one output file of a run.
type OutputSpec struct {
	Name        string   `json:"name" yaml:"name"`               // file name, e.g. "gdp_growth_boxplot.png"
	Source      string   `json:"source" yaml:"source"`           // input table key
	Intent      string   `json:"intent" yaml:"intent"`           // "chart", "table"
	Aggregation string   `json:"aggregation" yaml:"aggregation"` // "describe", "yearly_mean", "correlation", "distribution", "pairs", "avg", "trend"
	GroupBy     string   `json:"groupBy" yaml:"group_by"`        // dimension key
	Filters     Filters  `json:"filters" yaml:"filters"`         // dimension → allowed values
	Measures    []string `json:"measures" yaml:"measures"`       // measure keys; order matters for pairs/correlation (x, y)
	SortBy      string   `json:"sortBy" yaml:"sort_by"`          // "income_order", "appearance", "value_desc", ...
	Visualize   string   `json:"visualize" yaml:"visualize"`     // "box", "scatter", "bar", "multi_line", "dual_axis", "table"
	Title       string   `json:"title" yaml:"title"`
	XAxis       string   `json:"xAxis,omitempty" yaml:"x_axis,omitempty"`
	YAxis       string   `json:"yAxis,omitempty" yaml:"y_axis,omitempty"`
}

// Fields returns every field key the output reads: its group-by dimension,
// filtered dimensions, the year for temporal aggregations, and its measures.
// Keys appear once.
func (s OutputSpec) Fields(yearKey string) []string {
	var keys []string
	add := func(k string) {
		for _, have := range keys {
			if have == k {
				return
			}
		}
		keys = append(keys, k)
	}
	if s.GroupBy != "" {
		add(s.GroupBy)
	}
	for _, k := range s.Filters.Keys() {
		add(k)
	}
	if s.Aggregation == "yearly_mean" || s.Aggregation == "trend" {
		add(yearKey)
	}
	for _, m := range s.Measures {
		add(m)
	}
	return keys
}

// ============================================================================
// RESULT — Render-ready output
// ============================================================================

// Result is the engine's render-ready output.
type Result struct {
	Success bool   `json:"success"`
	Type    string `json:"type"` // "chart", "table"
	Name    string `json:"name"`
	Title   string `json:"title"`
	Summary string `json:"summary"`

	// Exactly one of these is populated based on Type.
	ChartConfig *ChartConfig `json:"chartConfig,omitempty"`
	TableData   *TableData   `json:"tableData,omitempty"`

	Errors []string `json:"errors,omitempty"`
}

// ============================================================================
// GROUP — Intermediate computation result
// ============================================================================

// Group represents a grouped/aggregated result.
type Group struct {
	Key   string     `json:"key"`
	Label string     `json:"label"`
	Value NullFloat  `json:"value"`
	Count int        `json:"count"` // records in the group
	View  RecordView `json:"-"`     // sub-view for records in this group (zero-copy)
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart. Multi-panel charts carry their
// panels in Panels and leave Series empty.
type ChartConfig struct {
	ChartType  string        `json:"chartType"` // "box", "scatter", "bar", "line", "panels"
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series,omitempty"`
	Panels     []ChartConfig `json:"panels,omitempty"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`

	LogX        bool      `json:"logX,omitempty"`
	XTicks      []float64 `json:"xTicks,omitempty"` // explicit tick positions (log-x scatter)
	YMin        *float64  `json:"yMin,omitempty"`
	YMax        *float64  `json:"yMax,omitempty"`
	ZeroLine    bool      `json:"zeroLine,omitempty"`
	ValueLabels bool      `json:"valueLabels,omitempty"`

	Width  float64 `json:"width"`  // inches
	Height float64 `json:"height"` // inches
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name   string       `json:"name"`
	Data   []ChartPoint `json:"data,omitempty"`
	Values []float64    `json:"values,omitempty"` // raw distribution for box plots
	Color  string       `json:"color,omitempty"`
	Marker string       `json:"marker,omitempty"` // "circle", "square", "triangle"
}

// ChartPoint represents a single data point. Category charts use Label,
// numeric-x charts use X.
type ChartPoint struct {
	Label   string  `json:"label,omitempty"`
	X       float64 `json:"x,omitempty"`
	Value   float64 `json:"value"`
	Missing bool    `json:"missing,omitempty"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines a derived table. Column keys become the CSV header.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"` // "text", "number"
}

// Header returns the column keys in order.
func (t *TableData) Header() []string {
	h := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		h[i] = c.Key
	}
	return h
}
