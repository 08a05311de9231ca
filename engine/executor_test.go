package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func indicatorView() RecordView {
	return NewSliceView([]Record{
		rec("High income", "2000", map[string]float64{"gdp_pc": 40000, "gdp_growth": 2, "employment": 58}),
		rec("High income", "2001", map[string]float64{"gdp_pc": 41000, "gdp_growth": 1, "employment": 59}),
		rec("Low income", "2000", map[string]float64{"gdp_pc": 600, "gdp_growth": 5, "employment": 70}),
		rec("Low income", "2001", map[string]float64{"gdp_growth": 3}),
		rec("", "2001", map[string]float64{"gdp_pc": 1, "gdp_growth": 2}),
	})
}

func TestExecuteDescribeTable(t *testing.T) {
	spec := OutputSpec{
		Name:        "descriptive_stats_by_income_group.csv",
		Intent:      "table",
		Aggregation: "describe",
		GroupBy:     "income_group",
		Measures:    []string{"gdp_pc", "gdp_growth"},
		SortBy:      "income_order",
	}
	res, err := Execute(spec, indicatorView(),
		WithColumns(map[string]string{"income_group": "IncomeGroup", "gdp_pc": "avg_gdp_pc", "gdp_growth": "growth"}),
		WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	require.True(t, res.Success)
	require.NotNil(t, res.TableData)

	assert.Equal(t, []string{
		"IncomeGroup",
		"avg_gdp_pc_mean", "avg_gdp_pc_median", "avg_gdp_pc_std", "avg_gdp_pc_count",
		"growth_mean", "growth_median", "growth_std", "growth_count",
	}, res.TableData.Header())

	require.Len(t, res.TableData.Rows, 2)
	low := res.TableData.Rows[1]
	assert.Equal(t, "Low income", low[0])
	assert.Equal(t, []string{"600", "600", "", "1"}, low[1:5], "single value has empty std")
	assert.Equal(t, "4", low[5])
}

func TestExecuteYearlyTable(t *testing.T) {
	spec := OutputSpec{
		Name:        "descriptive_stats_by_year.csv",
		Intent:      "table",
		Aggregation: "yearly_mean",
		Measures:    []string{"gdp_growth"},
	}
	res, err := Execute(spec, indicatorView(), WithColumns(map[string]string{"year": "Year"}))
	require.NoError(t, err)
	require.NotNil(t, res.TableData)
	assert.Equal(t, []string{"Year", "gdp_growth"}, res.TableData.Header())
	require.Len(t, res.TableData.Rows, 2)
	// records without an income group still count toward yearly means
	assert.Equal(t, []string{"2001", "2"}, res.TableData.Rows[1])
	assert.Equal(t, "2 years (2000–2001)", res.Summary)
}

func TestExecuteCharts(t *testing.T) {
	tests := []struct {
		name      string
		spec      OutputSpec
		chartType string
		series    int
	}{
		{
			name:      "distribution",
			spec:      OutputSpec{Aggregation: "distribution", GroupBy: "income_group", Measures: []string{"gdp_growth"}, SortBy: "income_only"},
			chartType: "box",
			series:    2,
		},
		{
			name:      "pairs",
			spec:      OutputSpec{Aggregation: "pairs", GroupBy: "income_group", Measures: []string{"gdp_pc", "employment"}, SortBy: "income_only"},
			chartType: "scatter",
			series:    2,
		},
		{
			name:      "correlation",
			spec:      OutputSpec{Aggregation: "correlation", GroupBy: "income_group", Measures: []string{"gdp_pc", "employment"}, SortBy: "income_only"},
			chartType: "bar",
			series:    1,
		},
		{
			name:      "avg",
			spec:      OutputSpec{Aggregation: "avg", GroupBy: "income_group", Measures: []string{"gdp_pc"}, SortBy: "value_desc"},
			chartType: "bar",
			series:    1,
		},
		{
			name:      "trend",
			spec:      OutputSpec{Aggregation: "trend", GroupBy: "income_group", Measures: []string{"gdp_pc", "gdp_growth"}},
			chartType: "panels",
		},
		{
			name:      "yearly chart",
			spec:      OutputSpec{Aggregation: "yearly_mean", Measures: []string{"gdp_pc", "gdp_growth"}},
			chartType: "panels",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.spec.Name = tt.name + ".png"
			tt.spec.Intent = "chart"
			res, err := Execute(tt.spec, indicatorView())
			require.NoError(t, err)
			require.True(t, res.Success, res.Errors)
			require.NotNil(t, res.ChartConfig)
			assert.Equal(t, tt.chartType, res.ChartConfig.ChartType)
			assert.Len(t, res.ChartConfig.Series, tt.series)
			assert.NotEmpty(t, res.Summary)
		})
	}
}

func TestExecuteChartWithoutData(t *testing.T) {
	spec := OutputSpec{
		Name:        "gdp_growth_boxplot.png",
		Intent:      "chart",
		Aggregation: "distribution",
		GroupBy:     "income_group",
		Measures:    []string{"gdp_growth"},
	}
	res, err := Execute(spec, NewSliceView(nil))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Nil(t, res.ChartConfig)
	assert.NotEmpty(t, res.Errors)
}

func TestExecuteRejectsInvalidSpecs(t *testing.T) {
	tests := []OutputSpec{
		{Name: "a", Intent: "map", Aggregation: "describe", GroupBy: "g", Measures: []string{"m"}},
		{Name: "b", Intent: "table", Aggregation: "pairs", GroupBy: "g", Measures: []string{"x", "y"}},
		{Name: "c", Intent: "chart", Aggregation: "correlation", GroupBy: "g", Measures: []string{"x"}},
		{Name: "d", Intent: "chart", Aggregation: "distribution", Measures: []string{"x"}},
		{Name: "e", Intent: "chart", Aggregation: "describe", GroupBy: "g", Measures: []string{"x"}},
		{Name: "f", Intent: "chart", Aggregation: "avg", Visualize: "line", GroupBy: "g", Measures: []string{"x"}},
		{Name: "g", Intent: "chart", Aggregation: "distribution", Visualize: "scatter", GroupBy: "g", Measures: []string{"x"}},
		{Name: "h", Intent: "chart", Aggregation: "yearly_mean", Visualize: "table", Measures: []string{"x"}},
	}
	for _, spec := range tests {
		_, err := Execute(spec, indicatorView())
		assert.Error(t, err, spec.Name)
	}
}

func TestExecuteVisualizeMismatchNamesAllowedForms(t *testing.T) {
	spec := OutputSpec{Name: "m.png", Intent: "chart", Aggregation: "avg", Visualize: "line",
		GroupBy: "income_group", Measures: []string{"gdp_pc"}}
	_, err := Execute(spec, indicatorView())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `cannot be drawn as "line"`)
	assert.Contains(t, err.Error(), "bar")

	spec.Visualize = "bar"
	res, err := Execute(spec, indicatorView())
	require.NoError(t, err)
	assert.Equal(t, "bar", res.ChartConfig.ChartType)
}

func TestExecuteAppliesFilters(t *testing.T) {
	spec := OutputSpec{
		Name:        "low.csv",
		Intent:      "table",
		Aggregation: "describe",
		GroupBy:     "income_group",
		Filters:     Filters{Dimensions: map[string][]string{"income_group": {"low income"}}},
		Measures:    []string{"gdp_growth"},
	}
	res, err := Execute(spec, indicatorView())
	require.NoError(t, err)
	require.Len(t, res.TableData.Rows, 1)
	assert.Equal(t, "Low income", res.TableData.Rows[0][0])
	assert.Equal(t, "2", res.TableData.Rows[0][4], "count of Low income growth values")

	spec.Filters = Filters{Dimensions: map[string][]string{"year": {"2001"}}}
	res, err = Execute(spec, indicatorView())
	require.NoError(t, err)
	require.Len(t, res.TableData.Rows, 2)
	assert.Equal(t, "1", res.TableData.Rows[0][4])
}

func TestOutputSpecFields(t *testing.T) {
	spec := OutputSpec{Aggregation: "trend", GroupBy: "country", Measures: []string{"gdp_pc"}}
	assert.Equal(t, []string{"country", "year", "gdp_pc"}, spec.Fields("year"))

	desc := OutputSpec{Aggregation: "describe", GroupBy: "income_group", Measures: []string{"a", "b"}}
	assert.Equal(t, []string{"income_group", "a", "b"}, desc.Fields("year"))

	filtered := OutputSpec{
		Aggregation: "trend",
		GroupBy:     "income_group",
		Filters:     Filters{Dimensions: map[string][]string{"year": {"2001"}, "income_group": {"Low income"}}},
		Measures:    []string{"gdp_pc"},
	}
	assert.Equal(t, []string{"income_group", "year", "gdp_pc"}, filtered.Fields("year"), "keys appear once")
}
