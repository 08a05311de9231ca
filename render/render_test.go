package render

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/incomestats/engine"
)

func sampleView() engine.RecordView {
	rows := []struct {
		group       string
		year        string
		gdp, growth float64
		emp         float64
	}{
		{"High income", "2000", 40000, 2.5, 58},
		{"High income", "2001", 41000, 1.5, 59},
		{"High income", "2002", 42500, 2.0, 60},
		{"Low income", "2000", 600, 4.0, 70},
		{"Low income", "2001", 640, 5.5, 71},
		{"Low income", "2002", 700, 3.0, 69},
	}
	records := make([]engine.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, engine.Record{
			Dimensions: map[string]string{"income_group": r.group, "year": r.year},
			Measures:   map[string]float64{"gdp_pc": r.gdp, "gdp_growth": r.growth, "employment": r.emp},
		})
	}
	return engine.NewSliceView(records)
}

func renderSpec(t *testing.T, spec engine.OutputSpec) string {
	t.Helper()
	spec.Intent = "chart"
	res, err := engine.Execute(spec, sampleView())
	require.NoError(t, err)
	require.True(t, res.Success, res.Errors)

	path := filepath.Join(t.TempDir(), spec.Name)
	require.NoError(t, Render(res.ChartConfig, path, WithDPI(50)))
	return path
}

func assertPNG(t *testing.T, path string, wantW, wantH int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.InDelta(t, wantW, cfg.Width, 1)
	assert.InDelta(t, wantH, cfg.Height, 1)
}

func TestRenderChartTypes(t *testing.T) {
	tests := []struct {
		spec         engine.OutputSpec
		wantW, wantH int
	}{
		{
			spec:  engine.OutputSpec{Name: "box.png", Aggregation: "distribution", GroupBy: "income_group", Measures: []string{"gdp_growth"}, SortBy: "income_only"},
			wantW: 400, wantH: 300,
		},
		{
			spec:  engine.OutputSpec{Name: "scatter.png", Aggregation: "pairs", GroupBy: "income_group", Measures: []string{"gdp_pc", "employment"}, SortBy: "income_only"},
			wantW: 425, wantH: 300,
		},
		{
			spec:  engine.OutputSpec{Name: "corr.png", Aggregation: "correlation", GroupBy: "income_group", Measures: []string{"gdp_pc", "employment"}, SortBy: "income_only"},
			wantW: 400, wantH: 300,
		},
		{
			spec:  engine.OutputSpec{Name: "bar.png", Aggregation: "avg", GroupBy: "income_group", Measures: []string{"gdp_pc"}, SortBy: "value_desc"},
			wantW: 400, wantH: 300,
		},
		{
			spec:  engine.OutputSpec{Name: "trend.png", Title: "Trends", Aggregation: "trend", GroupBy: "income_group", Measures: []string{"gdp_pc", "gdp_growth"}},
			wantW: 500, wantH: 400,
		},
		{
			spec:  engine.OutputSpec{Name: "global.png", Title: "Global", Aggregation: "yearly_mean", Measures: []string{"gdp_pc", "gdp_growth", "employment"}},
			wantW: 450, wantH: 350,
		},
	}
	for _, tt := range tests {
		t.Run(tt.spec.Name, func(t *testing.T) {
			path := renderSpec(t, tt.spec)
			assertPNG(t, path, tt.wantW, tt.wantH)
		})
	}
}

func TestRenderBoxSkipsEmptyGroups(t *testing.T) {
	cfg := &engine.ChartConfig{
		ChartType: "box",
		Series: []engine.ChartSeries{
			{Name: "High Income", Values: []float64{1, 2, 3}, Color: "#1f77b4"},
			{Name: "Low Income"},
		},
		Width: 4, Height: 3,
	}
	p, err := Plot(cfg)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.X.Min, "the only box sits at x = 0")
	assert.Equal(t, 0.0, p.X.Max)

	_, err = Plot(&engine.ChartConfig{ChartType: "box", Series: []engine.ChartSeries{{Name: "x"}}})
	assert.Error(t, err)
}

func TestRenderScatterSkipsNonPositiveX(t *testing.T) {
	cfg := &engine.ChartConfig{
		ChartType: "scatter",
		LogX:      true,
		XTicks:    []float64{1000, 20000},
		Series: []engine.ChartSeries{
			{Name: "a", Data: []engine.ChartPoint{{X: 0, Value: 1}, {X: 1500, Value: 2}, {X: 18000, Value: 3}}},
			{Name: "b", Data: []engine.ChartPoint{{X: -5, Value: 1}}},
		},
	}
	p, err := Plot(cfg)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, p.X.Min)
	assert.Equal(t, 18000.0, p.X.Max)

	ticks := p.X.Tick.Marker.Ticks(p.X.Min, p.X.Max)
	require.Len(t, ticks, 2)
	assert.Equal(t, "20,000", ticks[1].Label)
}

func TestRenderCorrelationRange(t *testing.T) {
	lo, hi := -1.0, 1.0
	cfg := &engine.ChartConfig{
		ChartType:   "bar",
		YMin:        &lo,
		YMax:        &hi,
		ZeroLine:    true,
		ValueLabels: true,
		Colors:      []string{"#1f77b4", "#ff7f0e"},
		Series: []engine.ChartSeries{{Data: []engine.ChartPoint{
			{Label: "High Income", Value: -0.4},
			{Label: "Low Income", Missing: true},
		}}},
	}
	p, err := Plot(cfg)
	require.NoError(t, err)
	assert.Equal(t, -1.0, p.Y.Min)
	assert.Equal(t, 1.0, p.Y.Max)
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, Render(nil, filepath.Join(dir, "x.png")))
	assert.Error(t, Render(&engine.ChartConfig{ChartType: "pie"}, filepath.Join(dir, "x.png")))
	assert.Error(t, Render(&engine.ChartConfig{ChartType: "panels"}, filepath.Join(dir, "x.png")))
}

func TestCommaTicks(t *testing.T) {
	ticks := commaTicks([]float64{500, 80000})
	assert.Equal(t, "500", ticks[0].Label)
	assert.Equal(t, "80,000", ticks[1].Label)
}
