package render

import (
	"image/color"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/spektr-org/incomestats/engine"
)

// parseColor reads a hex color; unparseable values fall back to black.
func parseColor(hex string) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.Black
	}
	return c
}

// lighten blends c toward white, used for box fills.
func lighten(hex string, t float64) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.Gray{Y: 200}
	}
	return c.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, t)
}

func glyphShape(marker string) draw.GlyphDrawer {
	switch marker {
	case "square":
		return draw.SquareGlyph{}
	case "triangle":
		return draw.TriangleGlyph{}
	default:
		return draw.CircleGlyph{}
	}
}

// newPlot applies the settings shared by every chart type.
func newPlot(cfg *engine.ChartConfig) *plot.Plot {
	p := plot.New()
	p.Title.Text = cfg.Title
	p.Title.TextStyle.Font.Size = vg.Points(13)
	p.X.Label.Text = cfg.XAxis
	p.Y.Label.Text = cfg.YAxis
	if cfg.ShowGrid {
		grid := plotter.NewGrid()
		grid.Vertical.Color = color.Gray{Y: 220}
		grid.Horizontal.Color = color.Gray{Y: 220}
		p.Add(grid)
	}
	return p
}

// zeroLine is a dashed horizontal line at y = 0.
func zeroLine() *plotter.Function {
	f := plotter.NewFunction(func(float64) float64 { return 0 })
	f.Color = color.Gray{Y: 90}
	f.Width = vg.Points(0.8)
	f.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	return f
}

// applyYRange pins the y-axis when the chart asks for it. Call after all
// plotters are added, since Add widens the axes.
func applyYRange(p *plot.Plot, cfg *engine.ChartConfig) {
	if cfg.YMin != nil {
		p.Y.Min = *cfg.YMin
	}
	if cfg.YMax != nil {
		p.Y.Max = *cfg.YMax
	}
}

// commaTicks labels fixed tick positions with thousands separators:
// 20000 → "20,000".
func commaTicks(values []float64) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, len(values))
	for i, v := range values {
		ticks[i] = plot.Tick{Value: v, Label: humanize.Comma(int64(v))}
	}
	return ticks
}

// yearTicks labels major ticks as plain integers: 2000 not 2e+03.
type yearTicks struct{}

func (yearTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = strconv.Itoa(int(ticks[i].Value))
		}
	}
	return ticks
}
