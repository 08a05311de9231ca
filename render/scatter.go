package render

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/spektr-org/incomestats/engine"
)

// scatterPlot draws one marker series per group with a legend in the lower
// right. On a log x-axis, points with x <= 0 are skipped.
func scatterPlot(cfg *engine.ChartConfig) (*plot.Plot, error) {
	p := newPlot(cfg)
	p.Legend.Top = false
	p.Legend.Left = false

	drawn := 0
	for _, s := range cfg.Series {
		xys := make(plotter.XYs, 0, len(s.Data))
		for _, pt := range s.Data {
			if pt.Missing || (cfg.LogX && pt.X <= 0) {
				continue
			}
			xys = append(xys, plotter.XY{X: pt.X, Y: pt.Value})
		}
		if len(xys) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("scatter %q: %w", s.Name, err)
		}
		sc.GlyphStyle.Color = parseColor(s.Color)
		sc.GlyphStyle.Radius = vg.Points(2.5)
		sc.GlyphStyle.Shape = glyphShape(s.Marker)
		p.Add(sc)
		if cfg.ShowLegend {
			p.Legend.Add(s.Name, sc)
		}
		drawn++
	}
	if drawn == 0 {
		return nil, fmt.Errorf("scatter plot without data")
	}

	if cfg.LogX {
		p.X.Scale = plot.LogScale{}
		if len(cfg.XTicks) > 0 {
			p.X.Tick.Marker = commaTicks(cfg.XTicks)
		} else {
			p.X.Tick.Marker = plot.LogTicks{Prec: -1}
		}
	}
	applyYRange(p, cfg)
	return p, nil
}
