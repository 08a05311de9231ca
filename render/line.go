package render

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/spektr-org/incomestats/engine"
)

// linePlot draws each series as a line with point markers over a year axis.
// Series without points are left out; an empty panel still draws its axes.
func linePlot(cfg *engine.ChartConfig) (*plot.Plot, error) {
	p := newPlot(cfg)
	p.X.Tick.Marker = yearTicks{}
	p.Legend.Top = true
	p.Legend.Left = true

	for _, s := range cfg.Series {
		xys := make(plotter.XYs, 0, len(s.Data))
		for _, pt := range s.Data {
			if pt.Missing {
				continue
			}
			xys = append(xys, plotter.XY{X: pt.X, Y: pt.Value})
		}
		if len(xys) == 0 {
			continue
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, fmt.Errorf("line %q: %w", s.Name, err)
		}
		col := parseColor(s.Color)
		line.Color = col
		line.Width = vg.Points(1.5)
		points.Color = col
		points.Radius = vg.Points(2)
		points.Shape = glyphShape(s.Marker)
		p.Add(line, points)
		if cfg.ShowLegend {
			p.Legend.Add(s.Name, line, points)
		}
	}

	applyYRange(p, cfg)
	return p, nil
}
