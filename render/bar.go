package render

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/spektr-org/incomestats/engine"
)

// Label offsets from the bar end, in data units.
const (
	labelAbove = 0.04
	labelBelow = 0.06
)

// barPlot draws the first series as one bar per category. Each bar is its
// own BarChart so it can carry its own color. Missing values keep their
// category slot and draw nothing.
func barPlot(cfg *engine.ChartConfig) (*plot.Plot, error) {
	if len(cfg.Series) == 0 || len(cfg.Series[0].Data) == 0 {
		return nil, fmt.Errorf("bar chart without data")
	}
	p := newPlot(cfg)
	points := cfg.Series[0].Data

	names := make([]string, len(points))
	var labels plotter.XYLabels
	for i, pt := range points {
		names[i] = pt.Label
		if pt.Missing {
			continue
		}
		bar, err := plotter.NewBarChart(plotter.Values{pt.Value}, vg.Points(40))
		if err != nil {
			return nil, fmt.Errorf("bar %q: %w", pt.Label, err)
		}
		bar.XMin = float64(i)
		bar.LineStyle.Width = vg.Length(0)
		if i < len(cfg.Colors) {
			bar.Color = parseColor(cfg.Colors[i])
		}
		p.Add(bar)

		if cfg.ValueLabels {
			y := pt.Value + labelAbove
			if pt.Value < 0 {
				y = pt.Value - labelBelow
			}
			labels.XYs = append(labels.XYs, plotter.XY{X: float64(i), Y: y})
			labels.Labels = append(labels.Labels, engine.FormatCorrelation(pt.Value))
		}
	}

	if cfg.ZeroLine {
		p.Add(zeroLine())
	}
	if len(labels.XYs) > 0 {
		l, err := plotter.NewLabels(labels)
		if err != nil {
			return nil, fmt.Errorf("bar labels: %w", err)
		}
		for i := range l.TextStyle {
			l.TextStyle[i].XAlign = draw.XCenter
			l.TextStyle[i].YAlign = draw.YCenter
		}
		p.Add(l)
	}

	p.NominalX(names...)
	applyYRange(p, cfg)
	return p, nil
}
