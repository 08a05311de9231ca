package render

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/spektr-org/incomestats/engine"
)

// boxPlot draws one box per series at x = 0, 1, ... labeled by series name.
func boxPlot(cfg *engine.ChartConfig) (*plot.Plot, error) {
	p := newPlot(cfg)
	if cfg.ZeroLine {
		p.Add(zeroLine())
	}

	names := make([]string, 0, len(cfg.Series))
	for i, s := range cfg.Series {
		if len(s.Values) == 0 {
			continue
		}
		x := float64(len(names))
		box, err := plotter.NewBoxPlot(vg.Points(45), x, plotter.Values(s.Values))
		if err != nil {
			return nil, fmt.Errorf("box %q: %w", s.Name, err)
		}
		col := s.Color
		if col == "" && i < len(cfg.Colors) {
			col = cfg.Colors[i]
		}
		box.FillColor = lighten(col, 0.35)
		box.BoxStyle.Color = parseColor(col)
		p.Add(box)
		names = append(names, s.Name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("box plot without data")
	}

	p.NominalX(names...)
	applyYRange(p, cfg)
	return p, nil
}
