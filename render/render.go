// Package render draws engine.ChartConfig values to PNG files with gonum/plot.
package render

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/spektr-org/incomestats/engine"
)

// DefaultDPI is the raster resolution of saved figures.
const DefaultDPI = 200

// Option configures rendering.
type Option func(*options)

type options struct {
	dpi    int
	logger *zap.Logger
}

// WithDPI sets the raster resolution. Non-positive values are ignored.
func WithDPI(dpi int) Option {
	return func(o *options) {
		if dpi > 0 {
			o.dpi = dpi
		}
	}
}

// WithLogger sets the logger. Default: no-op.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Render draws cfg and writes it as a PNG to path, replacing any existing
// file. The figure is sized cfg.Width × cfg.Height inches.
func Render(cfg *engine.ChartConfig, path string, opts ...Option) error {
	o := &options{dpi: DefaultDPI, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	if cfg == nil {
		return fmt.Errorf("render %s: no chart", path)
	}

	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = 8
	}
	if height <= 0 {
		height = 6
	}

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(width)*vg.Inch, vg.Length(height)*vg.Inch),
		vgimg.UseDPI(o.dpi),
	)
	if err := Draw(cfg, draw.New(c)); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	o.logger.Debug("figure saved",
		zap.String("path", path),
		zap.String("chart", cfg.ChartType),
		zap.Float64("width_in", width),
		zap.Float64("height_in", height),
		zap.Int("dpi", o.dpi))
	return nil
}

// Draw draws cfg onto dc.
func Draw(cfg *engine.ChartConfig, dc draw.Canvas) error {
	if cfg.ChartType == "panels" {
		return drawPanels(cfg, dc)
	}
	p, err := Plot(cfg)
	if err != nil {
		return err
	}
	p.Draw(dc)
	return nil
}

// Plot builds a single-panel plot for cfg.
func Plot(cfg *engine.ChartConfig) (*plot.Plot, error) {
	switch cfg.ChartType {
	case "box":
		return boxPlot(cfg)
	case "scatter":
		return scatterPlot(cfg)
	case "bar":
		return barPlot(cfg)
	case "line":
		return linePlot(cfg)
	default:
		return nil, fmt.Errorf("unsupported chart type %q", cfg.ChartType)
	}
}

// drawPanels stacks cfg.Panels vertically under a shared title.
func drawPanels(cfg *engine.ChartConfig, dc draw.Canvas) error {
	if len(cfg.Panels) == 0 {
		return fmt.Errorf("panel chart without panels")
	}

	rows := make([][]*plot.Plot, len(cfg.Panels))
	for i := range cfg.Panels {
		p, err := Plot(&cfg.Panels[i])
		if err != nil {
			return fmt.Errorf("panel %d: %w", i, err)
		}
		rows[i] = []*plot.Plot{p}
	}

	body := dc
	if cfg.Title != "" {
		sty := plot.New().Title.TextStyle
		sty.Font.Size = vg.Points(14)
		sty.XAlign = draw.XCenter
		sty.YAlign = draw.YTop
		pad := vg.Points(6)
		dc.FillText(sty, vg.Point{X: dc.Center().X, Y: dc.Max.Y - pad}, cfg.Title)
		body = draw.Crop(dc, 0, 0, 0, -(sty.Height(cfg.Title) + 2*pad))
	}

	tiles := draw.Tiles{
		Rows:      len(rows),
		Cols:      1,
		PadY:      vg.Points(12),
		PadTop:    vg.Points(2),
		PadBottom: vg.Points(2),
		PadLeft:   vg.Points(2),
		PadRight:  vg.Points(8),
	}
	canvases := plot.Align(rows, tiles, body)
	for i := range rows {
		rows[i][0].Draw(canvases[i][0])
	}
	return nil
}
