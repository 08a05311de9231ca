package engine

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// ============================================================================
// TEXT BUILDER — One-line summaries of a Result for logs and the CLI
// ============================================================================

// SummarizeStats describes a by-group statistics table.
func SummarizeStats(rows []GroupStats, measures []string) string {
	return fmt.Sprintf("%d groups × %d indicators", len(rows), len(measures))
}

// SummarizeYearly describes a yearly means table.
func SummarizeYearly(rows []YearMeans) string {
	if len(rows) == 0 {
		return "no years"
	}
	return fmt.Sprintf("%d years (%d–%d)", len(rows), rows[0].Year, rows[len(rows)-1].Year)
}

// SummarizeCorrelations lists each group's coefficient; undefined ones read "n/a".
func SummarizeCorrelations(corrs []Correlation) string {
	parts := make([]string, 0, len(corrs))
	for _, c := range corrs {
		r := "n/a"
		if c.R.Valid {
			r = FormatCorrelation(c.R.Float64)
		}
		parts = append(parts, fmt.Sprintf("%s r=%s (n=%d)", IncomeLabel(c.Group), r, c.Pairs))
	}
	return strings.Join(parts, ", ")
}

// SummarizeChart counts the series and points a chart will draw.
func SummarizeChart(cfg *ChartConfig) string {
	if cfg == nil {
		return "empty chart"
	}
	series, points := countChart(cfg)
	if len(cfg.Panels) > 0 {
		return fmt.Sprintf("%d panels, %d series, %s points",
			len(cfg.Panels), series, humanize.Comma(int64(points)))
	}
	return fmt.Sprintf("%d series, %s points", series, humanize.Comma(int64(points)))
}

func countChart(cfg *ChartConfig) (series, points int) {
	for _, s := range cfg.Series {
		series++
		points += len(s.Data) + len(s.Values)
	}
	for i := range cfg.Panels {
		s, p := countChart(&cfg.Panels[i])
		series += s
		points += p
	}
	return series, points
}
