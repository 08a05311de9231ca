package engine

import (
	"strconv"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from aggregates
// ============================================================================
// Column keys double as the CSV header. They are derived from the concrete
// input column names so downstream notebooks can join on them:
//   by group: <income col>, <col>_mean, <col>_median, <col>_std, <col>_count
//   by year:  <year col>, <col>...
// Undefined statistics are empty cells.
// ============================================================================

var statSuffixes = []string{"mean", "median", "std", "count"}

// BuildStatsTable lays out by-group descriptive statistics, one row per group.
func BuildStatsTable(spec OutputSpec, rows []GroupStats, measures []string, cfg *config) *TableData {
	columns := []Column{{
		Key:   cfg.column(spec.GroupBy),
		Label: cfg.displayName(spec.GroupBy),
		Type:  "text",
	}}
	for _, m := range measures {
		for _, s := range statSuffixes {
			columns = append(columns, Column{
				Key:   cfg.column(m) + "_" + s,
				Label: cfg.displayName(m) + " (" + s + ")",
				Type:  "number",
			})
		}
	}

	out := make([][]string, 0, len(rows))
	for _, gs := range rows {
		row := make([]string, 0, len(columns))
		row = append(row, gs.Group)
		for _, m := range measures {
			st := gs.Measures[m]
			row = append(row,
				st.Mean.String(),
				st.Median.String(),
				st.Std.String(),
				strconv.Itoa(st.Count),
			)
		}
		out = append(out, row)
	}

	return &TableData{Title: spec.Title, Columns: columns, Rows: out}
}

// BuildYearlyTable lays out yearly means, one row per year ascending.
func BuildYearlyTable(spec OutputSpec, rows []YearMeans, measures []string, cfg *config) *TableData {
	columns := []Column{{
		Key:   cfg.column(cfg.YearKey),
		Label: cfg.displayName(cfg.YearKey),
		Type:  "number",
	}}
	for _, m := range measures {
		columns = append(columns, Column{
			Key:   cfg.column(m),
			Label: cfg.displayName(m),
			Type:  "number",
		})
	}

	out := make([][]string, 0, len(rows))
	for _, ym := range rows {
		row := make([]string, 0, len(columns))
		row = append(row, strconv.Itoa(ym.Year))
		for _, m := range measures {
			row = append(row, ym.Means[m].String())
		}
		out = append(out, row)
	}

	return &TableData{Title: spec.Title, Columns: columns, Rows: out}
}
