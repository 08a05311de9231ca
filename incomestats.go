// Package incomestats turns pre-aggregated World Bank indicator summaries
// into descriptive statistics tables and static charts.
//
// Usage:
//
//	import "github.com/spektr-org/incomestats/engine"
//
//	result, err := engine.Execute(spec, view,
//	    engine.WithColumns(resolved.Columns),
//	    engine.WithLogger(logger),
//	)
//
// The schema package resolves semantic fields (income group, year, GDP per
// capita, GDP growth, employment ratio) to whatever column a CSV happens to
// use. The engine groups and aggregates records and returns render-ready
// output (chart config or table data). The render package draws chart
// configs to PNG; the helpers package reads and writes CSV and XLSX.
//
// Everything runs locally and synchronously.
package incomestats
