package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/spektr-org/incomestats/config"
	"github.com/spektr-org/incomestats/engine"
	"github.com/spektr-org/incomestats/helpers"
	"github.com/spektr-org/incomestats/render"
	"github.com/spektr-org/incomestats/schema"
)

// ============================================================================
// PIPELINE — Load every input, execute every plan, then write
// ============================================================================

type pipeline struct {
	cfg    *config.Config
	schema schema.Config
	log    *zap.Logger
	tables map[string]*helpers.Table
	sheets []helpers.Sheet
	saved  []string
}

func newPipeline(cfg *config.Config, log *zap.Logger) *pipeline {
	return &pipeline{cfg: cfg, schema: cfg.Schema(), log: log, tables: make(map[string]*helpers.Table)}
}

// output is one executed output waiting to be written.
type output struct {
	spec engine.OutputSpec
	res  *engine.Result
}

// run validates every output and loads every input table before executing
// anything, then executes all plans, and only then writes files. A missing
// column or invalid output fails the run with nothing written.
func (p *pipeline) run(plans ...Plan) error {
	for _, plan := range plans {
		for _, out := range plan.Outputs {
			if err := engine.Validate(out); err != nil {
				return fmt.Errorf("%s: %w", plan.Name, err)
			}
		}
	}
	if err := p.load(plans); err != nil {
		return err
	}

	var pending []output
	for _, plan := range plans {
		outs, err := p.runPlan(plan)
		if err != nil {
			return fmt.Errorf("%s: %w", plan.Name, err)
		}
		pending = append(pending, outs...)
	}

	if err := os.MkdirAll(p.cfg.OutputRoot(), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, o := range pending {
		if err := p.write(o.spec, o.res); err != nil {
			return err
		}
	}
	if p.cfg.Workbook && len(p.sheets) > 0 {
		path := p.cfg.OutputPath(workbookName)
		if err := helpers.WriteWorkbook(path, p.sheets); err != nil {
			return err
		}
		p.saved = append(p.saved, path)
		p.log.Info("Saved", zap.String("path", path), zap.Int("sheets", len(p.sheets)))
	}
	return nil
}

// load resolves each source once, for the union of fields every plan reads
// from it plus the plans' required dimensions.
func (p *pipeline) load(plans []Plan) error {
	fields := make(map[string][]string)
	var order []string
	for _, plan := range plans {
		for _, out := range plan.Outputs {
			if _, seen := fields[out.Source]; !seen {
				order = append(order, out.Source)
			}
			keys := appendUnique(fields[out.Source], out.Fields(schema.FieldYear)...)
			fields[out.Source] = appendUnique(keys, plan.Require...)
		}
	}

	for _, src := range order {
		tbl, err := helpers.LoadTable(p.cfg.InputPath(src), p.schema, fields[src]...)
		if err != nil {
			return err
		}
		p.log.Debug("table loaded",
			zap.String("source", src),
			zap.Int("rows", len(tbl.Records)),
			zap.Any("columns", tbl.Resolved.Columns),
			zap.Int("coerced_missing", tbl.Coerced))
		p.tables[src] = tbl
	}
	return nil
}

// runPlan executes a plan's outputs against the loaded tables. Records
// missing any of the plan's required dimensions are dropped first.
func (p *pipeline) runPlan(plan Plan) ([]output, error) {
	log := p.log.With(zap.String("plan", plan.Name))

	views := make(map[string]engine.RecordView)
	names := displayNames(p.schema)
	var outs []output
	for _, out := range plan.Outputs {
		tbl := p.tables[out.Source]
		view, ok := views[out.Source]
		if !ok {
			view = engine.DropMissing(tbl.View(), plan.Require, nil)
			if dropped := len(tbl.Records) - view.Len(); dropped > 0 {
				log.Debug("records dropped", zap.String("source", out.Source), zap.Int("dropped", dropped))
			}
			views[out.Source] = view
		}

		res, err := engine.Execute(out, view,
			engine.WithColumns(tbl.Resolved.Columns),
			engine.WithDisplayNames(names),
			engine.WithYearKey(schema.FieldYear),
			engine.WithLogger(log),
		)
		if err != nil {
			return nil, err
		}
		if !res.Success {
			log.Warn("output skipped", zap.String("output", out.Name), zap.Strings("errors", res.Errors))
			continue
		}
		outs = append(outs, output{spec: out, res: res})
	}
	return outs, nil
}

func (p *pipeline) write(out engine.OutputSpec, res *engine.Result) error {
	path := p.cfg.OutputPath(out.Name)
	switch {
	case res.TableData != nil:
		if err := helpers.WriteTableCSV(path, res.TableData); err != nil {
			return err
		}
		p.sheets = append(p.sheets, helpers.Sheet{Name: out.Name, Table: res.TableData})
	case res.ChartConfig != nil:
		if err := render.Render(res.ChartConfig, path,
			render.WithDPI(p.cfg.DPI),
			render.WithLogger(p.log),
		); err != nil {
			return err
		}
	default:
		return fmt.Errorf("output %s produced nothing", out.Name)
	}
	p.saved = append(p.saved, path)
	p.log.Info("Saved", zap.String("path", path), zap.String("summary", res.Summary))
	return nil
}

func displayNames(cfg schema.Config) map[string]string {
	names := make(map[string]string, len(cfg.Fields))
	for _, f := range cfg.Fields {
		names[f.Key] = f.DisplayName
	}
	return names
}

func appendUnique(dst []string, items ...string) []string {
	for _, it := range items {
		found := false
		for _, d := range dst {
			if d == it {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, it)
		}
	}
	return dst
}
