package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/incomestats/config"
	"github.com/spektr-org/incomestats/helpers"
	"github.com/spektr-org/incomestats/schema"
)

// ============================================================================
// INCOMESTATS CLI — Statistics and figures from World Bank income summaries
// ============================================================================

const version = "0.3.0"

// defaultConfigName is looked up in the project root when --config is unset.
const defaultConfigName = "incomestats.yaml"

type app struct {
	// flags
	root       string
	configPath string
	verbose    bool
	workbook   bool
	dpi        int
	format     string
	planPath   string

	cfg    *config.Config
	logger *zap.Logger
	out    io.Writer
}

func main() {
	if err := newRootCmd(&app{out: os.Stdout}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "incomestats",
		Short: "Descriptive statistics and figures for World Bank indicators by income group",
		Long: `incomestats reads figures/summary_by_income.csv and
figures/summary_by_income_year.csv under the project root and writes
derived statistics tables and PNG figures back into figures/.

Columns are matched to indicators through alias lists, so the summaries may
use any of the usual World Bank or notebook column names.

Run without a subcommand to produce every output.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.planPath != "" {
				p, err := loadPlanFile(a.planPath)
				if err != nil {
					return err
				}
				return a.runPlans(p)
			}
			return a.runPlans(plans()...)
		},
	}
	cmd.Flags().StringVar(&a.planPath, "plan", "", "YAML plan file to run instead of the built-in plans")

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.root, "root", "", "project root (default: nearest ancestor with figures/ or go.mod)")
	flags.StringVar(&a.configPath, "config", "", "YAML config file (default: <root>/"+defaultConfigName+" if present)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	flags.BoolVar(&a.workbook, "workbook", false, "also write "+workbookName+" with the statistics tables")
	flags.IntVar(&a.dpi, "dpi", 0, "figure resolution (default 200)")

	for _, p := range plans() {
		cmd.AddCommand(a.planCmd(p))
	}
	cmd.AddCommand(a.inspectCmd(), a.plansCmd(), versionCmd())
	return cmd
}

// setup resolves the project root, loads config and builds the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.logger == nil {
		logger, err := config.NewLogger(a.verbose)
		if err != nil {
			return err
		}
		a.logger = logger
	}
	a.logger = a.logger.With(zap.String("run_id", uuid.NewString()))

	root := a.root
	if root == "" {
		root = os.Getenv("INCOMESTATS_ROOT")
	}
	if root == "" {
		detected, err := config.FindRoot(".")
		if err != nil {
			return err
		}
		root = detected
	}

	path := a.configPath
	if path == "" {
		path = filepath.Join(root, defaultConfigName)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if a.root != "" || cfg.Root == "" {
		cfg.Root = root
	}
	if a.workbook {
		cfg.Workbook = true
	}
	if a.dpi > 0 {
		cfg.DPI = a.dpi
	}
	a.cfg = cfg

	a.logger.Debug("configured",
		zap.String("root", cfg.Root),
		zap.String("input_dir", cfg.InputDir),
		zap.String("output_dir", cfg.OutputDir),
		zap.Int("dpi", cfg.DPI))
	return nil
}

func (a *app) runPlans(ps ...Plan) error {
	p := newPipeline(a.cfg, a.logger)
	if err := p.run(ps...); err != nil {
		return err
	}
	for _, path := range p.saved {
		fmt.Fprintln(a.out, "Saved:", path)
	}
	return nil
}

// ============================================================================
// SUBCOMMANDS
// ============================================================================

func (a *app) planCmd(p Plan) *cobra.Command {
	return &cobra.Command{
		Use:   p.Name,
		Short: p.Short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPlans(p)
		},
	}
}

func (a *app) plansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Print every planned output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeReport(a.out, plans(), a.format)
		},
	}
	cmd.Flags().StringVar(&a.format, "format", "yaml", "output format: yaml, json, pretty")
	return cmd
}

// tableReport is what inspect prints for one input table.
type tableReport struct {
	File       string                 `json:"file" yaml:"file"`
	Rows       int                    `json:"rows" yaml:"rows"`
	Resolved   map[string]string      `json:"resolved" yaml:"resolved"`
	Unresolved []string               `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
	Columns    []schema.ColumnProfile `json:"columns" yaml:"columns"`
}

func (a *app) inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show how each input column resolves and what it contains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sch := a.cfg.Schema()
			var reports []tableReport
			for _, src := range []string{sourceByIncome, sourceByIncomeYear} {
				r, err := inspectTable(a.cfg.InputPath(src), sch)
				if err != nil {
					return err
				}
				reports = append(reports, r)
			}
			return writeReport(a.out, reports, a.format)
		},
	}
	cmd.Flags().StringVar(&a.format, "format", "yaml", "output format: yaml, json, pretty")
	return cmd
}

// inspectTable resolves fields one at a time so a table missing one column
// still reports the rest.
func inspectTable(path string, sch schema.Config) (tableReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return tableReport{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer f.Close()

	headers, rows, err := helpers.ReadCSV(f)
	if err != nil {
		return tableReport{}, fmt.Errorf("%s: %w", path, err)
	}

	res := schema.Resolved{Columns: make(map[string]string)}
	var unresolved []string
	for _, key := range sch.Keys() {
		one, err := schema.Resolve(headers, sch, key)
		if err != nil || !one.Has(key) {
			unresolved = append(unresolved, key)
			continue
		}
		res.Columns[key] = one.Column(key)
		res.Fields = append(res.Fields, one.Fields...)
	}

	return tableReport{
		File:       path,
		Rows:       len(rows),
		Resolved:   res.Columns,
		Unresolved: unresolved,
		Columns:    schema.Profile(headers, rows, res),
	}, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "incomestats %s\n", version)
		},
	}
}

// ============================================================================
// OUTPUT
// ============================================================================

func writeReport(w io.Writer, v interface{}, format string) error {
	var out []byte
	var err error

	switch format {
	case "json":
		out, err = json.Marshal(v)
	case "pretty":
		out, err = json.MarshalIndent(v, "", "  ")
	case "yaml", "":
		out, err = yaml.Marshal(v)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
