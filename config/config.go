// Package config holds run configuration, project-root detection and logger
// construction for the incomestats command.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/incomestats/schema"
)

// Config is the run configuration. Relative directories are resolved
// against Root.
type Config struct {
	// Root is the project root; empty means detect from the working directory.
	Root string `yaml:"root"`

	// InputDir holds summary_by_income.csv and summary_by_income_year.csv.
	InputDir string `yaml:"input_dir"`

	// OutputDir receives every figure and derived table.
	OutputDir string `yaml:"output_dir"`

	// DPI is the raster resolution of figures.
	DPI int `yaml:"dpi"`

	// Workbook also writes descriptive_stats.xlsx with both stats tables.
	Workbook bool `yaml:"workbook"`

	// Aliases adjusts the per-field column alias lists.
	Aliases map[string]schema.AliasOverride `yaml:"aliases,omitempty"`
}

// Default returns the fixed layout: inputs and outputs both in figures/.
func Default() *Config {
	return &Config{
		InputDir:  "figures",
		OutputDir: "figures",
		DPI:       200,
	}
}

// Load reads a YAML config from path over the defaults. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyEnvOverrides()

	if cfg.DPI <= 0 {
		return nil, fmt.Errorf("invalid dpi %d", cfg.DPI)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if root := os.Getenv("INCOMESTATS_ROOT"); root != "" {
		c.Root = root
	}
	if dpi := os.Getenv("INCOMESTATS_DPI"); dpi != "" {
		if n, err := strconv.Atoi(dpi); err == nil && n > 0 {
			c.DPI = n
		}
	}
}

// Schema returns the default field schema with the configured alias
// overrides applied.
func (c *Config) Schema() schema.Config {
	return schema.DefaultConfig().WithOverrides(c.Aliases)
}

// InputPath returns the path of an input file under the input directory.
func (c *Config) InputPath(name string) string {
	return filepath.Join(c.dir(c.InputDir), name)
}

// OutputPath returns the path of an output file under the output directory.
func (c *Config) OutputPath(name string) string {
	return filepath.Join(c.dir(c.OutputDir), name)
}

// OutputRoot returns the resolved output directory.
func (c *Config) OutputRoot() string {
	return c.dir(c.OutputDir)
}

func (c *Config) dir(d string) string {
	if filepath.IsAbs(d) {
		return d
	}
	return filepath.Join(c.Root, d)
}

// FindRoot returns the nearest ancestor of start (inclusive) containing a
// figures/ directory or a go.mod file. When none exists, start is returned.
func FindRoot(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", start, err)
	}
	for dir := abs; ; {
		if info, err := os.Stat(filepath.Join(dir, "figures")); err == nil && info.IsDir() {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		dir = parent
	}
}

// NewLogger builds a production zap logger, at debug level when verbose.
func NewLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
