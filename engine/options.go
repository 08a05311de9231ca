package engine

import "go.uber.org/zap"

// ============================================================================
// ENGINE OPTIONS — Functional options for Execute()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Columns      map[string]string // field key → concrete column, used for table headers
	DisplayNames map[string]string // field key → axis/panel label
	YearKey      string
	Palette      []string
	Logger       *zap.Logger
}

// WithColumns sets the resolved column names. Derived tables name their
// columns after the input columns, as the upstream notebooks expect.
func WithColumns(columns map[string]string) Option {
	return func(c *config) {
		c.Columns = columns
	}
}

// WithDisplayNames sets human-readable labels for field keys.
func WithDisplayNames(names map[string]string) Option {
	return func(c *config) {
		c.DisplayNames = names
	}
}

// WithYearKey sets the dimension key holding the year (default "year").
func WithYearKey(key string) Option {
	return func(c *config) {
		c.YearKey = key
	}
}

// WithPalette overrides the series color palette (hex strings).
func WithPalette(colors []string) Option {
	return func(c *config) {
		if len(colors) > 0 {
			c.Palette = colors
		}
	}
}

// WithLogger sets the logger. Default: no-op.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		YearKey: "year",
		Palette: defaultColors,
		Logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// column returns the concrete column for key, falling back to the key.
func (c *config) column(key string) string {
	if col, ok := c.Columns[key]; ok && col != "" {
		return col
	}
	return key
}

// displayName returns the label for key, falling back to a capitalized key.
func (c *config) displayName(key string) string {
	if n, ok := c.DisplayNames[key]; ok && n != "" {
		return n
	}
	return LabelForDimension(key)
}
