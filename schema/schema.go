package schema

// ============================================================================
// SCHEMA — Semantic fields and the column aliases that can carry them
// ============================================================================
// The summary CSVs are produced by upstream notebooks that never agreed on
// column names. Each semantic field carries a priority-ordered alias list;
// the resolver picks the first alias a table actually has.
// ============================================================================

// Semantic field keys. Records produced from a resolved table are keyed by
// these, never by the concrete column names.
const (
	FieldIncomeGroup = "income_group"
	FieldYear        = "year"
	FieldGDPPerCap   = "gdp_pc"
	FieldGDPGrowth   = "gdp_growth"
	FieldEmployment  = "employment"
)

// FieldKind says how a field's values are read.
type FieldKind string

const (
	KindDimension FieldKind = "dimension" // grouping label, kept as text
	KindTemporal  FieldKind = "temporal"  // year, normalized to an integer string
	KindMeasure   FieldKind = "measure"   // numeric, coerced; unparseable → missing
)

// Config is the ordered set of semantic fields for a dataset.
type Config struct {
	Fields []Field `json:"fields" yaml:"fields"`
}

// Field describes one semantic field.
type Field struct {
	Key         string    `json:"key" yaml:"key"`
	DisplayName string    `json:"displayName" yaml:"display_name"`
	Unit        string    `json:"unit,omitempty" yaml:"unit,omitempty"` // "percent", "usd"
	Kind        FieldKind `json:"kind" yaml:"kind"`
	Aliases     []string  `json:"aliases" yaml:"aliases"`
	Required    bool      `json:"required" yaml:"required"`
}

// IsNumeric reports whether values of the field are coerced to numbers.
func (f Field) IsNumeric() bool { return f.Kind == KindMeasure }

// DefaultConfig returns the World Bank summary fields with their alias lists
// in priority order.
func DefaultConfig() Config {
	return Config{
		Fields: []Field{
			{
				Key:         FieldIncomeGroup,
				DisplayName: "Income group",
				Kind:        KindDimension,
				Aliases:     []string{"income_group", "income", "income_group_name", "IncomeGroup", "income_group_label"},
				Required:    true,
			},
			{
				Key:         FieldYear,
				DisplayName: "Year",
				Kind:        KindTemporal,
				Aliases:     []string{"year", "Year", "date"},
				Required:    true,
			},
			{
				Key:         FieldGDPPerCap,
				DisplayName: "GDP per capita (constant USD)",
				Unit:        "usd",
				Kind:        KindMeasure,
				Aliases:     []string{"avg_gdp_pc", "gdp_percapita", "gdp_per_capita", "NY.GDP.PCAP.KD", "gdp_pc", "GDP_per_capita"},
				Required:    true,
			},
			{
				Key:         FieldGDPGrowth,
				DisplayName: "GDP growth (annual %)",
				Unit:        "percent",
				Kind:        KindMeasure,
				Aliases:     []string{"avg_gdp_growth", "gdp_growth", "NY.GDP.MKTP.KD.ZG", "gdp_growth_pct", "gdp_g"},
				Required:    true,
			},
			{
				Key:         FieldEmployment,
				DisplayName: "Employment to population ratio (%)",
				Unit:        "percent",
				Kind:        KindMeasure,
				Aliases:     []string{"avg_emp_ratio", "employment_ratio", "employment", "SL.EMP.TOTL.SP.ZS", "employment_to_population"},
				Required:    true,
			},
		},
	}
}

// Field returns the field with the given key.
func (c Config) Field(key string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Keys returns all field keys in declaration order.
func (c Config) Keys() []string {
	keys := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		keys[i] = f.Key
	}
	return keys
}

// AliasOverride adjusts one field's alias list and whether it must resolve.
// Replace wins over Prepend. A nil Required keeps the default.
type AliasOverride struct {
	Prepend  []string `json:"prepend,omitempty" yaml:"prepend,omitempty"`
	Replace  []string `json:"replace,omitempty" yaml:"replace,omitempty"`
	Required *bool    `json:"required,omitempty" yaml:"required,omitempty"`
}

// WithOverrides returns a copy of c with alias overrides applied.
// Overrides for unknown field keys are ignored. The receiver is not mutated.
func (c Config) WithOverrides(overrides map[string]AliasOverride) Config {
	out := Config{Fields: make([]Field, len(c.Fields))}
	for i, f := range c.Fields {
		f.Aliases = append([]string(nil), f.Aliases...)
		if o, ok := overrides[f.Key]; ok {
			switch {
			case len(o.Replace) > 0:
				f.Aliases = append([]string(nil), o.Replace...)
			case len(o.Prepend) > 0:
				f.Aliases = append(append([]string(nil), o.Prepend...), f.Aliases...)
			}
			if o.Required != nil {
				f.Required = *o.Required
			}
		}
		out.Fields[i] = f
	}
	return out
}
