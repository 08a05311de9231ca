package engine

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ============================================================================
// PLAN FILES — User-declared outputs in YAML
// ============================================================================
// A plan file lists OutputSpecs; anything left blank is filled from the
// aggregation:
//
//   outputs:
//     - name: growth_by_income.png
//       source: summary_by_income_year.csv
//       aggregation: distribution
//       group_by: income_group
//       measures: [gdp_growth]
// ============================================================================

// PlanFile is a parsed plan file. Require lists dimensions every record must
// have before any output runs.
type PlanFile struct {
	Require []string     `yaml:"require,omitempty"`
	Outputs []OutputSpec `yaml:"outputs"`
}

// ParsePlan parses and normalizes a YAML plan. Each output is validated as
// Execute would; the first invalid one is reported.
func ParsePlan(data []byte) (*PlanFile, error) {
	var pf PlanFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}
	if len(pf.Outputs) == 0 {
		return nil, fmt.Errorf("plan has no outputs")
	}

	seen := make(map[string]bool, len(pf.Outputs))
	for i := range pf.Outputs {
		spec := NormalizeOutputSpec(pf.Outputs[i])
		if spec.Name == "" {
			return nil, fmt.Errorf("plan output %d: missing name", i+1)
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("plan output %d: duplicate name %q", i+1, spec.Name)
		}
		seen[spec.Name] = true
		if err := Validate(spec); err != nil {
			return nil, err
		}
		pf.Outputs[i] = spec
	}
	return &pf, nil
}

// defaultSort maps an aggregation to its group order.
var defaultSort = map[string]string{
	"describe":     "income_order",
	"distribution": "income_only",
	"pairs":        "income_only",
	"correlation":  "income_only",
}

// NormalizeOutputSpec fills blank fields of s from its aggregation.
func NormalizeOutputSpec(s OutputSpec) OutputSpec {
	if s.Aggregation == "" {
		s.Aggregation = "avg"
	}
	if s.Visualize == "" {
		if s.Intent == "table" {
			s.Visualize = "table"
		} else {
			s.Visualize = formsOf(s.Aggregation)[0]
		}
	}
	if s.Intent == "" {
		s.Intent = "chart"
		if s.Visualize == "table" {
			s.Intent = "table"
		}
	}
	if s.SortBy == "" {
		if sort, ok := defaultSort[s.Aggregation]; ok {
			s.SortBy = sort
		} else if s.Aggregation != "trend" && s.Aggregation != "yearly_mean" {
			s.SortBy = "value_desc"
		}
	}
	if s.Title == "" {
		s.Title = s.Name
	}
	return s
}
