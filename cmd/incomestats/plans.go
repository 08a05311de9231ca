package main

import (
	"fmt"
	"os"

	"github.com/spektr-org/incomestats/engine"
	"github.com/spektr-org/incomestats/schema"
)

// Input tables, relative to the input directory.
const (
	sourceByIncome     = "summary_by_income.csv"
	sourceByIncomeYear = "summary_by_income_year.csv"
)

// workbookName is written when the workbook option is on.
const workbookName = "descriptive_stats.xlsx"

var indicators = []string{schema.FieldGDPPerCap, schema.FieldGDPGrowth, schema.FieldEmployment}

// Plan is one batch of outputs. Require lists dimensions a record must have
// to take part in any output of the plan.
type Plan struct {
	Name    string
	Short   string
	Require []string
	Outputs []engine.OutputSpec
}

func plans() []Plan {
	return []Plan{describePlan(), figuresPlan(), analysisPlan()}
}

// describePlan: descriptive statistics tables and the global trend figure.
func describePlan() Plan {
	return Plan{
		Name:  "describe",
		Short: "Descriptive statistics by income group and by year",
		Outputs: []engine.OutputSpec{
			{
				Name:        "descriptive_stats_by_income.csv",
				Source:      sourceByIncome,
				Intent:      "table",
				Aggregation: "describe",
				GroupBy:     schema.FieldIncomeGroup,
				Measures:    indicators,
				SortBy:      "income_order",
				Visualize:   "table",
				Title:       "Descriptive statistics by income group",
			},
			{
				Name:        "descriptive_stats_yearly.csv",
				Source:      sourceByIncomeYear,
				Intent:      "table",
				Aggregation: "yearly_mean",
				Measures:    indicators,
				Visualize:   "table",
				Title:       "Yearly means across income groups",
			},
			{
				Name:        "global_indicator_trends.png",
				Source:      sourceByIncomeYear,
				Intent:      "chart",
				Aggregation: "yearly_mean",
				Measures:    indicators,
				Visualize:   "dual_axis",
				Title:       "Mean indicators across income groups (yearly)",
				XAxis:       "Year",
				YAxis:       "GDP growth / Employment (%)",
			},
		},
	}
}

// figuresPlan: mean GDP per capita bar and per-group indicator trends.
func figuresPlan() Plan {
	return Plan{
		Name:  "figures",
		Short: "GDP per capita bar chart and indicator trends by income group",
		Outputs: []engine.OutputSpec{
			{
				Name:        "gdp_percapita_by_income.png",
				Source:      sourceByIncome,
				Intent:      "chart",
				Aggregation: "avg",
				GroupBy:     schema.FieldIncomeGroup,
				Measures:    []string{schema.FieldGDPPerCap},
				SortBy:      "value_desc",
				Visualize:   "bar",
				Title:       "Average GDP per capita by World Bank income group (2000–2023)",
				XAxis:       "Income group",
				YAxis:       "GDP per capita (constant USD)",
			},
			{
				Name:        "indicator_trends_by_income.png",
				Source:      sourceByIncomeYear,
				Intent:      "chart",
				Aggregation: "trend",
				GroupBy:     schema.FieldIncomeGroup,
				Measures:    indicators,
				Visualize:   "multi_line",
				Title:       "Indicator trends by income group",
				XAxis:       "Year",
			},
		},
	}
}

// analysisPlan: growth distribution, GDP vs employment, and their
// per-group correlation. Records without a year or income group are
// dropped first.
func analysisPlan() Plan {
	return Plan{
		Name:    "analysis",
		Short:   "Growth box plot, GDP vs employment scatter, growth/employment correlation",
		Require: []string{schema.FieldYear, schema.FieldIncomeGroup},
		Outputs: []engine.OutputSpec{
			{
				Name:        "gdp_growth_boxplot.png",
				Source:      sourceByIncomeYear,
				Intent:      "chart",
				Aggregation: "distribution",
				GroupBy:     schema.FieldIncomeGroup,
				Measures:    []string{schema.FieldGDPGrowth},
				SortBy:      "income_only",
				Visualize:   "box",
				Title:       "GDP Growth by Income Group, 2000–2023",
				YAxis:       "GDP Growth (%)",
			},
			{
				Name:        "gdp_pc_vs_employment_scatters.png",
				Source:      sourceByIncomeYear,
				Intent:      "chart",
				Aggregation: "pairs",
				GroupBy:     schema.FieldIncomeGroup,
				Measures:    []string{schema.FieldGDPPerCap, schema.FieldEmployment},
				SortBy:      "income_only",
				Visualize:   "scatter",
				Title:       "GDP per Capita vs Employment",
				XAxis:       "GDP per Capita (constant USD, log scale)",
				YAxis:       "Employment-to-Population Ratio (%)",
			},
			{
				Name:        "growth_employment_pearson_correlation.png",
				Source:      sourceByIncomeYear,
				Intent:      "chart",
				Aggregation: "correlation",
				GroupBy:     schema.FieldIncomeGroup,
				Measures:    []string{schema.FieldGDPGrowth, schema.FieldEmployment},
				SortBy:      "income_only",
				Visualize:   "bar",
				Title:       "GDP Growth & Employment Ratio Correlation",
				YAxis:       "Pearson Correlation",
			},
		},
	}
}

// loadPlanFile reads a user plan. Outputs without a source read the
// per-year table.
func loadPlanFile(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to read plan %s: %w", path, err)
	}
	pf, err := engine.ParsePlan(data)
	if err != nil {
		return Plan{}, fmt.Errorf("%s: %w", path, err)
	}
	for i := range pf.Outputs {
		if pf.Outputs[i].Source == "" {
			pf.Outputs[i].Source = sourceByIncomeYear
		}
	}
	return Plan{Name: "plan", Short: path, Require: pf.Require, Outputs: pf.Outputs}, nil
}
