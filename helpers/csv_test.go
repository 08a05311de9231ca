package helpers

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/incomestats/engine"
	"github.com/spektr-org/incomestats/schema"
)

var incomeCSV = []byte(`IncomeGroup,Year,avg_gdp_pc,gdp_growth, avg_emp_ratio ,notes
High income,2000,"41,000.5",2.1,58,x
Low income,2000.0,612,n/a,70,
Low income,2001,abc,3.5,NA,
NA,2001,900,1.2,61,
Upper middle income,,5000,4.0,62,
`)

func TestParseCSVResolvesAliasesAndCoerces(t *testing.T) {
	tbl, err := ParseCSV(incomeCSV, schema.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, "IncomeGroup", tbl.Resolved.Column(schema.FieldIncomeGroup))
	assert.Equal(t, "Year", tbl.Resolved.Column(schema.FieldYear))
	assert.Equal(t, "avg_emp_ratio", tbl.Resolved.Column(schema.FieldEmployment))
	require.Len(t, tbl.Records, 5)

	first := tbl.Records[0]
	assert.Equal(t, "High income", first.Dimensions[schema.FieldIncomeGroup])
	assert.Equal(t, "2000", first.Dimensions[schema.FieldYear])
	assert.Equal(t, 41000.5, first.Measures[schema.FieldGDPPerCap])
	assert.NotContains(t, first.Dimensions, "notes", "unresolved columns are not read")

	low := tbl.Records[1]
	assert.Equal(t, "2000", low.Dimensions[schema.FieldYear], "2000.0 normalizes to 2000")
	_, ok := low.Measures[schema.FieldGDPGrowth]
	assert.False(t, ok, "missing token stays missing")

	_, ok = tbl.Records[2].Measures[schema.FieldGDPPerCap]
	assert.False(t, ok, "unparseable becomes missing")
	assert.Equal(t, 1, tbl.Coerced, "only the non-token cell counts as coerced")

	assert.Equal(t, "", tbl.Records[3].Dimensions[schema.FieldIncomeGroup])
	assert.Equal(t, "", tbl.Records[4].Dimensions[schema.FieldYear])
	assert.Equal(t, 5, tbl.View().Len())
}

func TestParseCSVSubsetOfFields(t *testing.T) {
	data := []byte("income,gdp_growth\nLow income,3\n")
	tbl, err := ParseCSV(data, schema.DefaultConfig(), schema.FieldIncomeGroup, schema.FieldGDPGrowth)
	require.NoError(t, err)
	require.Len(t, tbl.Records, 1)
	assert.Equal(t, 3.0, tbl.Records[0].Measures[schema.FieldGDPGrowth])
}

func TestParseCSVMissingColumn(t *testing.T) {
	data := []byte("income,gdp_growth\nLow income,3\n")
	_, err := ParseCSV(data, schema.DefaultConfig())

	var missing *schema.MissingColumnError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, schema.FieldYear, missing.Field)
}

func TestParseCSVEmpty(t *testing.T) {
	_, err := ParseCSV(nil, schema.DefaultConfig())
	assert.ErrorIs(t, err, ErrEmptyCSV)
}

func TestLoadTableMissingFile(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "nope.csv"), schema.DefaultConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestShortRowsReadAsEmpty(t *testing.T) {
	data := []byte("income,year,gdp_growth\nLow income,2001\n")
	tbl, err := ParseCSV(data, schema.DefaultConfig(), schema.FieldIncomeGroup, schema.FieldYear, schema.FieldGDPGrowth)
	require.NoError(t, err)
	require.Len(t, tbl.Records, 1)
	assert.Empty(t, tbl.Records[0].Measures)
}

func TestWriteTableCSVRoundTrip(t *testing.T) {
	table := &engine.TableData{
		Columns: []engine.Column{
			{Key: "Year", Type: "number"},
			{Key: "avg_gdp_pc", Type: "number"},
			{Key: "gdp_growth", Type: "number"},
		},
		Rows: [][]string{
			{"2000", "1234.5", "2.25"},
			{"2001", "", "-0.5"},
		},
	}
	path := filepath.Join(t.TempDir(), "descriptive_stats_by_year.csv")
	require.NoError(t, WriteTableCSV(path, table))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	headers, rows, err := ReadCSV(f)
	require.NoError(t, err)

	assert.Equal(t, []string{"Year", "avg_gdp_pc", "gdp_growth"}, headers)
	assert.Equal(t, table.Rows, rows)

	// Read back through the schema, empty cells are missing again.
	res, err := schema.Resolve(headers, schema.DefaultConfig(), schema.FieldYear, schema.FieldGDPPerCap)
	require.NoError(t, err)
	records, coerced := ParseRecords(headers, rows, res)
	assert.Zero(t, coerced)
	require.Len(t, records, 2)
	assert.Equal(t, 1234.5, records[0].Measures[schema.FieldGDPPerCap])
	assert.Equal(t, "2001", records[1].Dimensions[schema.FieldYear])
	_, ok := records[1].Measures[schema.FieldGDPPerCap]
	assert.False(t, ok, "empty cell reads back as missing")
}

func TestWriteCSVHeader(t *testing.T) {
	var buf bytes.Buffer
	table := &engine.TableData{Columns: []engine.Column{{Key: "a"}, {Key: "b"}}}
	require.NoError(t, WriteCSV(&buf, table))
	assert.Equal(t, "a,b\n", buf.String())
}

func TestWriteWorkbook(t *testing.T) {
	table := &engine.TableData{
		Columns: []engine.Column{{Key: "IncomeGroup", Type: "text"}, {Key: "gdp_pc_mean", Type: "number"}},
		Rows:    [][]string{{"Low income", "612.5"}, {"High income", ""}},
	}
	path := filepath.Join(t.TempDir(), "descriptive_stats.xlsx")
	require.NoError(t, WriteWorkbook(path, []Sheet{
		{Name: "descriptive_stats_by_income_group.csv", Table: table},
		{Name: "by_year", Table: table},
	}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"descriptive_stats_by_income_gro", "by_year"}, f.GetSheetList())
	v, err := f.GetCellValue("by_year", "B2")
	require.NoError(t, err)
	assert.Equal(t, "612.5", v)
	v, err = f.GetCellValue("by_year", "B3")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	assert.Error(t, WriteWorkbook(path, nil))
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "a_b", SheetName("a/b.csv"))
	assert.Equal(t, "Sheet", SheetName(".csv"))
}
