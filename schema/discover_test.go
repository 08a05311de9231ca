package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12.5", 12.5, true},
		{" -3 ", -3, true},
		{"1,234.5", 1234.5, true},
		{"-12,345,678", -12345678, true},
		{"1,2", 0, false},
		{"3,,4", 0, false},
		{"1234,567", 0, false},
		{",123", 0, false},
		{"1,234.", 0, false},
		{"1e3", 1000, true},
		{"", 0, false},
		{"NaN", 0, false},
		{"n/a", 0, false},
		{"..", 0, false},
		{"abc", 0, false},
		{"Inf", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		assert.Equal(t, tt.ok, ok, "ParseNumber(%q)", tt.in)
		if tt.ok {
			assert.InDelta(t, tt.want, got, 1e-12, "ParseNumber(%q)", tt.in)
		}
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"2000", 2000, true},
		{"2000.0", 2000, true},
		{"2019-01-01", 2019, true},
		{"2000.5", 0, false},
		{"", 0, false},
		{"Y2K", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseYear(tt.in)
		assert.Equal(t, tt.ok, ok, "ParseYear(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseYear(%q)", tt.in)
	}
}

func TestProfile(t *testing.T) {
	headers := []string{"income_group", "year", "avg_gdp_pc", "notes"}
	rows := [][]string{
		{"High income", "2000", "41000.5", ""},
		{"Low income", "2000", "610.2", ""},
		{"High income", "2001", "", ""},
		{"Low income", "2001", "n/a", ""},
		{"Low income", "2002", "615", ""},
		{"High income"},
	}
	res, err := Resolve(headers, DefaultConfig(), FieldIncomeGroup, FieldYear, FieldGDPPerCap)
	require.NoError(t, err)

	profiles := Profile(headers, rows, res)
	require.Len(t, profiles, 4)

	group := profiles[0]
	assert.Equal(t, TypeText, group.Type)
	assert.Equal(t, FieldIncomeGroup, group.Field)
	assert.Empty(t, group.Unit)
	assert.Equal(t, 2, group.Unique)
	assert.Equal(t, []string{"High income", "Low income"}, group.SampleValues)
	assert.Equal(t, "low", group.CardinalityHint)

	year := profiles[1]
	assert.Equal(t, TypeNumeric, year.Type)
	assert.Equal(t, 1, year.Missing) // short row

	gdp := profiles[2]
	assert.Equal(t, TypeNumeric, gdp.Type)
	assert.Equal(t, FieldGDPPerCap, gdp.Field)
	assert.Equal(t, "usd", gdp.Unit)
	assert.Equal(t, 3, gdp.Missing) // "", "n/a", short row

	notes := profiles[3]
	assert.Equal(t, TypeEmpty, notes.Type)
	assert.Equal(t, "", notes.Field)
	assert.Equal(t, 6, notes.Missing)
}

func TestProfileCountsUnparseableNumericCells(t *testing.T) {
	headers := []string{"gdp_growth"}
	rows := [][]string{{"1.5"}, {"2.5"}, {"3"}, {"4"}, {"oops"}}
	profiles := Profile(headers, rows, Resolved{})
	require.Len(t, profiles, 1)
	assert.Equal(t, TypeNumeric, profiles[0].Type)
	assert.Equal(t, 1, profiles[0].Unparseable)
}
