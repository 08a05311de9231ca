package schema

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ============================================================================
// COLUMN PROFILING — What a loaded table actually looks like
// ============================================================================
// Used by the inspect command and by load-time logging. For each column:
//   1. Count missing cells (empty / null tokens)
//   2. Detect type from the share of values that parse as numbers
//   3. Record cardinality and a few sorted sample values
//   4. Note which semantic field, if any, claims the column
// ============================================================================

// ColumnType is the detected type of a column.
type ColumnType string

const (
	TypeNumeric ColumnType = "numeric"
	TypeText    ColumnType = "text"
	TypeEmpty   ColumnType = "empty"
)

// ColumnProfile summarizes one column of a table.
type ColumnProfile struct {
	Column          string     `json:"column" yaml:"column"`
	Type            ColumnType `json:"type" yaml:"type"`
	Field           string     `json:"field,omitempty" yaml:"field,omitempty"` // semantic field claiming this column
	Unit            string     `json:"unit,omitempty" yaml:"unit,omitempty"`   // unit of the claiming field
	Count           int        `json:"count" yaml:"count"`
	Missing         int        `json:"missing" yaml:"missing"`
	Unparseable     int        `json:"unparseable,omitempty" yaml:"unparseable,omitempty"` // non-missing cells that fail numeric parse
	Unique          int        `json:"unique" yaml:"unique"`
	CardinalityHint string     `json:"cardinalityHint" yaml:"cardinality_hint"`
	SampleValues    []string   `json:"sampleValues" yaml:"sample_values"`
}

// Profile inspects every column of a table. res may be empty; when set, each
// profile notes the semantic field that resolved to it.
func Profile(headers []string, rows [][]string, res Resolved) []ColumnProfile {
	byColumn := make(map[string]Field, len(res.Fields))
	for _, f := range res.Fields {
		byColumn[res.Column(f.Key)] = f
	}

	profiles := make([]ColumnProfile, len(headers))
	for i, h := range headers {
		p := analyzeColumn(strings.TrimSpace(h), i, rows)
		if f, ok := byColumn[p.Column]; ok {
			p.Field = f.Key
			p.Unit = f.Unit
		}
		profiles[i] = p
	}
	return profiles
}

func analyzeColumn(header string, index int, rows [][]string) ColumnProfile {
	p := ColumnProfile{Column: header, Count: len(rows)}

	values := make([]string, 0, len(rows))
	uniqueSet := make(map[string]bool)
	for _, row := range rows {
		if index >= len(row) {
			p.Missing++
			continue
		}
		val := strings.TrimSpace(row[index])
		if IsMissingToken(val) {
			p.Missing++
			continue
		}
		values = append(values, val)
		uniqueSet[val] = true
	}
	p.Unique = len(uniqueSet)

	switch {
	case p.Unique <= 10:
		p.CardinalityHint = "low"
	case p.Unique <= 100:
		p.CardinalityHint = "medium"
	default:
		p.CardinalityHint = "high"
	}

	if len(values) == 0 {
		p.Type = TypeEmpty
		return p
	}

	p.SampleValues = collectSamples(uniqueSet, 5)

	numeric := 0
	for _, v := range values {
		if _, ok := ParseNumber(v); ok {
			numeric++
		}
	}
	// 80%+ numeric → numeric column; the rest are the cells coercion will drop
	if numeric >= int(float64(len(values))*0.8) {
		p.Type = TypeNumeric
		p.Unparseable = len(values) - numeric
	} else {
		p.Type = TypeText
	}
	return p
}

// ============================================================================
// COERCION
// ============================================================================

var missingTokens = map[string]bool{
	"": true, "null": true, "NULL": true, "N/A": true, "n/a": true,
	"NA": true, "NaN": true, "nan": true, "..": true,
}

// IsMissingToken reports whether a trimmed cell denotes a missing value.
func IsMissingToken(s string) bool {
	return missingTokens[s]
}

// thousandsPattern matches numbers with well-formed comma thousands groups.
var thousandsPattern = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// ParseNumber coerces a cell to a float. Missing tokens, NaN, infinities and
// anything unparseable report false. Commas are accepted only as thousands
// separators: "1,234.5" parses, "1,2" does not.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if IsMissingToken(s) {
		return 0, false
	}
	if strings.Contains(s, ",") {
		if !thousandsPattern.MatchString(s) {
			return 0, false
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseYear coerces a cell to a calendar year. "2000", "2000.0" and
// "2000-01-01" all give 2000.
func ParseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if v, ok := ParseNumber(s); ok {
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	}
	// ISO-style dates from the "date" alias
	if len(s) >= 4 {
		if y, err := strconv.Atoi(s[:4]); err == nil && (len(s) == 4 || s[4] == '-') {
			return y, true
		}
	}
	return 0, false
}

// collectSamples picks up to maxSamples values, sorted for stable output.
func collectSamples(uniqueSet map[string]bool, maxSamples int) []string {
	samples := make([]string, 0, len(uniqueSet))
	for v := range uniqueSet {
		samples = append(samples, v)
	}
	sort.Strings(samples)
	if len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}
	return samples
}
