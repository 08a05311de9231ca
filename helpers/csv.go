package helpers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spektr-org/incomestats/engine"
	"github.com/spektr-org/incomestats/schema"
)

// ============================================================================
// CSV HELPER — Parses indicator tables into []engine.Record
// ============================================================================
// Columns are resolved to semantic fields first; only resolved columns are
// read. Cells are coerced per field kind:
//   measure   → float, unparseable or missing tokens become missing
//   temporal  → integer year as a string, unparseable becomes ""
//   dimension → trimmed text, missing tokens become ""
// Records are keyed by field key, never by the concrete column name.
// ============================================================================

// ErrEmptyCSV is returned when a CSV has no header row.
var ErrEmptyCSV = errors.New("csv has no header row")

// Table is one loaded input table.
type Table struct {
	Path     string
	Headers  []string
	Rows     [][]string
	Resolved schema.Resolved
	Records  []engine.Record
	Coerced  int // non-missing cells that failed to parse and were treated as missing
}

// View returns the table's records as a RecordView.
func (t *Table) View() engine.RecordView {
	return engine.NewSliceView(t.Records)
}

// ReadCSV reads a header row and all data rows. Ragged rows are kept;
// short rows read as empty cells.
func ReadCSV(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, nil, ErrEmptyCSV
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read CSV row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

// ParseCSV parses CSV bytes, resolving the given field keys (all fields of
// cfg when none are given). A required field without a matching column is
// returned as a *schema.MissingColumnError.
func ParseCSV(data []byte, cfg schema.Config, keys ...string) (*Table, error) {
	headers, rows, err := ReadCSV(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	res, err := schema.Resolve(headers, cfg, keys...)
	if err != nil {
		return nil, err
	}
	records, coerced := ParseRecords(headers, rows, res)
	return &Table{
		Headers:  headers,
		Rows:     rows,
		Resolved: res,
		Records:  records,
		Coerced:  coerced,
	}, nil
}

// LoadTable reads and parses the CSV file at path.
func LoadTable(path string, cfg schema.Config, keys ...string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	t, err := ParseCSV(data, cfg, keys...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t.Path = path
	return t, nil
}

// ParseRecords converts rows into Records for the resolved fields and
// reports how many non-missing cells could not be parsed.
func ParseRecords(headers []string, rows [][]string, res schema.Resolved) ([]engine.Record, int) {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	type colMapping struct {
		field schema.Field
		col   int
	}
	mappings := make([]colMapping, 0, len(res.Fields))
	for _, f := range res.Fields {
		mappings = append(mappings, colMapping{field: f, col: index[res.Column(f.Key)]})
	}

	records := make([]engine.Record, 0, len(rows))
	coerced := 0
	for _, row := range rows {
		rec := engine.Record{
			Dimensions: make(map[string]string),
			Measures:   make(map[string]float64),
		}
		for _, m := range mappings {
			var raw string
			if m.col < len(row) {
				raw = strings.TrimSpace(row[m.col])
			}
			missing := schema.IsMissingToken(raw)

			switch m.field.Kind {
			case schema.KindMeasure:
				if f, ok := schema.ParseNumber(raw); ok {
					rec.Measures[m.field.Key] = f
				} else if !missing {
					coerced++
				}
			case schema.KindTemporal:
				if y, ok := schema.ParseYear(raw); ok {
					rec.Dimensions[m.field.Key] = strconv.Itoa(y)
				} else {
					rec.Dimensions[m.field.Key] = ""
					if !missing {
						coerced++
					}
				}
			default:
				if missing {
					raw = ""
				}
				rec.Dimensions[m.field.Key] = raw
			}
		}
		records = append(records, rec)
	}
	return records, coerced
}

// WriteCSV writes a derived table: header of column keys, then rows.
func WriteCSV(w io.Writer, table *engine.TableData) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Header()); err != nil {
		return err
	}
	if err := cw.WriteAll(table.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteTableCSV writes a derived table to path, replacing any existing file.
func WriteTableCSV(path string, table *engine.TableData) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteCSV(f, table); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
