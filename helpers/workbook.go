package helpers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/incomestats/engine"
)

// ============================================================================
// WORKBOOK HELPER — Derived tables as one .xlsx, one sheet per table
// ============================================================================

// Sheet is one derived table destined for a workbook sheet.
type Sheet struct {
	Name  string
	Table *engine.TableData
}

// maxSheetName is Excel's sheet name length limit.
const maxSheetName = 31

// WriteWorkbook writes sheets to an .xlsx file at path. Number columns are
// stored as numbers; empty cells stay blank.
func WriteWorkbook(path string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("workbook %s: no sheets", path)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		name := SheetName(s.Name)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("workbook sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("workbook sheet %q: %w", name, err)
		}
		if err := writeSheet(f, name, s.Table); err != nil {
			return fmt.Errorf("workbook sheet %q: %w", name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, table *engine.TableData) error {
	for c, col := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col.Key); err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, cell[:len(cell)-1], cell[:len(cell)-1], 18); err != nil {
			return err
		}
	}

	for r, row := range table.Rows {
		for c, val := range row {
			if val == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			var v interface{} = val
			if c < len(table.Columns) && table.Columns[c].Type == "number" {
				if n, err := strconv.ParseFloat(val, 64); err == nil {
					v = n
				}
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// SheetName derives a valid sheet name from a file name:
// "descriptive_stats_by_year.csv" → "descriptive_stats_by_year".
func SheetName(name string) string {
	name = strings.TrimSuffix(name, ".csv")
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	if name == "" {
		name = "Sheet"
	}
	return name
}
