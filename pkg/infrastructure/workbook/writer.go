// Package workbook serializes composed tables into an .xlsx report
package workbook

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/vsinha/replenish/pkg/domain/table"
)

const defaultSheet = "Sheet1"

var columnRef = regexp.MustCompile(`\{([^{}]+)\}`)

// Sheet is one worksheet to write
type Sheet struct {
	Name string
	// Headers are written instead of the table's column names when set.
	// They may repeat; the table's names may not.
	Headers []string
	Table   *table.Table
	// Formulas maps a column to a template referencing other columns as
	// {NAME}. Each data row gets the template resolved to its own cells.
	Formulas map[string]string
}

// Writer builds report workbooks
type Writer struct {
	ColumnWidth float64
	DateFormat  string
}

// NewWriter creates a writer with the report's default formatting
func NewWriter() *Writer {
	return &Writer{ColumnWidth: 15, DateFormat: "dd/mm/yyyy"}
}

// Write renders the sheets, in order, into one workbook and returns its bytes
func (w *Writer) Write(sheets []Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook needs at least one sheet")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	dateFormat := w.DateFormat
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFormat})
	if err != nil {
		return nil, fmt.Errorf("failed to create date style: %w", err)
	}

	keepDefault := false
	for _, sheet := range sheets {
		if sheet.Name == defaultSheet {
			keepDefault = true
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", sheet.Name, err)
		}
		if err := w.writeSheet(f, sheet, headerStyle, dateStyle); err != nil {
			return nil, fmt.Errorf("failed to write sheet %s: %w", sheet.Name, err)
		}
	}
	if !keepDefault {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return nil, fmt.Errorf("failed to remove default sheet: %w", err)
		}
	}

	index, err := f.GetSheetIndex(sheets[0].Name)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *Writer) writeSheet(f *excelize.File, sheet Sheet, headerStyle, dateStyle int) error {
	columns := sheet.Table.Columns()
	headers := sheet.Headers
	if headers == nil {
		headers = columns
	}
	if len(headers) != len(columns) {
		return fmt.Errorf("%d headers for %d columns", len(headers), len(columns))
	}

	letters := make(map[string]string, len(columns))
	for i, name := range columns {
		letter, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		letters[name] = letter
	}

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet.Name, cell, header); err != nil {
			return err
		}
	}
	if len(columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(columns), 1)
		if err := f.SetCellStyle(sheet.Name, "A1", last, headerStyle); err != nil {
			return err
		}
	}

	for r := 0; r < sheet.Table.Len(); r++ {
		excelRow := r + 2
		for c, name := range columns {
			cell, _ := excelize.CoordinatesToCellName(c+1, excelRow)
			value := sheet.Table.Value(r, name)

			if template, ok := sheet.Formulas[name]; ok {
				formula, err := resolveFormula(template, letters, excelRow)
				if err != nil {
					return fmt.Errorf("column %s: %w", name, err)
				}
				if err := f.SetCellValue(sheet.Name, cell, cellValue(value)); err != nil {
					return err
				}
				if err := f.SetCellFormula(sheet.Name, cell, formula); err != nil {
					return err
				}
				continue
			}

			if err := f.SetCellValue(sheet.Name, cell, cellValue(value)); err != nil {
				return err
			}
			if _, isDate := value.(time.Time); isDate {
				if err := f.SetCellStyle(sheet.Name, cell, cell, dateStyle); err != nil {
					return err
				}
			}
		}
	}

	if len(columns) > 0 {
		last, _ := excelize.ColumnNumberToName(len(columns))
		if err := f.SetColWidth(sheet.Name, "A", last, w.ColumnWidth); err != nil {
			return err
		}
	}
	return f.SetPanes(sheet.Name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// resolveFormula turns {NAME} references into cells of the given row
func resolveFormula(template string, letters map[string]string, row int) (string, error) {
	var missing string
	out := columnRef.ReplaceAllStringFunc(template, func(ref string) string {
		name := ref[1 : len(ref)-1]
		letter, ok := letters[name]
		if !ok {
			missing = name
			return ref
		}
		return fmt.Sprintf("%s%d", letter, row)
	})
	if missing != "" {
		return "", fmt.Errorf("formula references unknown column %q", missing)
	}
	return out, nil
}

// cellValue converts table values to types excelize writes natively
func cellValue(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.InexactFloat64()
	case nil:
		return ""
	default:
		return x
	}
}
