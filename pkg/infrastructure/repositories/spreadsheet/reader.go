package spreadsheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned for extensions no reader handles
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
	// ErrMissingColumn is returned when a required column cannot be found
	ErrMissingColumn = errors.New("missing required column")
	// ErrTooFewColumns is returned when a positional file is narrower than its layout
	ErrTooFewColumns = errors.New("too few columns")
)

// FileError reports a file that could not be used at all
type FileError struct {
	File   string
	Reason string
	Err    error
}

func (e *FileError) Error() string {
	if e.Err != nil && e.Reason != "" {
		return fmt.Sprintf("%s: %s: %v", filepath.Base(e.File), e.Reason, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", filepath.Base(e.File), e.Err)
	}
	return fmt.Sprintf("%s: %s", filepath.Base(e.File), e.Reason)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Sheet is the first worksheet of a file as rows of raw cell text
type Sheet struct {
	File string
	Name string
	Rows [][]string
}

// Width returns the widest row length
func (s *Sheet) Width() int {
	width := 0
	for _, row := range s.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// Cell returns a trimmed cell, empty when the row is shorter than col
func Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// ReadSheet reads the first worksheet of a .xlsx, .xls or .csv file.
// The engine is chosen by extension.
func ReadSheet(path string) (*Sheet, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readXLSX(path)
	case ".xls":
		return readXLS(path)
	case ".csv":
		return readCSV(path)
	default:
		return nil, &FileError{File: path, Err: ErrUnsupportedFormat}
	}
}

func readXLSX(path string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &FileError{File: path, Reason: "failed to open workbook", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &FileError{File: path, Reason: "workbook has no sheets"}
	}

	// Raw values keep dates as serial numbers, independent of cell formatting
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &FileError{File: path, Reason: fmt.Sprintf("failed to read sheet %s", sheets[0]), Err: err}
	}

	return &Sheet{File: path, Name: sheets[0], Rows: rows}, nil
}

func readXLS(path string) (*Sheet, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, &FileError{File: path, Reason: "failed to open legacy workbook", Err: err}
	}

	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, &FileError{File: path, Reason: "workbook has no sheets"}
	}

	rows := make([][]string, 0, int(ws.MaxRow)+1)
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := range cells {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}

	return &Sheet{File: path, Name: ws.Name, Rows: rows}, nil
}

func readCSV(path string) (*Sheet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &FileError{File: path, Reason: "failed to open file", Err: err}
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, &FileError{File: path, Reason: "failed to read CSV", Err: err}
	}

	return &Sheet{File: path, Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), Rows: records}, nil
}
