package workbook

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/vsinha/replenish/pkg/domain/table"
)

func sampleTable(t *testing.T) *table.Table {
	t.Helper()
	tbl := table.New(2)
	columns := []struct {
		name   string
		values []any
	}{
		{"PARTE", []any{"A1", "B2"}},
		{"EXISTENCIA", []any{decimal.NewFromInt(4), decimal.Zero}},
		{"TRANSITO", []any{decimal.NewFromFloat(1.5), decimal.Zero}},
		{"TOTAL", []any{decimal.NewFromFloat(5.5), decimal.Zero}},
		{"FECHA", []any{time.Date(2025, time.August, 3, 0, 0, 0, 0, time.UTC), ""}},
		{"HITS_FORANEO", []any{decimal.NewFromInt(2), decimal.Zero}},
	}
	for _, c := range columns {
		if err := tbl.Set(c.name, c.values); err != nil {
			t.Fatalf("Failed to build table: %v", err)
		}
	}
	return tbl
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Failed to open written workbook: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWrite_SheetsHeadersAndFormulas(t *testing.T) {
	sheets := []Sheet{
		{
			Name:     "DIA CUAUTITLAN",
			Headers:  []string{"PARTE", "EXISTENCIA", "TRANSITO", "TOTAL", "FECHA", "HITS"},
			Table:    sampleTable(t),
			Formulas: map[string]string{"TOTAL": "{EXISTENCIA}+{TRANSITO}"},
		},
		{
			Name:  "DIA TULTITLAN",
			Table: sampleTable(t),
		},
	}

	data, err := NewWriter().Write(sheets)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	f := openWorkbook(t, data)

	list := f.GetSheetList()
	if len(list) != 2 || list[0] != "DIA CUAUTITLAN" || list[1] != "DIA TULTITLAN" {
		t.Fatalf("Expected exactly the two branch sheets, got %v", list)
	}

	rows, err := f.GetRows("DIA CUAUTITLAN")
	if err != nil {
		t.Fatalf("Failed to read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][5] != "HITS" {
		t.Errorf("Expected the export label HITS, got %q", rows[0][5])
	}
	if rows[1][0] != "A1" || rows[1][1] != "4" {
		t.Errorf("Expected A1 with 4 on hand, got %v", rows[1])
	}

	for row, expected := range map[string]string{"D2": "B2+C2", "D3": "B3+C3"} {
		formula, err := f.GetCellFormula("DIA CUAUTITLAN", row)
		if err != nil {
			t.Fatalf("Failed to read formula: %v", err)
		}
		if strings.TrimPrefix(formula, "=") != expected {
			t.Errorf("Expected %s formula %q, got %q", row, expected, formula)
		}
	}

	other, err := f.GetRows("DIA TULTITLAN")
	if err != nil {
		t.Fatalf("Failed to read rows: %v", err)
	}
	if other[0][5] != "HITS_FORANEO" {
		t.Errorf("Expected table names without explicit headers, got %q", other[0][5])
	}
	if formula, _ := f.GetCellFormula("DIA TULTITLAN", "D2"); formula != "" {
		t.Errorf("Expected no formulas on a sheet without them, got %q", formula)
	}
}

func TestWrite_DatesAreNumeric(t *testing.T) {
	data, err := NewWriter().Write([]Sheet{{Name: "DIA CUAUTITLAN", Table: sampleTable(t)}})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	f := openWorkbook(t, data)

	raw, err := f.GetCellValue("DIA CUAUTITLAN", "E2", excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("Failed to read cell: %v", err)
	}
	got, err := excelize.ExcelDateToTime(mustFloat(t, raw), false)
	if err != nil {
		t.Fatalf("Expected a serial date, got %q", raw)
	}
	if !got.Equal(time.Date(2025, time.August, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected 2025-08-03, got %v", got)
	}
}

func TestWrite_Errors(t *testing.T) {
	t.Run("no sheets", func(t *testing.T) {
		if _, err := NewWriter().Write(nil); err == nil {
			t.Errorf("Expected an error for an empty workbook")
		}
	})

	t.Run("unknown formula column", func(t *testing.T) {
		sheets := []Sheet{{
			Name:     "X",
			Table:    sampleTable(t),
			Formulas: map[string]string{"TOTAL": "{NOPE}*2"},
		}}
		if _, err := NewWriter().Write(sheets); err == nil || !strings.Contains(err.Error(), "NOPE") {
			t.Errorf("Expected an error naming the unknown column, got %v", err)
		}
	})

	t.Run("header count mismatch", func(t *testing.T) {
		sheets := []Sheet{{Name: "X", Headers: []string{"ONLY"}, Table: sampleTable(t)}}
		if _, err := NewWriter().Write(sheets); err == nil {
			t.Errorf("Expected an error for mismatched headers")
		}
	})
}

func TestResolveFormula(t *testing.T) {
	letters := map[string]string{"A": "B", "PROMEDIO_X": "AA"}
	got, err := resolveFormula("IF({PROMEDIO_X}=0,0,{A}/{PROMEDIO_X})", letters, 7)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != "IF(AA7=0,0,B7/AA7)" {
		t.Errorf("Expected IF(AA7=0,0,B7/AA7), got %s", got)
	}
}

func mustFloat(t *testing.T, s string) float64 {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("Expected a number, got %q", s)
	}
	return d.InexactFloat64()
}
