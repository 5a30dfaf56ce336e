package table

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTable_SetAndRename(t *testing.T) {
	tbl := New(2)
	if err := tbl.Set("A", []any{"x", "y"}); err != nil {
		t.Fatalf("Failed to set column: %v", err)
	}
	if err := tbl.Set("B", []any{1}); err == nil {
		t.Fatalf("Expected length mismatch error, got none")
	}
	if err := tbl.Fill("C", 0); err != nil {
		t.Fatalf("Failed to fill column: %v", err)
	}

	if err := tbl.Rename("A", "C"); err == nil {
		t.Errorf("Expected rename onto existing column to fail")
	}
	if err := tbl.Rename("A", "Z"); err != nil {
		t.Fatalf("Failed to rename: %v", err)
	}

	cols := tbl.Columns()
	if strings.Join(cols, ",") != "Z,C" {
		t.Errorf("Expected columns Z,C, got %v", cols)
	}
	if tbl.Value(1, "Z") != "y" {
		t.Errorf("Expected renamed column to keep its values, got %v", tbl.Value(1, "Z"))
	}
	if tbl.Value(0, "missing") != nil {
		t.Errorf("Expected nil for a missing column")
	}
}

func TestSchema_ReconcileCompletesAndOrders(t *testing.T) {
	schema := Schema{Columns: []ColumnSpec{
		{Name: "ID"},
		{Name: "QTY", Default: DefaultZero},
		{Name: "NOTE"},
		{Name: "HITS_FORANEO", Label: "HITS", Default: DefaultZero},
	}}

	tbl := New(1)
	_ = tbl.Set("EXTRA", []any{"dropped"})
	_ = tbl.Set("ID", []any{"A1"})

	out, err := schema.Reconcile(tbl, DefaultBlank)
	if err != nil {
		t.Fatalf("Failed to reconcile: %v", err)
	}

	if strings.Join(out.Columns(), ",") != "ID,QTY,NOTE,HITS_FORANEO" {
		t.Errorf("Expected declared order, got %v", out.Columns())
	}
	if q, ok := out.Value(0, "QTY").(decimal.Decimal); !ok || !q.IsZero() {
		t.Errorf("Expected numeric zero default, got %#v", out.Value(0, "QTY"))
	}
	if out.Value(0, "NOTE") != "" {
		t.Errorf("Expected blank default, got %#v", out.Value(0, "NOTE"))
	}
	if out.Has("EXTRA") {
		t.Errorf("Expected undeclared column to be dropped")
	}

	labels := schema.Labels()
	if labels[3] != "HITS" {
		t.Errorf("Expected export label HITS, got %s", labels[3])
	}
}

func TestSchema_ReconcileZeroFallback(t *testing.T) {
	schema := Schema{Columns: []ColumnSpec{{Name: "ID"}, {Name: "NOTE"}}}
	out, err := schema.Reconcile(New(1), DefaultZero)
	if err != nil {
		t.Fatalf("Failed to reconcile: %v", err)
	}
	if _, ok := out.Value(0, "NOTE").(decimal.Decimal); !ok {
		t.Errorf("Expected zero fallback to produce a number, got %#v", out.Value(0, "NOTE"))
	}
}

func TestSchema_ValidateRejectsDuplicates(t *testing.T) {
	schema := Schema{Columns: []ColumnSpec{{Name: "HITS"}, {Name: "HITS"}}}
	if err := schema.Validate(); err == nil {
		t.Errorf("Expected duplicate internal names to be rejected")
	}
}
