package orchestration

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/vsinha/replenish/pkg/application/dto"
	"github.com/vsinha/replenish/pkg/application/services/report"
	"github.com/vsinha/replenish/pkg/application/services/sales"
	"github.com/vsinha/replenish/pkg/domain/entities"
	"github.com/vsinha/replenish/pkg/domain/table"
	"github.com/vsinha/replenish/pkg/infrastructure/config"
	"github.com/vsinha/replenish/pkg/infrastructure/events"
	"github.com/vsinha/replenish/pkg/infrastructure/logging"
	"github.com/vsinha/replenish/pkg/infrastructure/repositories/spreadsheet"
	"github.com/vsinha/replenish/pkg/infrastructure/storage"
	"github.com/vsinha/replenish/pkg/infrastructure/workbook"
)

var runClock = time.Date(2026, time.February, 17, 10, 30, 0, 0, time.UTC)

type fixture struct {
	dir      string
	salesDir string
	inputs   Inputs
}

func writeFile(t *testing.T, path string, lines ...string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create fixture dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	return path
}

// newFixture lays out a two-branch run: baseline {A, B}, inventory with
// A only, five in-window sales of A at Cuautitlan
func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{dir: dir, salesDir: filepath.Join(dir, "ventas")}

	baselineC := writeFile(t, filepath.Join(dir, "sugerido_cuauti.csv"),
		"N° PARTE,SUGERIDO DIA,ULTIMOS 12 MESES",
		"A,10,24",
		"B,3,",
	)
	baselineT := writeFile(t, filepath.Join(dir, "sugerido_tulti.csv"),
		"NUM. PARTE,SUGERIDO DIA",
		"A,1",
	)
	invC := writeFile(t, filepath.Join(dir, "inv_cuauti.csv"),
		"A,FILTRO,A,x,12.5,x,x,x,4,15/01/2024,20/09/2025,01/10/2025",
		"Z,SIN INGRESO,C,x,1,x,x,x,9,,,",
	)
	invT := writeFile(t, filepath.Join(dir, "inv_tulti.csv"),
		"A,FILTRO,A,x,12.5,x,x,x,6,15/01/2024,05/11/2025,01/12/2025",
	)
	transit := writeFile(t, filepath.Join(dir, "transito.csv"),
		"N° PARTE,TRANSITO",
		"A,1",
	)
	transfers := writeFile(t, filepath.Join(dir, "traspasos.csv"),
		"TRASPASO A CUAUTITLAN,x,A,x,-3",
		"TRASPASO A TULTITLAN,x,A,x,8",
	)

	writeFile(t, filepath.Join(f.salesDir, "VENTAS_CUAUTITLAN_2025_MASTER.csv"),
		"N° PARTE,FECHA,CANTIDAD",
		"A,03/03/2025,2",
		"A,04/04/2025,2",
		"A,05/05/2025,2",
		"A,06/06/2025,2",
		"A,07/07/2025,2",
		"A,15/01/2025,50",
	)
	writeFile(t, filepath.Join(f.salesDir, "VENTAS_CUAUTITLAN_2026_MASTER.csv"),
		"N° PARTE,FECHA,CANTIDAD",
		"A,01/02/2026,99",
	)

	f.inputs = Inputs{
		Branches: map[string]BranchInputs{
			"cuautitlan": {Suggestions: baselineC, Inventory: invC, Transit: transit, Transfers: transfers},
			"tultitlan":  {Suggestions: baselineT, Inventory: invT, Transfers: transfers},
		},
		OutputDir: filepath.Join(dir, "out"),
	}
	return f
}

func newTestPipeline(t *testing.T, f *fixture, store storage.FolderStore) (*Pipeline, *events.Journal) {
	t.Helper()
	logger := logging.Discard()
	journal := events.NewJournal(events.NewInMemoryEventStore(), "test-run")
	loader := spreadsheet.NewLoader(logger, func(file, message string) {
		_ = journal.Record(events.WarningRaisedEvent, events.WarningRaised{File: file, Message: message})
	})
	clock := func() time.Time { return runClock }
	aggregator := sales.NewAggregator(spreadsheet.NewSalesMasterSource(f.salesDir, "MASTER", loader), clock, logger)

	pipeline, err := NewPipeline(config.Default().BranchList(), loader, aggregator, workbook.NewWriter(), store, Options{
		Root:       "Compras",
		Completion: table.DefaultBlank,
		Now:        clock,
		Logger:     logger,
		Journal:    journal,
	})
	if err != nil {
		t.Fatalf("Failed to create pipeline: %v", err)
	}
	return pipeline, journal
}

func cellDecimal(t *testing.T, tbl *table.Table, row int, col string) decimal.Decimal {
	t.Helper()
	d, ok := tbl.Value(row, col).(decimal.Decimal)
	if !ok {
		t.Fatalf("Expected %s[%d] to be numeric, got %#v", col, row, tbl.Value(row, col))
	}
	return d
}

func TestPipeline_Run(t *testing.T) {
	f := newFixture(t)
	store := storage.NewMemoryStore()
	pipeline, journal := newTestPipeline(t, f, store)

	result, err := pipeline.Run(context.Background(), f.inputs)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(result.Branches) != 2 {
		t.Fatalf("Expected 2 branch sheets, got %d", len(result.Branches))
	}
	cuauti := result.Branches[0].Table
	if cuauti.Len() != 2 {
		t.Fatalf("Expected rows A and B, got %d", cuauti.Len())
	}

	// Row A: local stock 4, transit 1, transfer 3, five in-window sales
	if got := cellDecimal(t, cuauti, 0, report.ColOnHand); !got.Equal(decimal.NewFromInt(4)) {
		t.Errorf("Expected EXISTENCIA 4, got %s", got)
	}
	if got := cellDecimal(t, cuauti, 0, report.ColHits); !got.Equal(decimal.NewFromInt(5)) {
		t.Errorf("Expected HITS 5, got %s", got)
	}
	if got := cellDecimal(t, cuauti, 0, "INVENTARIO TULTITLAN"); !got.Equal(decimal.NewFromInt(6)) {
		t.Errorf("Expected INVENTARIO TULTITLAN 6, got %s", got)
	}
	if got := cellDecimal(t, cuauti, 0, report.ColTransfer); !got.Equal(decimal.NewFromInt(3)) {
		t.Errorf("Expected TRASPASO 3, got %s", got)
	}
	if got := cellDecimal(t, cuauti, 0, report.ColTotalInventory); !got.Equal(decimal.NewFromInt(8)) {
		t.Errorf("Expected INVENTARIO TOTAL 8, got %s", got)
	}

	// Row B: baseline only
	if cuauti.Value(1, "N° PARTE") != "B" {
		t.Errorf("Expected B to be kept, got %v", cuauti.Value(1, "N° PARTE"))
	}
	if got := cellDecimal(t, cuauti, 1, report.ColHits); !got.IsZero() {
		t.Errorf("Expected HITS 0 for B, got %s", got)
	}

	tulti := result.Branches[1].Table
	if tulti.Value(0, "NUM. PARTE") != "A" {
		t.Errorf("Expected the Tultitlan id column to be NUM. PARTE, got %v", tulti.Columns()[0])
	}
	if got := cellDecimal(t, tulti, 0, report.ColForeignHits); !got.Equal(decimal.NewFromInt(5)) {
		t.Errorf("Expected foreign hits 5 on the Tultitlan sheet, got %s", got)
	}
	if got := cellDecimal(t, tulti, 0, report.ColTransfer); !got.Equal(decimal.NewFromInt(8)) {
		t.Errorf("Expected TRASPASO 8 into Tultitlan, got %s", got)
	}

	outcome, ok := result.Outcome("tultitlan", dto.SourceTransit)
	if !ok || outcome.Status != entities.SourceSkipped {
		t.Errorf("Expected Tultitlan transit to be skipped, got %+v", outcome)
	}
	outcome, _ = result.Outcome("tultitlan", dto.SourceSales)
	if outcome.Status != entities.SourceEmpty {
		t.Errorf("Expected Tultitlan sales to be empty, got %s", outcome.Status)
	}
	outcome, _ = result.Outcome("cuautitlan", dto.SourceInventory)
	if outcome.Status != entities.SourceLoaded || outcome.Records != 1 {
		t.Errorf("Expected 1 inventory part for Cuautitlan, got %+v", outcome)
	}

	expectedURI := "memory://Compras/2026/02_Febrero/Analisis_Compras_20260217_103000.xlsx"
	if result.RemoteURI != expectedURI {
		t.Errorf("Expected %s, got %s", expectedURI, result.RemoteURI)
	}
	if _, err := os.Stat(result.LocalPath); err != nil {
		t.Errorf("Expected a local copy at %s: %v", result.LocalPath, err)
	}

	wb, err := excelize.OpenReader(bytes.NewReader(result.Workbook))
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer wb.Close()
	if sheets := wb.GetSheetList(); len(sheets) != 2 || sheets[0] != "DIA CUAUTITLAN" || sheets[1] != "DIA TULTITLAN" {
		t.Errorf("Expected exactly the two branch sheets, got %v", sheets)
	}
	rows, err := wb.GetRows("DIA CUAUTITLAN")
	if err != nil {
		t.Fatalf("Failed to read sheet: %v", err)
	}
	if len(rows[0]) != 33 || rows[0][14] != "HITS" {
		t.Errorf("Expected 33 headers with HITS at column 15, got %d", len(rows[0]))
	}
	formula, _ := wb.GetCellFormula("DIA CUAUTITLAN", "S2")
	if strings.TrimPrefix(formula, "=") != "I2+Q2+R2" {
		t.Errorf("Expected INVENTARIO TOTAL formula I2+Q2+R2, got %q", formula)
	}

	if len(journal.Events()) == 0 {
		t.Errorf("Expected the run to be journaled")
	}
}

func TestPipeline_UploadFailureKeepsReport(t *testing.T) {
	f := newFixture(t)
	store := storage.NewMemoryStore()
	store.FailUpload = errors.New("permission denied")
	pipeline, _ := newTestPipeline(t, f, store)

	result, err := pipeline.Run(context.Background(), f.inputs)
	if err != nil {
		t.Fatalf("Expected the run to succeed, got %v", err)
	}
	if result.PublishError == nil || result.RemoteURI != "" {
		t.Errorf("Expected a publish error and no URI, got %v / %s", result.PublishError, result.RemoteURI)
	}
	if len(result.Workbook) == 0 || result.LocalPath == "" {
		t.Errorf("Expected the report to stay available")
	}
	if !strings.Contains(result.GetSummary(), "permission denied") {
		t.Errorf("Expected the summary to mention the failure, got %s", result.GetSummary())
	}
}

func TestPipeline_MissingRequiredInput(t *testing.T) {
	f := newFixture(t)
	pipeline, _ := newTestPipeline(t, f, nil)

	inputs := f.inputs
	inputs.Branches = map[string]BranchInputs{
		"cuautitlan": f.inputs.Branches["cuautitlan"],
		"tultitlan":  {Suggestions: f.inputs.Branches["tultitlan"].Suggestions},
	}

	if _, err := pipeline.Run(context.Background(), inputs); !errors.Is(err, ErrMissingInput) {
		t.Errorf("Expected ErrMissingInput, got %v", err)
	}
}

func TestPipeline_DegradedInventory(t *testing.T) {
	f := newFixture(t)
	pipeline, _ := newTestPipeline(t, f, nil)

	narrow := writeFile(t, filepath.Join(f.dir, "inv_roto.csv"), "A,FILTRO,A")
	inputs := f.inputs
	inputs.OutputDir = ""
	inputs.IncludeClean = true
	inputs.Branches = map[string]BranchInputs{
		"cuautitlan": f.inputs.Branches["cuautitlan"],
		"tultitlan":  {Suggestions: f.inputs.Branches["tultitlan"].Suggestions, Inventory: narrow},
	}

	result, err := pipeline.Run(context.Background(), inputs)
	if err != nil {
		t.Fatalf("Expected the run to degrade, got %v", err)
	}

	outcome, _ := result.Outcome("tultitlan", dto.SourceInventory)
	if outcome.Status != entities.SourceUnavailable || !strings.Contains(outcome.Message, "inv_roto.csv") {
		t.Errorf("Expected an unavailable inventory naming the file, got %+v", outcome)
	}
	if got := cellDecimal(t, result.Branches[0].Table, 0, "INVENTARIO TULTITLAN"); !got.IsZero() {
		t.Errorf("Expected foreign stock to default to 0, got %s", got)
	}
	if result.LocalPath != "" || result.RemoteURI != "" {
		t.Errorf("Expected nothing persisted, got %q %q", result.LocalPath, result.RemoteURI)
	}

	wb, err := excelize.OpenReader(bytes.NewReader(result.Workbook))
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer wb.Close()
	sheets := wb.GetSheetList()
	if len(sheets) != 3 || sheets[2] != "Base Limpia CUAUTI" {
		t.Errorf("Expected one clean inventory sheet after the branch sheets, got %v", sheets)
	}
}
