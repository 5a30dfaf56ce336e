package report

import (
	"fmt"

	"github.com/vsinha/replenish/pkg/domain/entities"
	"github.com/vsinha/replenish/pkg/domain/table"
)

// Column names shared by both branch layouts
const (
	ColPartID             = "N° PARTE"
	ColDescription        = "DESCRIPCION"
	ColClassification     = "CLASIF"
	ColUnitPrice          = "PRECIO UNITARIO"
	ColSuggested          = "SUGERIDO DIA"
	ColLast12Months       = "ULTIMOS 12 MESES"
	ColMonthlyConsumption = "CONSUMO MENSUAL"
	ColHalfMonthly        = "CONSUMO QUINCENAL"
	ColOnHand             = "EXISTENCIA"
	ColLastPurchase       = "FECHA DE ULTIMA COMPRA"
	ColHits               = "HITS"
	ColForeignHits        = "HITS_FORANEO"
	ColTransit            = "TRANSITO"
	ColTransfer           = "TRASPASO"
	ColTotalInventory     = "INVENTARIO TOTAL"
	ColBackorder          = "BACKORDER"
	ColMonthsCurrent      = "MESES VENTA ACTUAL"
	ColMonthsSuggested    = "MESES VENTA SUGERIDO"
)

// Purchasing follow-up columns, filled by hand after the report is issued
var followUpColumns = []string{
	"PEDIDO", "PROVEEDOR", "MARCA", "LINEA", "COMPRADOR", "FECHA PEDIDO",
	"ESTATUS", "OBSERVACIONES", "AUTORIZO", "FOLIO OC", "NOTAS",
}

// AverageColumn names the monthly average column of a branch
func AverageColumn(b entities.Branch) string {
	return "PROMEDIO_" + b.Name
}

// ForeignStockColumn names the column showing a branch's stock on the other sheet
func ForeignStockColumn(b entities.Branch) string {
	return "INVENTARIO " + b.Name
}

// ForeignPurchaseColumn names the column showing a branch's last purchase on the other sheet
func ForeignPurchaseColumn(b entities.Branch) string {
	return "Fec ult Comp " + b.ShortName
}

// Formula is a computed column. Template references other columns as
// {NAME}; the workbook writer resolves them to cell references.
type Formula struct {
	Column   string
	Template string
}

// Layout is the fixed sheet of one branch: its column order, defaults and formulas
type Layout struct {
	Local    entities.Branch
	Foreign  entities.Branch
	Schema   table.Schema
	Formulas []Formula
}

// NewLayout builds the sheet layout of local, with foreign as the other branch
func NewLayout(local, foreign entities.Branch) (*Layout, error) {
	zero := func(name string) table.ColumnSpec {
		return table.ColumnSpec{Name: name, Default: table.DefaultZero}
	}
	blank := func(name string) table.ColumnSpec {
		return table.ColumnSpec{Name: name, Default: table.DefaultBlank}
	}

	localAvg := AverageColumn(local)
	columns := []table.ColumnSpec{
		blank(local.IDLabel),
		blank(ColDescription),
		blank(ColClassification),
		zero(ColUnitPrice),
		zero(ColSuggested),
		zero(ColLast12Months),
		zero(ColMonthlyConsumption),
		zero(ColHalfMonthly),
		zero(ColOnHand),
		blank(ColLastPurchase),
		zero(ColHits),
		zero(localAvg),
		zero(ForeignStockColumn(foreign)),
		blank(ForeignPurchaseColumn(foreign)),
		{Name: ColForeignHits, Label: ColHits, Default: table.DefaultZero},
		zero(AverageColumn(foreign)),
		zero(ColTransit),
		zero(ColTransfer),
		zero(ColTotalInventory),
		zero(ColBackorder),
		zero(ColMonthsCurrent),
		zero(ColMonthsSuggested),
	}
	for _, name := range followUpColumns {
		columns = append(columns, table.ColumnSpec{Name: name, Default: table.DefaultAuto})
	}

	layout := &Layout{
		Local:   local,
		Foreign: foreign,
		Schema:  table.Schema{Columns: columns},
		Formulas: []Formula{
			{
				Column:   ColTotalInventory,
				Template: fmt.Sprintf("{%s}+{%s}+{%s}", ColOnHand, ColTransit, ColTransfer),
			},
			{
				Column:   ColBackorder,
				Template: fmt.Sprintf("MAX(0,{%s}-{%s})", ColSuggested, ColTotalInventory),
			},
			{
				Column:   ColMonthsCurrent,
				Template: fmt.Sprintf("IF({%s}=0,0,{%s}/{%s})", localAvg, ColTotalInventory, localAvg),
			},
			{
				Column:   ColMonthsSuggested,
				Template: fmt.Sprintf("IF({%s}=0,0,({%s}+{%s})/{%s})", localAvg, ColTotalInventory, ColSuggested, localAvg),
			},
		},
	}

	if err := layout.Schema.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout for %s: %w", local.Name, err)
	}
	return layout, nil
}

// SheetName returns the worksheet name of the branch
func (l *Layout) SheetName() string {
	return l.Local.SheetName
}

// ExportHeaders returns the headers written to the workbook. HITS_FORANEO
// is presented as a second HITS column here and nowhere else.
func (l *Layout) ExportHeaders() []string {
	return l.Schema.Labels()
}
