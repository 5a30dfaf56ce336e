package report

import (
	"github.com/vsinha/replenish/pkg/domain/entities"
	"github.com/vsinha/replenish/pkg/domain/table"
)

// CleanInventoryColumns are the headers of a normalized inventory sheet
var CleanInventoryColumns = []string{
	ColPartID, ColDescription, ColClassification, ColUnitPrice,
	"EXIST", "FEC INGRESO", "FEC ULT COMP", "FEC ULT VTA",
}

// InventoryTable lays out a normalized inventory for the optional debug sheets
func InventoryTable(parts []*entities.PartRecord) *table.Table {
	columns := make([][]any, len(CleanInventoryColumns))
	for i := range columns {
		columns[i] = make([]any, len(parts))
	}
	for r, p := range parts {
		row := []any{
			string(p.PartID), p.Description, p.Classification, p.UnitPrice,
			p.OnHand, p.IntakeDate.Value(), p.LastPurchaseDate.Value(), p.LastSaleDate.Value(),
		}
		for c, v := range row {
			columns[c][r] = v
		}
	}

	t := table.New(len(parts))
	for i, name := range CleanInventoryColumns {
		// lengths always match the row count
		_ = t.Set(name, columns[i])
	}
	return t
}
