package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/replenish/pkg/domain/table"
)

// computeDerived makes every zero-default column numeric and evaluates the
// layout's formulas, so previews show the same figures the workbook
// formulas will compute
func computeDerived(t *table.Table, layout *Layout) error {
	for _, col := range layout.Schema.Columns {
		if col.Default != table.DefaultZero {
			continue
		}
		values := t.Column(col.Name)
		for i, v := range values {
			values[i] = toDecimal(v)
		}
	}

	avgCol := AverageColumn(layout.Local)
	get := func(row int, name string) decimal.Decimal {
		return toDecimal(t.Value(row, name))
	}

	total := make([]any, t.Len())
	backorder := make([]any, t.Len())
	current := make([]any, t.Len())
	suggested := make([]any, t.Len())
	for i := 0; i < t.Len(); i++ {
		inv := get(i, ColOnHand).Add(get(i, ColTransit)).Add(get(i, ColTransfer))
		sugg := get(i, ColSuggested)
		avg := get(i, avgCol)

		total[i] = inv
		backorder[i] = decimal.Max(decimal.Zero, sugg.Sub(inv))
		current[i], suggested[i] = decimal.Zero, decimal.Zero
		if !avg.IsZero() {
			current[i] = inv.Div(avg)
			suggested[i] = inv.Add(sugg).Div(avg)
		}
	}

	for name, values := range map[string][]any{
		ColTotalInventory:  total,
		ColBackorder:       backorder,
		ColMonthsCurrent:   current,
		ColMonthsSuggested: suggested,
	} {
		if err := t.Set(name, values); err != nil {
			return fmt.Errorf("failed to compute %s: %w", name, err)
		}
	}
	return nil
}

// toDecimal reads a numeric cell. Blank or non-numeric text counts as zero.
func toDecimal(v any) decimal.Decimal {
	switch x := v.(type) {
	case decimal.Decimal:
		return x
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case float64:
		return decimal.NewFromFloat(x)
	case string:
		s := strings.NewReplacer("$", "", ",", "", " ", "").Replace(x)
		if d, err := decimal.NewFromString(s); err == nil {
			return d
		}
	}
	return decimal.Zero
}
