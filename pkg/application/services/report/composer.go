package report

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/vsinha/replenish/pkg/domain/entities"
	"github.com/vsinha/replenish/pkg/domain/labels"
	"github.com/vsinha/replenish/pkg/domain/repositories"
	"github.com/vsinha/replenish/pkg/domain/table"
)

// Sources holds everything a branch sheet is composed from. Only
// Suggestions is required; a nil source is skipped and its columns are
// completed with defaults.
type Sources struct {
	Suggestions      repositories.SuggestionRepository
	LocalInventory   repositories.InventoryRepository
	ForeignInventory repositories.InventoryRepository
	LocalSales       repositories.MetricsRepository
	ForeignSales     repositories.MetricsRepository
	Transit          repositories.QuantityRepository
	Transfers        repositories.QuantityRepository
}

// Composer builds the sheet of one branch
type Composer struct {
	layout   *Layout
	fallback table.Default
	logger   *logrus.Logger
}

// NewComposer creates a composer. fallback resolves the completion default
// of columns that do not declare one.
func NewComposer(layout *Layout, fallback table.Default, logger *logrus.Logger) *Composer {
	return &Composer{layout: layout, fallback: fallback, logger: logger}
}

// Layout returns the layout the composer fills
func (c *Composer) Layout() *Layout {
	return c.layout
}

// Compose builds the branch table: one row per baseline suggestion, in
// baseline order, with exactly the layout's columns
func (c *Composer) Compose(ctx context.Context, src Sources) (*table.Table, error) {
	if src.Suggestions == nil {
		return nil, fmt.Errorf("no suggestion baseline for %s", c.layout.Local.Name)
	}
	suggestions, err := src.Suggestions.GetSuggestions()
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestions: %w", err)
	}

	ids := make([]entities.PartID, len(suggestions))
	for i, s := range suggestions {
		ids[i] = s.PartID
	}

	t := table.New(len(suggestions))
	if err := c.attachBaseline(t, suggestions, src.Suggestions.Columns()); err != nil {
		return nil, err
	}

	local, foreign := c.layout.Local, c.layout.Foreign

	// 1-2. sales of both branches
	if src.LocalSales != nil {
		if err := attachMetrics(t, ids, src.LocalSales, ColHits, AverageColumn(local)); err != nil {
			return nil, err
		}
	}
	if src.ForeignSales != nil {
		if err := attachMetrics(t, ids, src.ForeignSales, ColForeignHits, AverageColumn(foreign)); err != nil {
			return nil, err
		}
	}

	// 3-4. stock of both branches
	if src.LocalInventory != nil {
		if err := attachInventory(t, ids, src.LocalInventory, ColOnHand, ColLastPurchase); err != nil {
			return nil, err
		}
		if err := fillFromInventory(t, ids, src.LocalInventory); err != nil {
			return nil, err
		}
	}
	if src.ForeignInventory != nil {
		if err := attachInventory(t, ids, src.ForeignInventory, ForeignStockColumn(foreign), ForeignPurchaseColumn(foreign)); err != nil {
			return nil, err
		}
	}

	// 5. stock on the way in
	if src.Transit != nil {
		if err := attachQuantity(t, ids, src.Transit, ColTransit); err != nil {
			return nil, err
		}
	}
	if src.Transfers != nil {
		if err := attachQuantity(t, ids, src.Transfers, ColTransfer); err != nil {
			return nil, err
		}
	}

	// 6. the branch's own name for the part number column
	if err := t.Rename(ColPartID, local.IDLabel); err != nil {
		return nil, fmt.Errorf("failed to rename part column for %s: %w", local.Name, err)
	}

	// 7-8. complete and order
	out, err := c.layout.Schema.Reconcile(t, c.fallback)
	if err != nil {
		return nil, fmt.Errorf("failed to complete %s sheet: %w", local.Name, err)
	}

	if err := computeDerived(out, c.layout); err != nil {
		return nil, err
	}

	c.logger.WithContext(ctx).WithFields(logrus.Fields{
		"branch":  local.Code,
		"rows":    out.Len(),
		"columns": len(out.Columns()),
	}).Info("branch sheet composed")

	return out, nil
}

// attachBaseline adds the part column, the suggestion figures and every
// baseline column whose header matches a layout column
func (c *Composer) attachBaseline(t *table.Table, suggestions []*entities.SuggestionRecord, headers []string) error {
	n := len(suggestions)
	partIDs := make([]any, n)
	suggested := make([]any, n)
	demand := make([]any, n)
	monthly := make([]any, n)
	halfMonthly := make([]any, n)
	for i, s := range suggestions {
		partIDs[i] = string(s.PartID)
		suggested[i] = s.SuggestedDaily
		demand[i] = s.Last12MonthDemand
		monthly[i] = s.MonthlyConsumption
		halfMonthly[i] = s.HalfMonthlyConsumption
	}

	for name, values := range map[string][]any{
		ColSuggested:          suggested,
		ColLast12Months:       demand,
		ColMonthlyConsumption: monthly,
		ColHalfMonthly:        halfMonthly,
	} {
		if err := t.Set(name, values); err != nil {
			return err
		}
	}
	if err := t.Set(ColPartID, partIDs); err != nil {
		return err
	}

	// Baseline columns the layout also declares travel through unchanged
	reserved := map[string]bool{
		c.layout.Local.IDLabel: true,
		ColPartID:              true,
	}
	for _, header := range headers {
		name := c.layoutColumn(header)
		if name == "" || reserved[name] || t.Has(name) {
			continue
		}
		values := make([]any, n)
		for i, s := range suggestions {
			values[i] = s.Passthrough[header]
		}
		if err := t.Set(name, values); err != nil {
			return err
		}
	}
	return nil
}

// layoutColumn finds the layout column a baseline header refers to
func (c *Composer) layoutColumn(header string) string {
	key := labels.Fold(header)
	if key == "" {
		return ""
	}
	for _, col := range c.layout.Schema.Columns {
		if labels.Fold(col.Name) == key {
			return col.Name
		}
	}
	return ""
}

func attachMetrics(t *table.Table, ids []entities.PartID, repo repositories.MetricsRepository, hitsCol, avgCol string) error {
	hits := make([]any, len(ids))
	averages := make([]any, len(ids))
	for i, id := range ids {
		hits[i], averages[i] = decimal.Zero, decimal.Zero
		if m, err := repo.GetMetrics(id); err == nil {
			hits[i] = decimal.NewFromInt(int64(m.Hits))
			averages[i] = m.MonthlyAverage
		}
	}
	if err := t.Set(hitsCol, hits); err != nil {
		return err
	}
	return t.Set(avgCol, averages)
}

func attachInventory(t *table.Table, ids []entities.PartID, repo repositories.InventoryRepository, stockCol, purchaseCol string) error {
	stock := make([]any, len(ids))
	purchases := make([]any, len(ids))
	for i, id := range ids {
		stock[i], purchases[i] = decimal.Zero, ""
		if p, err := repo.GetPart(id); err == nil {
			stock[i] = p.OnHand
			purchases[i] = p.LastPurchaseDate.Value()
		}
	}
	if err := t.Set(stockCol, stock); err != nil {
		return err
	}
	return t.Set(purchaseCol, purchases)
}

// fillFromInventory completes description, classification and price from
// the local inventory where the baseline left them empty
func fillFromInventory(t *table.Table, ids []entities.PartID, repo repositories.InventoryRepository) error {
	fields := []struct {
		name  string
		empty any
		value func(*entities.PartRecord) any
	}{
		{ColDescription, "", func(p *entities.PartRecord) any { return p.Description }},
		{ColClassification, "", func(p *entities.PartRecord) any { return p.Classification }},
		{ColUnitPrice, "", func(p *entities.PartRecord) any { return p.UnitPrice }},
	}

	for _, f := range fields {
		values := t.Column(f.name)
		if values == nil {
			values = make([]any, len(ids))
			for i := range values {
				values[i] = f.empty
			}
		}
		for i, id := range ids {
			if !isEmptyCell(values[i]) {
				continue
			}
			if p, err := repo.GetPart(id); err == nil {
				values[i] = f.value(p)
			}
		}
		if err := t.Set(f.name, values); err != nil {
			return err
		}
	}
	return nil
}

func attachQuantity(t *table.Table, ids []entities.PartID, repo repositories.QuantityRepository, col string) error {
	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = repo.GetQuantity(id)
	}
	return t.Set(col, values)
}

func isEmptyCell(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	default:
		return false
	}
}
