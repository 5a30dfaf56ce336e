package spreadsheet

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/vsinha/replenish/pkg/domain/entities"
	"github.com/vsinha/replenish/pkg/domain/labels"
)

// Raw inventory layout: A part, B description, C classification, E unit
// price, I on hand, J intake date, K last purchase, L last sale
const (
	invPartCol           = 0
	invDescriptionCol    = 1
	invClassificationCol = 2
	invUnitPriceCol      = 4
	invOnHandCol         = 8
	invIntakeCol         = 9
	invLastPurchaseCol   = 10
	invLastSaleCol       = 11
	invMinColumns        = 12
)

// Transfer ledger layout: A direction code, C part, E quantity
const (
	transferCodeCol     = 0
	transferPartCol     = 2
	transferQuantityCol = 4
)

// WarningFunc receives non-fatal problems found while loading a file
type WarningFunc func(file, message string)

// Loader reads the branch spreadsheets into domain records
type Loader struct {
	logger    *logrus.Logger
	onWarning WarningFunc
}

// NewLoader creates a loader. Warnings are logged and, when onWarning is
// set, forwarded to it.
func NewLoader(logger *logrus.Logger, onWarning WarningFunc) *Loader {
	return &Loader{logger: logger, onWarning: onWarning}
}

func (l *Loader) warn(file, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.logger.WithField("file", filepath.Base(file)).Warn(msg)
	if l.onWarning != nil {
		l.onWarning(file, msg)
	}
}

// LoadInventory reads a raw warehouse export (no header, positional columns)
func (l *Loader) LoadInventory(path string) ([]*entities.PartRecord, error) {
	sheet, err := ReadSheet(path)
	if err != nil {
		return nil, err
	}
	return l.NormalizeInventory(sheet)
}

// NormalizeInventory selects the eight positional inventory columns and
// drops every row without an intake date
func (l *Loader) NormalizeInventory(sheet *Sheet) ([]*entities.PartRecord, error) {
	if width := sheet.Width(); width < invMinColumns {
		return nil, &FileError{
			File:   sheet.File,
			Reason: fmt.Sprintf("inventory export needs at least %d columns, found %d", invMinColumns, width),
			Err:    ErrTooFewColumns,
		}
	}

	var parts []*entities.PartRecord
	unparsedIntake := 0
	for _, row := range sheet.Rows {
		intake := ParseDate(Cell(row, invIntakeCol))
		if intake.IsEmpty() {
			continue
		}
		if !intake.Valid() {
			unparsedIntake++
		}

		unitPrice, _ := ParseDecimal(Cell(row, invUnitPriceCol))
		onHand, _ := ParseDecimal(Cell(row, invOnHandCol))

		parts = append(parts, &entities.PartRecord{
			PartID:           entities.NormalizePartID(Cell(row, invPartCol)),
			Description:      Cell(row, invDescriptionCol),
			Classification:   Cell(row, invClassificationCol),
			UnitPrice:        unitPrice,
			OnHand:           onHand,
			IntakeDate:       intake,
			LastPurchaseDate: ParseDate(Cell(row, invLastPurchaseCol)),
			LastSaleDate:     ParseDate(Cell(row, invLastSaleCol)),
		})
	}

	// Column J should hold dates; mostly text there means the layout moved
	if len(parts) > 0 && unparsedIntake*2 > len(parts) {
		l.warn(sheet.File, "%d of %d intake dates in column J are not dates; the export layout may have changed",
			unparsedIntake, len(parts))
	}

	return parts, nil
}

// LoadSuggestions reads the suggested-order baseline. The part number column
// is required; the daily suggestion and 12 month demand are optional.
func (l *Loader) LoadSuggestions(path string) ([]*entities.SuggestionRecord, []string, error) {
	sheet, err := ReadSheet(path)
	if err != nil {
		return nil, nil, err
	}
	if len(sheet.Rows) == 0 {
		return nil, nil, &FileError{File: path, Reason: "baseline has no header row", Err: ErrMissingColumn}
	}

	headers := trimHeaders(sheet.Rows[0])
	partCol := labels.Find(headers, partIDAliases...)
	if partCol < 0 {
		return nil, headers, &FileError{
			File:   path,
			Reason: fmt.Sprintf("no part number column (expected %q); columns found: %s", partIDAliases[0], strings.Join(headers, ", ")),
			Err:    ErrMissingColumn,
		}
	}

	suggestedCol := labels.Find(headers, suggestedAliases...)
	if suggestedCol < 0 {
		l.warn(path, "no %q column; suggested quantity defaults to 0", suggestedAliases[0])
	}
	demandCol := labels.Find(headers, demandAliases...)

	var suggestions []*entities.SuggestionRecord
	skipped := 0
	for _, row := range sheet.Rows[1:] {
		if isBlank(row) {
			continue
		}
		partID := entities.NormalizePartID(Cell(row, partCol))
		if partID == "" {
			skipped++
			continue
		}

		suggested, _ := ParseDecimal(Cell(row, suggestedCol))
		demand, hasDemand := decimal.Zero, false
		if demandCol >= 0 {
			demand, _ = ParseDecimal(Cell(row, demandCol))
			hasDemand = true
		}

		rec := entities.NewSuggestionRecord(partID, suggested, demand, hasDemand)
		for i, h := range headers {
			if i == partCol || i == suggestedCol || i == demandCol || h == "" {
				continue
			}
			rec.Passthrough[h] = Cell(row, i)
		}
		suggestions = append(suggestions, &rec)
	}

	if skipped > 0 {
		l.warn(path, "%d rows without a part number were skipped", skipped)
	}

	return suggestions, headers, nil
}

// LoadTransit reads the in-transit file and sums quantities per part.
// Missing columns are defaulted with a warning instead of failing.
func (l *Loader) LoadTransit(path string) (map[entities.PartID]decimal.Decimal, error) {
	sheet, err := ReadSheet(path)
	if err != nil {
		return nil, err
	}

	transit := make(map[entities.PartID]decimal.Decimal)
	if len(sheet.Rows) == 0 {
		return transit, nil
	}

	headers := trimHeaders(sheet.Rows[0])
	partCol := labels.Find(headers, partIDAliases...)
	qtyCol := labels.Find(headers, transitAliases...)
	if partCol < 0 {
		l.warn(path, "no part number column; transit defaults to 0 for every part (columns found: %s)", strings.Join(headers, ", "))
		return transit, nil
	}
	if qtyCol < 0 {
		l.warn(path, "no %q column; transit quantity defaults to 0", transitAliases[0])
	}

	for _, row := range sheet.Rows[1:] {
		partID := entities.NormalizePartID(Cell(row, partCol))
		if partID == "" {
			continue
		}
		qty, _ := ParseDecimal(Cell(row, qtyCol))
		transit[partID] = transit[partID].Add(qty)
	}

	return transit, nil
}

// LoadTransfers reads a transfer ledger (no header) and sums the absolute
// quantity per part over the rows whose direction code equals code
func (l *Loader) LoadTransfers(path, code string) (map[entities.PartID]decimal.Decimal, error) {
	sheet, err := ReadSheet(path)
	if err != nil {
		return nil, err
	}
	return l.AggregateTransfers(sheet, code)
}

// AggregateTransfers applies the transfer filter to an already read sheet
func (l *Loader) AggregateTransfers(sheet *Sheet, code string) (map[entities.PartID]decimal.Decimal, error) {
	transfers := make(map[entities.PartID]decimal.Decimal)
	if len(sheet.Rows) > 0 && sheet.Width() <= transferQuantityCol {
		return nil, &FileError{
			File:   sheet.File,
			Reason: fmt.Sprintf("transfer ledger needs at least %d columns, found %d", transferQuantityCol+1, sheet.Width()),
			Err:    ErrTooFewColumns,
		}
	}

	for _, row := range sheet.Rows {
		if Cell(row, transferCodeCol) != code {
			continue
		}
		partID := entities.NormalizePartID(Cell(row, transferPartCol))
		if partID == "" {
			continue
		}
		qty, _ := ParseDecimal(Cell(row, transferQuantityCol))
		transfers[partID] = transfers[partID].Add(qty.Abs())
	}

	return transfers, nil
}

// ReadSales reads one sales master. Sheets with a date column are read in
// date mode, otherwise year and month columns are required. A sheet
// without usable columns returns ErrMissingColumn.
func (l *Loader) ReadSales(path string) (*entities.SalesSheet, error) {
	sheet, err := ReadSheet(path)
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		return &entities.SalesSheet{File: path}, nil
	}

	headers := trimHeaders(sheet.Rows[0])
	partCol := labels.Find(headers, partIDAliases...)
	qtyCol := labels.Find(headers, quantityAliases...)
	if partCol < 0 || qtyCol < 0 {
		return nil, &FileError{
			File:   path,
			Reason: fmt.Sprintf("sales master needs part number and quantity columns; columns found: %s", strings.Join(headers, ", ")),
			Err:    ErrMissingColumn,
		}
	}

	dateCol := labels.Find(headers, dateAliases...)
	yearCol := labels.Find(headers, yearAliases...)
	monthCol := labels.Find(headers, monthAliases...)

	out := &entities.SalesSheet{File: path}
	switch {
	case dateCol >= 0:
		out.Mode = entities.SalesByDate
	case yearCol >= 0 && monthCol >= 0:
		out.Mode = entities.SalesByYearMonth
	default:
		return nil, &FileError{
			File:   path,
			Reason: fmt.Sprintf("sales master needs a date column or year and month columns; columns found: %s", strings.Join(headers, ", ")),
			Err:    ErrMissingColumn,
		}
	}

	for _, row := range sheet.Rows[1:] {
		partID := entities.NormalizePartID(Cell(row, partCol))
		if partID == "" {
			continue
		}
		qty, _ := ParseDecimal(Cell(row, qtyCol))
		r := entities.SalesRow{PartID: partID, Quantity: qty}
		if out.Mode == entities.SalesByDate {
			r.Date = ParseDate(Cell(row, dateCol))
		} else {
			r.Year = ParseYear(Cell(row, yearCol))
			r.Month = Cell(row, monthCol)
		}
		out.Rows = append(out.Rows, r)
	}

	return out, nil
}
