package entities

import "github.com/shopspring/decimal"

// SalesEvent is one row of a monthly sales master. Negative quantities are
// returns or reversals.
type SalesEvent struct {
	PartID   PartID
	Quantity decimal.Decimal
	Mode     SalesMode
	Date     Date

	// Period is year*100+month, 0 when the row carries no usable month
	Period int
}

// HitsAverage is the sales aggregation of one part at one branch
type HitsAverage struct {
	PartID         PartID
	TotalEvents    int
	NegativeEvents int
	Hits           int
	NetQuantity    decimal.Decimal
	MonthlyAverage decimal.Decimal
}

// ComputeHits scores sales activity: every return costs two sales, floored at zero
func ComputeHits(totalEvents, negativeEvents int) int {
	hits := totalEvents - 2*negativeEvents
	if hits < 0 {
		return 0
	}
	return hits
}

// MonthlyAverage spreads the signed net quantity over twelve months
func MonthlyAverage(net decimal.Decimal) decimal.Decimal {
	return net.Div(monthsPerYear)
}

// TransitRecord is stock in shipment to a branch
type TransitRecord struct {
	PartID   PartID
	Quantity decimal.Decimal
}

// TransferRecord is stock moving into a branch from the other one
type TransferRecord struct {
	PartID   PartID
	Quantity decimal.Decimal
}

// SalesMode tells how a sales master places its events in time
type SalesMode int

const (
	// SalesByDate sheets carry one date per event
	SalesByDate SalesMode = iota
	// SalesByYearMonth sheets carry a year and a month name per event
	SalesByYearMonth
)

// String method for SalesMode enum
func (m SalesMode) String() string {
	switch m {
	case SalesByDate:
		return "date"
	case SalesByYearMonth:
		return "year/month"
	default:
		return "unknown"
	}
}

// SalesRow is one raw sales master row before periodization
type SalesRow struct {
	PartID   PartID
	Quantity decimal.Decimal
	Date     Date
	Year     int
	Month    string
}

// SalesSheet is the content of one sales master file
type SalesSheet struct {
	File string
	Mode SalesMode
	Rows []SalesRow
}
