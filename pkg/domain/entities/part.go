package entities

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PartID is the canonical join key shared by every source file
type PartID string

// Integral numbers exported by spreadsheets as floats ("123.0")
var integralFloat = regexp.MustCompile(`^-?\d+\.0+$`)

// NormalizePartID trims surrounding whitespace and renders integral numbers
// in their integer form, so a part typed as 123, 123.0 or " 123 " joins as "123"
func NormalizePartID(raw string) PartID {
	s := strings.TrimSpace(raw)
	if integralFloat.MatchString(s) {
		s = s[:strings.IndexByte(s, '.')]
	}
	return PartID(s)
}

// Date is a cell holding a date. Raw keeps the source text when it could not
// be parsed so that nothing the warehouse typed is lost.
type Date struct {
	Time time.Time
	Raw  string
}

// IsEmpty reports whether the source cell was blank
func (d Date) IsEmpty() bool {
	return strings.TrimSpace(d.Raw) == "" && d.Time.IsZero()
}

// Valid reports whether the cell parsed as a date
func (d Date) Valid() bool {
	return !d.Time.IsZero()
}

// Value returns the parsed time when valid, the raw text otherwise
func (d Date) Value() any {
	if d.Valid() {
		return d.Time
	}
	return strings.TrimSpace(d.Raw)
}

// PartRecord is one stocked part of a branch inventory export
type PartRecord struct {
	PartID           PartID
	Description      string
	Classification   string
	UnitPrice        decimal.Decimal
	OnHand           decimal.Decimal
	IntakeDate       Date
	LastPurchaseDate Date
	LastSaleDate     Date
}
