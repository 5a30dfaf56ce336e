package entities

import "github.com/shopspring/decimal"

var (
	monthsPerYear = decimal.NewFromInt(12)
	two           = decimal.NewFromInt(2)
)

// SuggestionRecord is one part the branch wants evaluated for purchasing
type SuggestionRecord struct {
	PartID                 PartID
	SuggestedDaily         decimal.Decimal
	Last12MonthDemand      decimal.Decimal
	HasDemand              bool
	MonthlyConsumption     decimal.Decimal
	HalfMonthlyConsumption decimal.Decimal

	// Passthrough holds every other baseline column, keyed by trimmed header
	Passthrough map[string]string
}

// NewSuggestionRecord derives the consumption seeds from the 12 month demand.
// Without demand both seeds are zero.
func NewSuggestionRecord(partID PartID, suggestedDaily, demand decimal.Decimal, hasDemand bool) SuggestionRecord {
	rec := SuggestionRecord{
		PartID:                 partID,
		SuggestedDaily:         suggestedDaily,
		Last12MonthDemand:      demand,
		HasDemand:              hasDemand,
		MonthlyConsumption:     decimal.Zero,
		HalfMonthlyConsumption: decimal.Zero,
		Passthrough:            map[string]string{},
	}
	if hasDemand {
		rec.MonthlyConsumption = demand.Div(monthsPerYear)
		rec.HalfMonthlyConsumption = rec.MonthlyConsumption.Div(two)
	}
	return rec
}
