package repositories

import "github.com/vsinha/replenish/pkg/domain/entities"

// SuggestionRepository provides the baseline rows that anchor a branch report
type SuggestionRepository interface {
	GetSuggestions() ([]*entities.SuggestionRecord, error)
	LoadSuggestions(suggestions []*entities.SuggestionRecord) error
	// Columns lists the baseline headers in their source order
	Columns() []string
}
