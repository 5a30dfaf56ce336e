package memory

import (
	"github.com/vsinha/replenish/pkg/domain/entities"
	"github.com/vsinha/replenish/pkg/domain/repositories"
)

// SuggestionRepository provides in-memory baseline storage
type SuggestionRepository struct {
	suggestions []entities.SuggestionRecord
	columns     []string
}

// NewSuggestionRepository creates a new in-memory suggestion repository
func NewSuggestionRepository(columns []string) *SuggestionRepository {
	return &SuggestionRepository{
		suggestions: []entities.SuggestionRecord{},
		columns:     columns,
	}
}

// Verify interface compliance
var _ repositories.SuggestionRepository = (*SuggestionRepository)(nil)

// LoadSuggestions loads baseline rows into the repository, keeping their order
func (r *SuggestionRepository) LoadSuggestions(suggestions []*entities.SuggestionRecord) error {
	for _, s := range suggestions {
		r.suggestions = append(r.suggestions, *s)
	}
	return nil
}

// GetSuggestions returns all baseline rows
func (r *SuggestionRepository) GetSuggestions() ([]*entities.SuggestionRecord, error) {
	suggestions := make([]*entities.SuggestionRecord, 0, len(r.suggestions))
	for i := range r.suggestions {
		suggestions = append(suggestions, &r.suggestions[i])
	}
	return suggestions, nil
}

// Columns returns the baseline headers
func (r *SuggestionRepository) Columns() []string {
	return r.columns
}
