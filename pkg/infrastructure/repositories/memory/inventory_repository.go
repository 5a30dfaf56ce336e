package memory

import (
	"fmt"

	"github.com/vsinha/replenish/pkg/domain/entities"
	"github.com/vsinha/replenish/pkg/domain/repositories"
)

// InventoryRepository provides in-memory storage of one branch inventory
type InventoryRepository struct {
	parts    []entities.PartRecord
	partsMap map[entities.PartID]int
}

// NewInventoryRepository creates a new in-memory inventory repository
func NewInventoryRepository(expectedParts int) *InventoryRepository {
	return &InventoryRepository{
		parts:    make([]entities.PartRecord, 0, expectedParts),
		partsMap: make(map[entities.PartID]int, expectedParts),
	}
}

// Verify interface compliance
var _ repositories.InventoryRepository = (*InventoryRepository)(nil)

// LoadParts loads normalized inventory records into the repository
func (r *InventoryRepository) LoadParts(parts []*entities.PartRecord) error {
	for _, part := range parts {
		r.AddPart(*part)
	}
	return nil
}

// AddPart adds a record. A repeated part keeps its first record and
// accumulates the on-hand quantity, so the join stays one row per part.
func (r *InventoryRepository) AddPart(part entities.PartRecord) {
	if index, exists := r.partsMap[part.PartID]; exists {
		r.parts[index].OnHand = r.parts[index].OnHand.Add(part.OnHand)
		return
	}
	r.partsMap[part.PartID] = len(r.parts)
	r.parts = append(r.parts, part)
}

// GetPart returns the inventory record of a part
func (r *InventoryRepository) GetPart(partID entities.PartID) (*entities.PartRecord, error) {
	index, exists := r.partsMap[partID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", repositories.ErrNotFound, partID)
	}
	return &r.parts[index], nil
}

// GetAllParts returns all records in load order
func (r *InventoryRepository) GetAllParts() ([]*entities.PartRecord, error) {
	parts := make([]*entities.PartRecord, 0, len(r.parts))
	for i := range r.parts {
		parts = append(parts, &r.parts[i])
	}
	return parts, nil
}

// Len returns the number of distinct parts
func (r *InventoryRepository) Len() int {
	return len(r.parts)
}
