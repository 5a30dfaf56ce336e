package repositories

import (
	"errors"

	"github.com/vsinha/replenish/pkg/domain/entities"
)

// ErrNotFound is returned when a part has no record in a repository
var ErrNotFound = errors.New("part not found")

// InventoryRepository provides access to one branch's normalized inventory
type InventoryRepository interface {
	GetPart(partID entities.PartID) (*entities.PartRecord, error)
	GetAllParts() ([]*entities.PartRecord, error)
	LoadParts(parts []*entities.PartRecord) error
	Len() int
}
