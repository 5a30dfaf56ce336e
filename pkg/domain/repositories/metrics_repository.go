package repositories

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/replenish/pkg/domain/entities"
)

// MetricsRepository provides the hits and monthly average of each part
type MetricsRepository interface {
	GetMetrics(partID entities.PartID) (entities.HitsAverage, error)
	LoadMetrics(metrics []entities.HitsAverage) error
	Len() int
}

// QuantityRepository provides a per-part aggregated quantity (transit, transfers)
type QuantityRepository interface {
	GetQuantity(partID entities.PartID) decimal.Decimal
	LoadQuantities(quantities map[entities.PartID]decimal.Decimal) error
	Len() int
}
