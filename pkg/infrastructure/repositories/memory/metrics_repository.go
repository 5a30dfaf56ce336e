package memory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/replenish/pkg/domain/entities"
	"github.com/vsinha/replenish/pkg/domain/repositories"
)

// MetricsRepository provides in-memory hits and averages storage
type MetricsRepository struct {
	metrics map[entities.PartID]entities.HitsAverage
}

// NewMetricsRepository creates an empty metrics repository
func NewMetricsRepository() *MetricsRepository {
	return &MetricsRepository{
		metrics: make(map[entities.PartID]entities.HitsAverage),
	}
}

// Verify interface compliance
var _ repositories.MetricsRepository = (*MetricsRepository)(nil)

// LoadMetrics loads aggregation results, replacing any previous value of a part
func (r *MetricsRepository) LoadMetrics(metrics []entities.HitsAverage) error {
	for _, m := range metrics {
		r.metrics[m.PartID] = m
	}
	return nil
}

// GetMetrics returns the aggregation of a part
func (r *MetricsRepository) GetMetrics(partID entities.PartID) (entities.HitsAverage, error) {
	m, exists := r.metrics[partID]
	if !exists {
		return entities.HitsAverage{}, fmt.Errorf("%w: %s", repositories.ErrNotFound, partID)
	}
	return m, nil
}

// Len returns the number of parts with metrics
func (r *MetricsRepository) Len() int {
	return len(r.metrics)
}

// QuantityRepository provides in-memory per-part quantities
type QuantityRepository struct {
	quantities map[entities.PartID]decimal.Decimal
}

// NewQuantityRepository creates an empty quantity repository
func NewQuantityRepository() *QuantityRepository {
	return &QuantityRepository{
		quantities: make(map[entities.PartID]decimal.Decimal),
	}
}

// Verify interface compliance
var _ repositories.QuantityRepository = (*QuantityRepository)(nil)

// LoadQuantities adds quantities to whatever the part already holds
func (r *QuantityRepository) LoadQuantities(quantities map[entities.PartID]decimal.Decimal) error {
	for id, qty := range quantities {
		r.quantities[id] = r.quantities[id].Add(qty)
	}
	return nil
}

// GetQuantity returns the quantity of a part, zero when unknown
func (r *QuantityRepository) GetQuantity(partID entities.PartID) decimal.Decimal {
	return r.quantities[partID]
}

// Len returns the number of parts with a quantity
func (r *QuantityRepository) Len() int {
	return len(r.quantities)
}
