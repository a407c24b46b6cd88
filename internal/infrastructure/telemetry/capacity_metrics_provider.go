// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCapacityMetricsProvider implements CapacityMetricsProvider using GORM.
// It queries the inventory_records and locations tables directly for
// aggregated metrics.
type GormCapacityMetricsProvider struct {
	db *gorm.DB
}

// NewGormCapacityMetricsProvider creates a new GormCapacityMetricsProvider.
func NewGormCapacityMetricsProvider(db *gorm.DB) *GormCapacityMetricsProvider {
	return &GormCapacityMetricsProvider{db: db}
}

// GetHoldingBacklog returns the quantity still waiting in each holding location for a tenant.
func (p *GormCapacityMetricsProvider) GetHoldingBacklog(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]int64, error) {
	type result struct {
		LocationID uuid.UUID `gorm:"column:location_id"`
		Quantity   int64     `gorm:"column:quantity"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("inventory_records").
		Select("inventory_records.location_id, COALESCE(SUM(inventory_records.quantity), 0) as quantity").
		Joins("JOIN locations ON locations.id = inventory_records.location_id").
		Where("inventory_records.tenant_id = ? AND locations.category = ?", tenantID, "holding").
		Group("inventory_records.location_id").
		Having("SUM(inventory_records.quantity) > 0").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[uuid.UUID]int64, len(results))
	for _, r := range results {
		m[r.LocationID] = r.Quantity
	}

	return m, nil
}

// GetExhaustedStorageCount returns the number of active storage locations with no free capacity for a tenant.
// Unbounded locations (max_capacity = 0) are never counted.
func (p *GormCapacityMetricsProvider) GetExhaustedStorageCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("locations").
		Where("tenant_id = ? AND category = ? AND status = ?", tenantID, "storage", "active").
		Where("max_capacity > 0 AND current_capacity >= max_capacity").
		Count(&count).Error

	return count, err
}

// GormTenantProvider implements TenantProvider using GORM.
// Tenancy is row-level, so active tenants are derived from the locations
// each tenant has registered.
type GormTenantProvider struct {
	db *gorm.DB
}

// NewGormTenantProvider creates a new GormTenantProvider.
func NewGormTenantProvider(db *gorm.DB) *GormTenantProvider {
	return &GormTenantProvider{db: db}
}

// GetActiveTenantIDs returns all tenant IDs that own at least one active location.
func (p *GormTenantProvider) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("locations").
		Distinct("tenant_id").
		Where("status = ?", "active").
		Find(&ids).Error

	return ids, err
}
