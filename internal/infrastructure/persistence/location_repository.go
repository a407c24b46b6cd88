package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/warehouse"
)

// GormLocationRepository implements LocationRepository using GORM
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GormLocationRepository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// FindByIDForTenant finds a location by ID within a tenant
func (r *GormLocationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*warehouse.Location, error) {
	var location warehouse.Location
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&location).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &location, nil
}

// FindByIDForUpdate finds a location by ID within a tenant, acquiring a row
// lock. Only meaningful inside a transaction.
func (r *GormLocationRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*warehouse.Location, error) {
	var location warehouse.Location
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&location).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &location, nil
}

// FindByCode finds a location by its code within a tenant
func (r *GormLocationRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*warehouse.Location, error) {
	var location warehouse.Location
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		First(&location).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &location, nil
}

// FindAllForTenant finds all locations for a tenant
func (r *GormLocationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]warehouse.Location, error) {
	var locations []warehouse.Location
	query := r.applyFilter(r.db.WithContext(ctx).Model(&warehouse.Location{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// FindActiveStorage finds active storage locations in candidate order
func (r *GormLocationRepository) FindActiveStorage(ctx context.Context, tenantID uuid.UUID) ([]warehouse.Location, error) {
	var locations []warehouse.Location
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND category = ? AND status = ?",
			tenantID, warehouse.LocationCategoryStorage, warehouse.LocationStatusActive).
		Order("sort_order ASC, code ASC").
		Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// Save creates or updates a location
func (r *GormLocationRepository) Save(ctx context.Context, location *warehouse.Location) error {
	return r.db.WithContext(ctx).Save(location).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormLocationRepository) SaveWithLock(ctx context.Context, location *warehouse.Location) error {
	result := r.db.WithContext(ctx).
		Model(location).
		Where("id = ? AND version = ?", location.ID, location.Version-1).
		Updates(map[string]interface{}{
			"name":             location.Name,
			"status":           location.Status,
			"max_capacity":     location.MaxCapacity,
			"current_capacity": location.CurrentCapacity,
			"notes":            location.Notes,
			"sort_order":       location.SortOrder,
			"version":          location.Version,
			"updated_at":       location.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// DeleteForTenant deletes a location within a tenant
func (r *GormLocationRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&warehouse.Location{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts locations matching the filter
func (r *GormLocationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&warehouse.Location{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a location code exists within a tenant
func (r *GormLocationRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&warehouse.Location{}).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SumInventoryQuantity recomputes a location's occupancy from the inventory
// records stored there
func (r *GormLocationRepository) SumInventoryQuantity(ctx context.Context, tenantID, locationID uuid.UUID) (int64, error) {
	var sum int64
	if err := r.db.WithContext(ctx).
		Table("inventory_records").
		Where("tenant_id = ? AND location_id = ?", tenantID, locationID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}

// applyFilter applies filter options to the query
func (r *GormLocationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, LocationSortFields, "sort_order")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter conditions without pagination
func (r *GormLocationRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("code LIKE ? OR name LIKE ?", search, search)
	}
	if category, ok := filter.Filters["category"]; ok {
		query = query.Where("category = ?", category)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return query
}

// Ensure GormLocationRepository implements LocationRepository
var _ warehouse.LocationRepository = (*GormLocationRepository)(nil)
