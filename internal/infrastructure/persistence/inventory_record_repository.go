package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
)

// GormRecordRepository implements RecordRepository using GORM
type GormRecordRepository struct {
	db *gorm.DB
}

// NewGormRecordRepository creates a new GormRecordRepository
func NewGormRecordRepository(db *gorm.DB) *GormRecordRepository {
	return &GormRecordRepository{db: db}
}

// FindByIDForTenant finds a record by ID within a tenant
func (r *GormRecordRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryRecord, error) {
	var record inventory.InventoryRecord
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByItemAndLocation finds the record for an item-location pair
func (r *GormRecordRepository) FindByItemAndLocation(ctx context.Context, tenantID, itemID, locationID uuid.UUID) (*inventory.InventoryRecord, error) {
	var record inventory.InventoryRecord
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND item_id = ? AND location_id = ?", tenantID, itemID, locationID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByItemAndLocationForUpdate is FindByItemAndLocation with a row lock.
// Only meaningful inside a transaction.
func (r *GormRecordRepository) FindByItemAndLocationForUpdate(ctx context.Context, tenantID, itemID, locationID uuid.UUID) (*inventory.InventoryRecord, error) {
	var record inventory.InventoryRecord
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND item_id = ? AND location_id = ?", tenantID, itemID, locationID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByLocation finds all records at a location
func (r *GormRecordRepository) FindByLocation(ctx context.Context, tenantID, locationID uuid.UUID, filter shared.Filter) ([]inventory.InventoryRecord, error) {
	var records []inventory.InventoryRecord
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryRecord{}).
			Where("tenant_id = ? AND location_id = ?", tenantID, locationID),
		filter,
	)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByItem finds all records for an item across locations
func (r *GormRecordRepository) FindByItem(ctx context.Context, tenantID, itemID uuid.UUID, filter shared.Filter) ([]inventory.InventoryRecord, error) {
	var records []inventory.InventoryRecord
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryRecord{}).
			Where("tenant_id = ? AND item_id = ?", tenantID, itemID),
		filter,
	)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindAllForTenant finds all records for a tenant
func (r *GormRecordRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.InventoryRecord, error) {
	var records []inventory.InventoryRecord
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryRecord{}).
			Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GetOrCreate gets the existing record for an item-location pair or creates
// an empty one, race-safe on first arrival
func (r *GormRecordRepository) GetOrCreate(ctx context.Context, tenantID, itemID, locationID uuid.UUID) (*inventory.InventoryRecord, error) {
	record, err := r.FindByItemAndLocation(ctx, tenantID, itemID, locationID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	record, err = inventory.NewInventoryRecord(tenantID, itemID, locationID)
	if err != nil {
		return nil, err
	}

	// ON CONFLICT handles two callers arriving at the same time
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "item_id"}, {Name: "location_id"}},
			DoNothing: true,
		}).
		Create(record).Error; err != nil {
		return nil, err
	}

	return r.FindByItemAndLocation(ctx, tenantID, itemID, locationID)
}

// Save persists the record's state. A record flagged PendingDelete is
// removed instead of updated.
func (r *GormRecordRepository) Save(ctx context.Context, record *inventory.InventoryRecord) error {
	if record.PendingDelete() {
		return r.db.WithContext(ctx).
			Delete(&inventory.InventoryRecord{}, "id = ?", record.ID).Error
	}
	return r.db.WithContext(ctx).Save(record).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormRecordRepository) SaveWithLock(ctx context.Context, record *inventory.InventoryRecord) error {
	result := r.db.WithContext(ctx).
		Model(record).
		Where("id = ? AND version = ?", record.ID, record.Version-1).
		Updates(map[string]interface{}{
			"quantity":   record.Quantity,
			"status":     record.Status,
			"cost_price": record.CostPrice,
			"source_ref": record.SourceRef,
			"notes":      record.Notes,
			"version":    record.Version,
			"updated_at": record.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// CountForTenant counts records matching the filter
func (r *GormRecordRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&inventory.InventoryRecord{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumQuantityByLocation sums on-hand quantity across a location
func (r *GormRecordRepository) SumQuantityByLocation(ctx context.Context, tenantID, locationID uuid.UUID) (int64, error) {
	var sum int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.InventoryRecord{}).
		Where("tenant_id = ? AND location_id = ?", tenantID, locationID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}

// applyFilter applies filter options to the query
func (r *GormRecordRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, InventoryRecordSortFields, "updated_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter conditions without pagination
func (r *GormRecordRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if _, ok := filter.Filters["has_stock"]; ok {
		query = query.Where("quantity > 0")
	}
	return query
}

// Ensure GormRecordRepository implements RecordRepository
var _ inventory.RecordRepository = (*GormRecordRepository)(nil)
