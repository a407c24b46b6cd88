package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wms/backend/internal/domain/receiving"
	"github.com/wms/backend/internal/domain/shared"
)

// GormShipmentRepository implements ShipmentRepository using GORM
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewGormShipmentRepository creates a new GormShipmentRepository
func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// FindByIDForTenant finds a notice (with lines) by ID within a tenant
func (r *GormShipmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*receiving.ShipmentNotice, error) {
	return r.findByID(ctx, tenantID, id, false)
}

// FindByIDForUpdate is FindByIDForTenant with a row lock on the notice.
// Only meaningful inside a transaction.
func (r *GormShipmentRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*receiving.ShipmentNotice, error) {
	return r.findByID(ctx, tenantID, id, true)
}

func (r *GormShipmentRepository) findByID(ctx context.Context, tenantID, id uuid.UUID, forUpdate bool) (*receiving.ShipmentNotice, error) {
	query := r.db.WithContext(ctx).Preload("Lines")
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var notice receiving.ShipmentNotice
	if err := query.
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&notice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &notice, nil
}

// FindByLineID finds the notice (with lines) that owns the given line
func (r *GormShipmentRepository) FindByLineID(ctx context.Context, tenantID, lineID uuid.UUID) (*receiving.ShipmentNotice, error) {
	return r.findByLineID(ctx, tenantID, lineID, false)
}

// FindByLineIDForUpdate is FindByLineID with a row lock on the line.
// Only meaningful inside a transaction.
func (r *GormShipmentRepository) FindByLineIDForUpdate(ctx context.Context, tenantID, lineID uuid.UUID) (*receiving.ShipmentNotice, error) {
	return r.findByLineID(ctx, tenantID, lineID, true)
}

func (r *GormShipmentRepository) findByLineID(ctx context.Context, tenantID, lineID uuid.UUID, forUpdate bool) (*receiving.ShipmentNotice, error) {
	lineQuery := r.db.WithContext(ctx).Model(&receiving.ShipmentLine{})
	if forUpdate {
		lineQuery = lineQuery.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var line receiving.ShipmentLine
	if err := lineQuery.Where("id = ?", lineID).First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	return r.FindByIDForTenant(ctx, tenantID, line.ShipmentID)
}

// FindByNumber finds a notice by its number within a tenant
func (r *GormShipmentRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*receiving.ShipmentNotice, error) {
	var notice receiving.ShipmentNotice
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND number = ?", tenantID, number).
		First(&notice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &notice, nil
}

// FindAllForTenant finds all notices for a tenant
func (r *GormShipmentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]receiving.ShipmentNotice, error) {
	var notices []receiving.ShipmentNotice
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&receiving.ShipmentNotice{}).
			Preload("Lines").
			Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&notices).Error; err != nil {
		return nil, err
	}
	return notices, nil
}

// Save creates or updates a notice together with its lines
func (r *GormShipmentRepository) Save(ctx context.Context, notice *receiving.ShipmentNotice) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(notice).Error
}

// SaveLine persists a single line's counters
func (r *GormShipmentRepository) SaveLine(ctx context.Context, line *receiving.ShipmentLine) error {
	return r.db.WithContext(ctx).Save(line).Error
}

// CountForTenant counts notices matching the filter
func (r *GormShipmentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&receiving.ShipmentNotice{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNumber checks if a shipment number exists within a tenant
func (r *GormShipmentRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&receiving.ShipmentNotice{}).
		Where("tenant_id = ? AND number = ?", tenantID, number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormShipmentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ShipmentSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter conditions without pagination
func (r *GormShipmentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("number LIKE ? OR supplier_ref LIKE ?", searchPattern, searchPattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return query
}

// Ensure GormShipmentRepository implements ShipmentRepository
var _ receiving.ShipmentRepository = (*GormShipmentRepository)(nil)
