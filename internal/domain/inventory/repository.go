package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// RecordRepository defines the interface for inventory record persistence.
// All lookups are tenant-scoped; cross-tenant access yields shared.ErrNotFound.
type RecordRepository interface {
	// FindByIDForTenant finds a record by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*InventoryRecord, error)

	// FindByItemAndLocation finds the record for an item-location pair
	FindByItemAndLocation(ctx context.Context, tenantID, itemID, locationID uuid.UUID) (*InventoryRecord, error)

	// FindByItemAndLocationForUpdate is FindByItemAndLocation with a row lock
	// when called inside a transaction
	FindByItemAndLocationForUpdate(ctx context.Context, tenantID, itemID, locationID uuid.UUID) (*InventoryRecord, error)

	// FindByLocation finds all records at a location
	FindByLocation(ctx context.Context, tenantID, locationID uuid.UUID, filter shared.Filter) ([]InventoryRecord, error)

	// FindByItem finds all records for an item across locations
	FindByItem(ctx context.Context, tenantID, itemID uuid.UUID, filter shared.Filter) ([]InventoryRecord, error)

	// FindAllForTenant finds all records for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]InventoryRecord, error)

	// GetOrCreate gets the existing record for an item-location pair or
	// creates an empty one, race-safe on first arrival
	GetOrCreate(ctx context.Context, tenantID, itemID, locationID uuid.UUID) (*InventoryRecord, error)

	// Save persists the record's state, honouring PendingDelete by removing
	// the row instead of updating it
	Save(ctx context.Context, record *InventoryRecord) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, record *InventoryRecord) error

	// CountForTenant counts records matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// SumQuantityByLocation sums on-hand quantity across a location
	SumQuantityByLocation(ctx context.Context, tenantID, locationID uuid.UUID) (int64, error)
}
