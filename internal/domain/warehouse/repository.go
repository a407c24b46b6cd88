package warehouse

import (
	"context"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// LocationRepository defines the interface for location persistence
type LocationRepository interface {
	// FindByIDForTenant finds a location by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Location, error)

	// FindByIDForUpdate finds a location by ID within a tenant, acquiring a
	// row lock when called inside a transaction
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Location, error)

	// FindByCode finds a location by its code within a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Location, error)

	// FindAllForTenant finds all locations for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Location, error)

	// FindActiveStorage finds active storage locations ordered by sort order,
	// the candidate set for automatic putaway
	FindActiveStorage(ctx context.Context, tenantID uuid.UUID) ([]Location, error)

	// Save creates or updates a location
	Save(ctx context.Context, location *Location) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, location *Location) error

	// DeleteForTenant deletes a location within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts locations matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a location code exists within a tenant
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)

	// SumInventoryQuantity recomputes the occupied capacity of a location from
	// the inventory records stored there, for consistency checks inside a
	// transaction scope
	SumInventoryQuantity(ctx context.Context, tenantID, locationID uuid.UUID) (int64, error)
}
