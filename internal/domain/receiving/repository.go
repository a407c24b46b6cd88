package receiving

import (
	"context"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// ShipmentRepository defines the interface for shipment notice persistence
type ShipmentRepository interface {
	// FindByIDForTenant finds a notice (with lines) by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ShipmentNotice, error)

	// FindByIDForUpdate is FindByIDForTenant with a row lock on the notice
	// when called inside a transaction
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*ShipmentNotice, error)

	// FindByLineID finds the notice (with lines) that owns the given line
	FindByLineID(ctx context.Context, tenantID, lineID uuid.UUID) (*ShipmentNotice, error)

	// FindByLineIDForUpdate is FindByLineID with a row lock on the line when
	// called inside a transaction
	FindByLineIDForUpdate(ctx context.Context, tenantID, lineID uuid.UUID) (*ShipmentNotice, error)

	// FindByNumber finds a notice by its number within a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*ShipmentNotice, error)

	// FindAllForTenant finds all notices for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ShipmentNotice, error)

	// Save creates or updates a notice together with its lines
	Save(ctx context.Context, notice *ShipmentNotice) error

	// SaveLine persists a single line's counters
	SaveLine(ctx context.Context, line *ShipmentLine) error

	// CountForTenant counts notices matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByNumber checks if a shipment number exists within a tenant
	ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error)
}
