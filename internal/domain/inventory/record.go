package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// RecordStatus is derived from the record's quantity and never set independently
type RecordStatus string

const (
	RecordStatusAvailable RecordStatus = "available"
	RecordStatusEmpty     RecordStatus = "empty"
)

// ZeroQuantityPolicy controls what happens to a record whose quantity reaches
// zero. Holding locations are transient staging areas and drop empty records;
// storage locations retain them as historical presence markers.
type ZeroQuantityPolicy int

const (
	// RetainWhenEmpty keeps a zero-quantity record with status Empty
	RetainWhenEmpty ZeroQuantityPolicy = iota
	// DeleteWhenEmpty removes the record once its quantity reaches zero
	DeleteWhenEmpty
)

// InventoryRecord tracks the on-hand quantity of one item at one location.
// The composite identifier is TenantID + ItemID + LocationID.
type InventoryRecord struct {
	shared.TenantAggregateRoot
	ItemID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_record_item_location,priority:2"`
	LocationID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_record_item_location,priority:3"`
	Quantity   int64           `gorm:"not null;default:0"`
	Status     RecordStatus    `gorm:"type:varchar(20);not null;default:'empty'"`
	CostPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // last cost price
	SourceRef  string          `gorm:"type:varchar(100)"`                     // provenance, e.g. shipment number
	Notes      string          `gorm:"type:text"`

	// pendingDelete is set by RemoveStock under DeleteWhenEmpty; the
	// repository honours it when persisting the mutation.
	pendingDelete bool `gorm:"-"`
}

// TableName returns the table name for GORM
func (InventoryRecord) TableName() string {
	return "inventory_records"
}

// NewInventoryRecord creates a new empty inventory record for an item-location pair
func NewInventoryRecord(tenantID, itemID, locationID uuid.UUID) (*InventoryRecord, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}

	return &InventoryRecord{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ItemID:              itemID,
		LocationID:          locationID,
		Quantity:            0,
		Status:              RecordStatusEmpty,
		CostPrice:           decimal.Zero,
	}, nil
}

// AddStock merges qty units into the record, overwriting cost price and
// source reference, replacing notes when provided, and recomputing status.
func (r *InventoryRecord) AddStock(qty int64, costPrice decimal.Decimal, sourceRef, notes string) error {
	if qty <= 0 {
		return shared.ErrInvalidQuantity
	}
	if costPrice.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Cost price cannot be negative")
	}

	r.Quantity += qty
	r.CostPrice = costPrice
	if sourceRef != "" {
		r.SourceRef = sourceRef
	}
	if notes != "" {
		r.Notes = notes
	}
	r.recomputeStatus()
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewStockAddedEvent(r, qty))

	return nil
}

// RemoveStock removes qty units from the record. The zero-quantity policy
// decides whether an emptied record is deleted or retained as Empty.
func (r *InventoryRecord) RemoveStock(qty int64, policy ZeroQuantityPolicy) error {
	if qty <= 0 {
		return shared.ErrInvalidQuantity
	}
	if qty > r.Quantity {
		return shared.ErrInsufficientQuantity
	}

	r.Quantity -= qty
	r.recomputeStatus()
	if r.Quantity == 0 && policy == DeleteWhenEmpty {
		r.pendingDelete = true
	}
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewStockRemovedEvent(r, qty, r.pendingDelete))

	return nil
}

// PendingDelete reports whether the record was emptied under DeleteWhenEmpty
// and should be removed by the persistence layer.
func (r *InventoryRecord) PendingDelete() bool {
	return r.pendingDelete
}

// HasQuantity returns true if at least qty units are on hand
func (r *InventoryRecord) HasQuantity(qty int64) bool {
	return r.Quantity >= qty
}

// IsEmpty returns true if the record holds no stock
func (r *InventoryRecord) IsEmpty() bool {
	return r.Quantity == 0
}

func (r *InventoryRecord) recomputeStatus() {
	if r.Quantity > 0 {
		r.Status = RecordStatusAvailable
	} else {
		r.Status = RecordStatusEmpty
	}
}
