package inventory

import (
	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeInventoryRecord = "InventoryRecord"

// Event type constants
const (
	EventTypeStockAdded   = "StockAdded"
	EventTypeStockRemoved = "StockRemoved"
)

// StockAddedEvent is raised when quantity is merged into a record
type StockAddedEvent struct {
	shared.BaseDomainEvent
	RecordID   uuid.UUID `json:"record_id"`
	ItemID     uuid.UUID `json:"item_id"`
	LocationID uuid.UUID `json:"location_id"`
	Quantity   int64     `json:"quantity"`
	NewBalance int64     `json:"new_balance"`
	SourceRef  string    `json:"source_ref,omitempty"`
}

// NewStockAddedEvent creates a new StockAddedEvent
func NewStockAddedEvent(r *InventoryRecord, qty int64) *StockAddedEvent {
	return &StockAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdded, AggregateTypeInventoryRecord, r.ID, r.TenantID),
		RecordID:        r.ID,
		ItemID:          r.ItemID,
		LocationID:      r.LocationID,
		Quantity:        qty,
		NewBalance:      r.Quantity,
		SourceRef:       r.SourceRef,
	}
}

// StockRemovedEvent is raised when quantity is taken out of a record
type StockRemovedEvent struct {
	shared.BaseDomainEvent
	RecordID   uuid.UUID `json:"record_id"`
	ItemID     uuid.UUID `json:"item_id"`
	LocationID uuid.UUID `json:"location_id"`
	Quantity   int64     `json:"quantity"`
	NewBalance int64     `json:"new_balance"`
	Deleted    bool      `json:"deleted"`
}

// NewStockRemovedEvent creates a new StockRemovedEvent
func NewStockRemovedEvent(r *InventoryRecord, qty int64, deleted bool) *StockRemovedEvent {
	return &StockRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockRemoved, AggregateTypeInventoryRecord, r.ID, r.TenantID),
		RecordID:        r.ID,
		ItemID:          r.ItemID,
		LocationID:      r.LocationID,
		Quantity:        qty,
		NewBalance:      r.Quantity,
		Deleted:         deleted,
	}
}
