package receiving

import (
	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeShipmentNotice = "ShipmentNotice"

// Event type constants
const (
	EventTypeShipmentCreated   = "ShipmentCreated"
	EventTypeShipmentReceived  = "ShipmentReceived"
	EventTypeLinePutAway       = "ShipmentLinePutAway"
	EventTypeShipmentCompleted = "ShipmentCompleted"
)

// ShipmentCreatedEvent is raised when a shipment notice is created
type ShipmentCreatedEvent struct {
	shared.BaseDomainEvent
	ShipmentID uuid.UUID `json:"shipment_id"`
	Number     string    `json:"number"`
}

// NewShipmentCreatedEvent creates a new ShipmentCreatedEvent
func NewShipmentCreatedEvent(s *ShipmentNotice) *ShipmentCreatedEvent {
	return &ShipmentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShipmentCreated, AggregateTypeShipmentNotice, s.ID, s.TenantID),
		ShipmentID:      s.ID,
		Number:          s.Number,
	}
}

// ShipmentReceivedEvent is raised when arriving stock is booked into the
// holding location
type ShipmentReceivedEvent struct {
	shared.BaseDomainEvent
	ShipmentID        uuid.UUID `json:"shipment_id"`
	Number            string    `json:"number"`
	HoldingLocationID uuid.UUID `json:"holding_location_id"`
	LineCount         int       `json:"line_count"`
}

// NewShipmentReceivedEvent creates a new ShipmentReceivedEvent
func NewShipmentReceivedEvent(s *ShipmentNotice) *ShipmentReceivedEvent {
	return &ShipmentReceivedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeShipmentReceived, AggregateTypeShipmentNotice, s.ID, s.TenantID),
		ShipmentID:        s.ID,
		Number:            s.Number,
		HoldingLocationID: s.HoldingLocationID,
		LineCount:         len(s.Lines),
	}
}

// LinePutAwayEvent is raised when a committed putaway advances a line
type LinePutAwayEvent struct {
	shared.BaseDomainEvent
	ShipmentID uuid.UUID `json:"shipment_id"`
	Number     string    `json:"number"`
	LineID     uuid.UUID `json:"line_id"`
	ItemID     uuid.UUID `json:"item_id"`
	Quantity   int64     `json:"quantity"`
	Remaining  int64     `json:"remaining"`
	Completed  bool      `json:"completed"`
}

// NewLinePutAwayEvent creates a new LinePutAwayEvent
func NewLinePutAwayEvent(s *ShipmentNotice, line *ShipmentLine, qty int64) *LinePutAwayEvent {
	return &LinePutAwayEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLinePutAway, AggregateTypeShipmentNotice, s.ID, s.TenantID),
		ShipmentID:      s.ID,
		Number:          s.Number,
		LineID:          line.ID,
		ItemID:          line.ItemID,
		Quantity:        qty,
		Remaining:       line.Remaining(),
		Completed:       line.IsCompleted(),
	}
}

// ShipmentCompletedEvent is raised when every line of a shipment has been
// fully put away
type ShipmentCompletedEvent struct {
	shared.BaseDomainEvent
	ShipmentID uuid.UUID `json:"shipment_id"`
	Number     string    `json:"number"`
}

// NewShipmentCompletedEvent creates a new ShipmentCompletedEvent
func NewShipmentCompletedEvent(s *ShipmentNotice) *ShipmentCompletedEvent {
	return &ShipmentCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShipmentCompleted, AggregateTypeShipmentNotice, s.ID, s.TenantID),
		ShipmentID:      s.ID,
		Number:          s.Number,
	}
}
