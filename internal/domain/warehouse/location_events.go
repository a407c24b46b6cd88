package warehouse

import (
	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeLocation = "Location"

// Event type constants
const (
	EventTypeLocationCreated  = "LocationCreated"
	EventTypeCapacityReserved = "CapacityReserved"
	EventTypeCapacityReleased = "CapacityReleased"
)

// LocationCreatedEvent is raised when a location is created
type LocationCreatedEvent struct {
	shared.BaseDomainEvent
	LocationID  uuid.UUID        `json:"location_id"`
	Code        string           `json:"code"`
	Category    LocationCategory `json:"category"`
	MaxCapacity int64            `json:"max_capacity"`
}

// NewLocationCreatedEvent creates a new LocationCreatedEvent
func NewLocationCreatedEvent(l *Location) *LocationCreatedEvent {
	return &LocationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLocationCreated, AggregateTypeLocation, l.ID, l.TenantID),
		LocationID:      l.ID,
		Code:            l.Code,
		Category:        l.Category,
		MaxCapacity:     l.MaxCapacity,
	}
}

// CapacityReservedEvent is raised when capacity is occupied at a location
type CapacityReservedEvent struct {
	shared.BaseDomainEvent
	LocationID      uuid.UUID `json:"location_id"`
	Code            string    `json:"code"`
	Quantity        int64     `json:"quantity"`
	CurrentCapacity int64     `json:"current_capacity"`
	MaxCapacity     int64     `json:"max_capacity"`
}

// NewCapacityReservedEvent creates a new CapacityReservedEvent
func NewCapacityReservedEvent(l *Location, qty int64) *CapacityReservedEvent {
	return &CapacityReservedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCapacityReserved, AggregateTypeLocation, l.ID, l.TenantID),
		LocationID:      l.ID,
		Code:            l.Code,
		Quantity:        qty,
		CurrentCapacity: l.CurrentCapacity,
		MaxCapacity:     l.MaxCapacity,
	}
}

// CapacityReleasedEvent is raised when capacity is freed at a location.
// Anomaly is true when the release would have driven the counter negative
// and the result was floored at zero.
type CapacityReleasedEvent struct {
	shared.BaseDomainEvent
	LocationID      uuid.UUID `json:"location_id"`
	Code            string    `json:"code"`
	Quantity        int64     `json:"quantity"`
	CurrentCapacity int64     `json:"current_capacity"`
	Anomaly         bool      `json:"anomaly"`
}

// NewCapacityReleasedEvent creates a new CapacityReleasedEvent
func NewCapacityReleasedEvent(l *Location, qty int64, anomaly bool) *CapacityReleasedEvent {
	return &CapacityReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCapacityReleased, AggregateTypeLocation, l.ID, l.TenantID),
		LocationID:      l.ID,
		Code:            l.Code,
		Quantity:        qty,
		CurrentCapacity: l.CurrentCapacity,
		Anomaly:         anomaly,
	}
}
