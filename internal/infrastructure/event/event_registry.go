package event

import (
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/receiving"
	"github.com/wms/backend/internal/domain/warehouse"
)

// RegisterAllEvents registers all domain event types with the serializer
// so events persisted or relayed as JSON can be rehydrated by type name.
func RegisterAllEvents(serializer *EventSerializer) {
	// Warehouse domain - Location events
	serializer.Register(warehouse.EventTypeLocationCreated, &warehouse.LocationCreatedEvent{})
	serializer.Register(warehouse.EventTypeCapacityReserved, &warehouse.CapacityReservedEvent{})
	serializer.Register(warehouse.EventTypeCapacityReleased, &warehouse.CapacityReleasedEvent{})

	// Inventory domain - Record events
	serializer.Register(inventory.EventTypeStockAdded, &inventory.StockAddedEvent{})
	serializer.Register(inventory.EventTypeStockRemoved, &inventory.StockRemovedEvent{})

	// Receiving domain - Shipment events
	serializer.Register(receiving.EventTypeShipmentCreated, &receiving.ShipmentCreatedEvent{})
	serializer.Register(receiving.EventTypeShipmentReceived, &receiving.ShipmentReceivedEvent{})
	serializer.Register(receiving.EventTypeLinePutAway, &receiving.LinePutAwayEvent{})
	serializer.Register(receiving.EventTypeShipmentCompleted, &receiving.ShipmentCompletedEvent{})
}
