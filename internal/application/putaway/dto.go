package putaway

import (
	"github.com/google/uuid"
)

// PutawayRequest represents a request to move quantity from the holding
// location of a shipment line to a storage location
type PutawayRequest struct {
	ShipmentLineID   uuid.UUID `json:"shipment_line_id" binding:"required"`
	TargetLocationID uuid.UUID `json:"target_location_id" binding:"required"`
	Quantity         int64     `json:"quantity" binding:"required,gt=0"`
}

// PutawayResponse reports the line state after a committed putaway
type PutawayResponse struct {
	ShipmentID        uuid.UUID `json:"shipment_id"`
	ShipmentLineID    uuid.UUID `json:"shipment_line_id"`
	ItemID            uuid.UUID `json:"item_id"`
	TargetLocationID  uuid.UUID `json:"target_location_id"`
	Quantity          int64     `json:"quantity"`
	PutAwayQuantity   int64     `json:"put_away_quantity"`
	Remaining         int64     `json:"remaining"`
	Completed         bool      `json:"completed"`
	ShipmentCompleted bool      `json:"shipment_completed"`
}

// LineError describes why one line of a bulk putaway could not be placed
type LineError struct {
	ShipmentLineID uuid.UUID `json:"shipment_line_id"`
	ItemID         uuid.UUID `json:"item_id"`
	Code           string    `json:"code"`
	Message        string    `json:"message"`
}

// AutoPutawayResponse reports the outcome of a bulk putaway run. The batch
// never aborts: every open line is attempted and failures are collected.
// Success means at least one line was placed.
type AutoPutawayResponse struct {
	ShipmentID     uuid.UUID         `json:"shipment_id"`
	Success        bool              `json:"success"`
	ProcessedCount int               `json:"processed_count"`
	Placements     []PutawayResponse `json:"placements"`
	Errors         []LineError       `json:"errors"`
}
