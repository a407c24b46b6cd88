package receiving

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/receiving"
)

// CreateShipmentLineRequest represents one line of a new shipment notice
type CreateShipmentLineRequest struct {
	ItemID          uuid.UUID       `json:"item_id" binding:"required"`
	ShippedQuantity int64           `json:"shipped_quantity" binding:"required,gt=0"`
	CostPrice       decimal.Decimal `json:"cost_price"`
}

// CreateShipmentRequest represents a request to create a shipment notice
type CreateShipmentRequest struct {
	Number            string                      `json:"number" binding:"required,max=50"`
	SupplierRef       string                      `json:"supplier_ref" binding:"max=100"`
	HoldingLocationID uuid.UUID                   `json:"holding_location_id" binding:"required"`
	Notes             string                      `json:"notes"`
	Lines             []CreateShipmentLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ShipmentLineResponse represents a shipment line in API responses
type ShipmentLineResponse struct {
	ID              uuid.UUID       `json:"id"`
	ItemID          uuid.UUID       `json:"item_id"`
	ShippedQuantity int64           `json:"shipped_quantity"`
	PutAwayQuantity int64           `json:"put_away_quantity"`
	Remaining       int64           `json:"remaining"`
	Completed       bool            `json:"completed"`
	CostPrice       decimal.Decimal `json:"cost_price"`
}

// ShipmentResponse represents a shipment notice in API responses
type ShipmentResponse struct {
	ID                uuid.UUID              `json:"id"`
	Number            string                 `json:"number"`
	SupplierRef       string                 `json:"supplier_ref"`
	HoldingLocationID uuid.UUID              `json:"holding_location_id"`
	Status            string                 `json:"status"`
	ReceivedAt        *time.Time             `json:"received_at,omitempty"`
	Notes             string                 `json:"notes"`
	Lines             []ShipmentLineResponse `json:"lines"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
	Version           int                    `json:"version"`
}

// ShipmentListFilter represents filter options for shipment notice lists
type ShipmentListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=PENDING RECEIVED COMPLETED"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToShipmentLineResponse converts a domain shipment line to a response DTO
func ToShipmentLineResponse(line *receiving.ShipmentLine) ShipmentLineResponse {
	return ShipmentLineResponse{
		ID:              line.ID,
		ItemID:          line.ItemID,
		ShippedQuantity: line.ShippedQuantity,
		PutAwayQuantity: line.PutAwayQuantity,
		Remaining:       line.Remaining(),
		Completed:       line.IsCompleted(),
		CostPrice:       line.CostPrice,
	}
}

// ToShipmentResponse converts a domain shipment notice to a response DTO
func ToShipmentResponse(notice *receiving.ShipmentNotice) ShipmentResponse {
	lines := make([]ShipmentLineResponse, 0, len(notice.Lines))
	for i := range notice.Lines {
		lines = append(lines, ToShipmentLineResponse(&notice.Lines[i]))
	}
	return ShipmentResponse{
		ID:                notice.ID,
		Number:            notice.Number,
		SupplierRef:       notice.SupplierRef,
		HoldingLocationID: notice.HoldingLocationID,
		Status:            string(notice.Status),
		ReceivedAt:        notice.ReceivedAt,
		Notes:             notice.Notes,
		Lines:             lines,
		CreatedAt:         notice.CreatedAt,
		UpdatedAt:         notice.UpdatedAt,
		Version:           notice.Version,
	}
}
