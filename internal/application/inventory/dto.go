package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/inventory"
)

// RecordResponse represents an inventory record in API responses
type RecordResponse struct {
	ID         uuid.UUID       `json:"id"`
	ItemID     uuid.UUID       `json:"item_id"`
	LocationID uuid.UUID       `json:"location_id"`
	Quantity   int64           `json:"quantity"`
	Status     string          `json:"status"`
	CostPrice  decimal.Decimal `json:"cost_price"`
	SourceRef  string          `json:"source_ref"`
	Notes      string          `json:"notes"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Version    int             `json:"version"`
}

// RecordListFilter represents filter options for record lists
type RecordListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=available empty"`
	HasStock bool   `form:"has_stock"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// LocationStockSummary aggregates the records held at one location
type LocationStockSummary struct {
	LocationID    uuid.UUID        `json:"location_id"`
	TotalQuantity int64            `json:"total_quantity"`
	RecordCount   int              `json:"record_count"`
	Records       []RecordResponse `json:"records"`
}

// ItemStockSummary aggregates an item's records across locations
type ItemStockSummary struct {
	ItemID        uuid.UUID        `json:"item_id"`
	TotalQuantity int64            `json:"total_quantity"`
	LocationCount int              `json:"location_count"`
	Records       []RecordResponse `json:"records"`
}

// ToRecordResponse converts a domain record to a response DTO
func ToRecordResponse(record *inventory.InventoryRecord) RecordResponse {
	return RecordResponse{
		ID:         record.ID,
		ItemID:     record.ItemID,
		LocationID: record.LocationID,
		Quantity:   record.Quantity,
		Status:     string(record.Status),
		CostPrice:  record.CostPrice,
		SourceRef:  record.SourceRef,
		Notes:      record.Notes,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
		Version:    record.Version,
	}
}

// ToRecordResponses converts a slice of domain records
func ToRecordResponses(records []inventory.InventoryRecord) []RecordResponse {
	responses := make([]RecordResponse, len(records))
	for i := range records {
		responses[i] = ToRecordResponse(&records[i])
	}
	return responses
}
