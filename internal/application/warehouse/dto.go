package warehouse

import (
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/warehouse"
)

// CreateLocationRequest represents a request to create a location
type CreateLocationRequest struct {
	Code        string `json:"code" binding:"required,max=50"`
	Name        string `json:"name" binding:"required,max=200"`
	Category    string `json:"category" binding:"required,oneof=storage holding"`
	MaxCapacity int64  `json:"max_capacity" binding:"min=0"`
	Notes       string `json:"notes"`
	SortOrder   int    `json:"sort_order"`
}

// UpdateLocationRequest represents a request to update a location's settings
type UpdateLocationRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=200"`
	MaxCapacity *int64  `json:"max_capacity" binding:"omitempty,min=0"`
	Notes       *string `json:"notes"`
	SortOrder   *int    `json:"sort_order"`
}

// LocationResponse represents a location in API responses
type LocationResponse struct {
	ID                uuid.UUID `json:"id"`
	Code              string    `json:"code"`
	Name              string    `json:"name"`
	Category          string    `json:"category"`
	Status            string    `json:"status"`
	MaxCapacity       int64     `json:"max_capacity"`
	CurrentCapacity   int64     `json:"current_capacity"`
	AvailableCapacity *int64    `json:"available_capacity,omitempty"` // nil when unbounded
	Notes             string    `json:"notes"`
	SortOrder         int       `json:"sort_order"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	Version           int       `json:"version"`
}

// LocationListFilter represents filter options for location lists
type LocationListFilter struct {
	Category string `form:"category" binding:"omitempty,oneof=storage holding"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToLocationResponse converts a domain location to a response DTO
func ToLocationResponse(location *warehouse.Location) LocationResponse {
	response := LocationResponse{
		ID:              location.ID,
		Code:            location.Code,
		Name:            location.Name,
		Category:        string(location.Category),
		Status:          string(location.Status),
		MaxCapacity:     location.MaxCapacity,
		CurrentCapacity: location.CurrentCapacity,
		Notes:           location.Notes,
		SortOrder:       location.SortOrder,
		CreatedAt:       location.CreatedAt,
		UpdatedAt:       location.UpdatedAt,
		Version:         location.Version,
	}
	if available, bounded := location.AvailableCapacity(); bounded {
		response.AvailableCapacity = &available
	}
	return response
}
