package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/wms/backend/internal/application/inventory"
)

// InventoryHandler handles inventory record API endpoints
type InventoryHandler struct {
	BaseHandler
	queryService *inventoryapp.QueryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(queryService *inventoryapp.QueryService) *InventoryHandler {
	return &InventoryHandler{
		queryService: queryService,
	}
}

// GetByID godoc
// @ID           getInventoryRecordById
//
//	@Summary		Get inventory record by ID
//	@Description	Retrieve an inventory record by its ID
//	@Tags			inventory
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			id			path		string	true	"Record ID"	format(uuid)
//	@Success		200			{object}	APIResponse[inventoryapp.RecordResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/inventory/records/{id} [get]
func (h *InventoryHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid record ID format")
		return
	}

	record, err := h.queryService.GetByID(c.Request.Context(), tenantID, recordID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// GetByItemAndLocation godoc
// @ID           getInventoryRecordByItemAndLocation
//
//	@Summary		Get inventory record by item and location
//	@Description	Retrieve the record tracking one item at one location
//	@Tags			inventory
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			item_id		path		string	true	"Item ID"		format(uuid)
//	@Param			location_id	path		string	true	"Location ID"	format(uuid)
//	@Success		200			{object}	APIResponse[inventoryapp.RecordResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/inventory/records/item/{item_id}/location/{location_id} [get]
func (h *InventoryHandler) GetByItemAndLocation(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	locationID, err := uuid.Parse(c.Param("location_id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	record, err := h.queryService.GetByItemAndLocation(c.Request.Context(), tenantID, itemID, locationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// List godoc
// @ID           listInventoryRecords
//
//	@Summary		List inventory records
//	@Description	Retrieve a paginated list of inventory records with optional filtering
//	@Tags			inventory
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			status		query		string	false	"Record status"	Enums(available, empty)
//	@Param			has_stock	query		boolean	false	"Only records with positive quantity"
//	@Param			page		query		int		false	"Page number"		default(1)
//	@Param			page_size	query		int		false	"Page size"			default(20)	maximum(100)
//	@Param			order_by	query		string	false	"Order by field"	default(updated_at)
//	@Param			order_dir	query		string	false	"Order direction"	Enums(asc, desc)
//	@Success		200			{object}	APIResponse[[]inventoryapp.RecordResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/inventory/records [get]
func (h *InventoryHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter inventoryapp.RecordListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	// Set defaults
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	records, total, err := h.queryService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, records, total, filter.Page, filter.PageSize)
}

// SummarizeLocation godoc
// @ID           summarizeLocationStock
//
//	@Summary		Summarize stock at a location
//	@Description	Aggregate the inventory records held at one location
//	@Tags			inventory
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			id			path		string	true	"Location ID"	format(uuid)
//	@Param			status		query		string	false	"Record status"	Enums(available, empty)
//	@Param			has_stock	query		boolean	false	"Only records with positive quantity"
//	@Success		200			{object}	APIResponse[inventoryapp.LocationStockSummary]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/inventory/locations/{id}/summary [get]
func (h *InventoryHandler) SummarizeLocation(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	var filter inventoryapp.RecordListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	summary, err := h.queryService.SummarizeLocation(c.Request.Context(), tenantID, locationID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// SummarizeItem godoc
// @ID           summarizeItemStock
//
//	@Summary		Summarize stock for an item
//	@Description	Aggregate an item's inventory records across locations
//	@Tags			inventory
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			id			path		string	true	"Item ID"	format(uuid)
//	@Param			status		query		string	false	"Record status"	Enums(available, empty)
//	@Param			has_stock	query		boolean	false	"Only records with positive quantity"
//	@Success		200			{object}	APIResponse[inventoryapp.ItemStockSummary]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/inventory/items/{id}/summary [get]
func (h *InventoryHandler) SummarizeItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var filter inventoryapp.RecordListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	summary, err := h.queryService.SummarizeItem(c.Request.Context(), tenantID, itemID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}
