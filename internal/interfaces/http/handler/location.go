package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	warehouseapp "github.com/wms/backend/internal/application/warehouse"
)

// LocationHandler handles warehouse location API endpoints
type LocationHandler struct {
	BaseHandler
	locationService *warehouseapp.LocationService
}

// NewLocationHandler creates a new LocationHandler
func NewLocationHandler(locationService *warehouseapp.LocationService) *LocationHandler {
	return &LocationHandler{
		locationService: locationService,
	}
}

// Create godoc
// @ID           createLocation
//
//	@Summary		Create a new location
//	@Description	Create a new storage or holding location
//	@Tags			locations
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header		string								true	"Tenant ID"
//	@Param			request		body		warehouseapp.CreateLocationRequest	true	"Location creation request"
//	@Success		201			{object}	APIResponse[warehouseapp.LocationResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/warehouse/locations [post]
func (h *LocationHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req warehouseapp.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	location, err := h.locationService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, location)
}

// GetByID godoc
// @ID           getLocationById
//
//	@Summary		Get location by ID
//	@Description	Retrieve a location by its ID
//	@Tags			locations
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			id			path		string	true	"Location ID"	format(uuid)
//	@Success		200			{object}	APIResponse[warehouseapp.LocationResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/warehouse/locations/{id} [get]
func (h *LocationHandler) GetByID(c *gin.Context) {
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

	location, err := h.locationService.GetByID(c.Request.Context(), tenantID, locationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, location)
}

// GetByCode godoc
// @ID           getLocationByCode
//
//	@Summary		Get location by code
//	@Description	Retrieve a location by its code
//	@Tags			locations
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			code		path		string	true	"Location Code"
//	@Success		200			{object}	APIResponse[warehouseapp.LocationResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/warehouse/locations/code/{code} [get]
func (h *LocationHandler) GetByCode(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Location code is required")
		return
	}

	location, err := h.locationService.GetByCode(c.Request.Context(), tenantID, code)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, location)
}

// List godoc
// @ID           listLocations
//
//	@Summary		List locations
//	@Description	Retrieve a paginated list of locations with optional filtering
//	@Tags			locations
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			category	query		string	false	"Location category"	Enums(storage, holding)
//	@Param			status		query		string	false	"Location status"	Enums(active, inactive)
//	@Param			search		query		string	false	"Search term (name, code)"
//	@Param			page		query		int		false	"Page number"		default(1)
//	@Param			page_size	query		int		false	"Page size"			default(20)	maximum(100)
//	@Param			order_by	query		string	false	"Order by field"	default(sort_order)
//	@Param			order_dir	query		string	false	"Order direction"	Enums(asc, desc)
//	@Success		200			{object}	APIResponse[[]warehouseapp.LocationResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/warehouse/locations [get]
func (h *LocationHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter warehouseapp.LocationListFilter
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

	locations, total, err := h.locationService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, locations, total, filter.Page, filter.PageSize)
}

// ListStorageCandidates godoc
// @ID           listStorageCandidates
//
//	@Summary		List storage candidates
//	@Description	List active storage locations in putaway preference order
//	@Tags			locations
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Success		200			{object}	APIResponse[[]warehouseapp.LocationResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/warehouse/locations/storage-candidates [get]
func (h *LocationHandler) ListStorageCandidates(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	locations, err := h.locationService.ListStorageCandidates(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, locations)
}

// Update godoc
// @ID           updateLocation
//
//	@Summary		Update a location
//	@Description	Update an existing location's settings
//	@Tags			locations
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header		string								true	"Tenant ID"
//	@Param			id			path		string								true	"Location ID"	format(uuid)
//	@Param			request		body		warehouseapp.UpdateLocationRequest	true	"Location update request"
//	@Success		200			{object}	APIResponse[warehouseapp.LocationResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/warehouse/locations/{id} [put]
func (h *LocationHandler) Update(c *gin.Context) {
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

	var req warehouseapp.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	location, err := h.locationService.Update(c.Request.Context(), tenantID, locationID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, location)
}

// Enable godoc
// @ID           enableLocation
//
//	@Summary		Enable a location
//	@Description	Enable an inactive location so it accepts putaway again
//	@Tags			locations
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			id			path		string	true	"Location ID"	format(uuid)
//	@Success		200			{object}	APIResponse[warehouseapp.LocationResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/warehouse/locations/{id}/enable [post]
func (h *LocationHandler) Enable(c *gin.Context) {
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

	location, err := h.locationService.Enable(c.Request.Context(), tenantID, locationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, location)
}

// Disable godoc
// @ID           disableLocation
//
//	@Summary		Disable a location
//	@Description	Disable an active location so it stops receiving putaway
//	@Tags			locations
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			id			path		string	true	"Location ID"	format(uuid)
//	@Success		200			{object}	APIResponse[warehouseapp.LocationResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/warehouse/locations/{id}/disable [post]
func (h *LocationHandler) Disable(c *gin.Context) {
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

	location, err := h.locationService.Disable(c.Request.Context(), tenantID, locationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, location)
}

// Delete godoc
// @ID           deleteLocation
//
//	@Summary		Delete a location
//	@Description	Delete a location by ID (only possible while it holds no stock)
//	@Tags			locations
//	@Produce		json
//	@Param			X-Tenant-ID	header	string	true	"Tenant ID"
//	@Param			id			path	string	true	"Location ID"	format(uuid)
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/warehouse/locations/{id} [delete]
func (h *LocationHandler) Delete(c *gin.Context) {
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

	if err := h.locationService.Delete(c.Request.Context(), tenantID, locationID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
