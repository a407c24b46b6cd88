package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	receivingapp "github.com/wms/backend/internal/application/receiving"
)

// ShipmentHandler handles shipment notice API endpoints
type ShipmentHandler struct {
	BaseHandler
	receivingService *receivingapp.Service
}

// NewShipmentHandler creates a new ShipmentHandler
func NewShipmentHandler(receivingService *receivingapp.Service) *ShipmentHandler {
	return &ShipmentHandler{
		receivingService: receivingService,
	}
}

// Create godoc
// @ID           createShipment
//
//	@Summary		Create a shipment notice
//	@Description	Register an announced inbound shipment with its lines
//	@Tags			shipments
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header		string								true	"Tenant ID"
//	@Param			request		body		receivingapp.CreateShipmentRequest	true	"Shipment creation request"
//	@Success		201			{object}	APIResponse[receivingapp.ShipmentResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/receiving/shipments [post]
func (h *ShipmentHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req receivingapp.CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	shipment, err := h.receivingService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, shipment)
}

// GetByID godoc
// @ID           getShipmentById
//
//	@Summary		Get shipment notice by ID
//	@Description	Retrieve a shipment notice with its lines
//	@Tags			shipments
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			id			path		string	true	"Shipment ID"	format(uuid)
//	@Success		200			{object}	APIResponse[receivingapp.ShipmentResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/receiving/shipments/{id} [get]
func (h *ShipmentHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	shipmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID format")
		return
	}

	shipment, err := h.receivingService.GetByID(c.Request.Context(), tenantID, shipmentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, shipment)
}

// GetByNumber godoc
// @ID           getShipmentByNumber
//
//	@Summary		Get shipment notice by number
//	@Description	Retrieve a shipment notice by its business number
//	@Tags			shipments
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			number		path		string	true	"Shipment Number"
//	@Success		200			{object}	APIResponse[receivingapp.ShipmentResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/receiving/shipments/number/{number} [get]
func (h *ShipmentHandler) GetByNumber(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Shipment number is required")
		return
	}

	shipment, err := h.receivingService.GetByNumber(c.Request.Context(), tenantID, number)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, shipment)
}

// List godoc
// @ID           listShipments
//
//	@Summary		List shipment notices
//	@Description	Retrieve a paginated list of shipment notices with optional filtering
//	@Tags			shipments
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			status		query		string	false	"Shipment status"	Enums(PENDING, RECEIVED, COMPLETED)
//	@Param			search		query		string	false	"Search term (number, supplier ref)"
//	@Param			page		query		int		false	"Page number"		default(1)
//	@Param			page_size	query		int		false	"Page size"			default(20)	maximum(100)
//	@Param			order_by	query		string	false	"Order by field"	default(created_at)
//	@Param			order_dir	query		string	false	"Order direction"	Enums(asc, desc)
//	@Success		200			{object}	APIResponse[[]receivingapp.ShipmentResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/receiving/shipments [get]
func (h *ShipmentHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter receivingapp.ShipmentListFilter
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

	shipments, total, err := h.receivingService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, shipments, total, filter.Page, filter.PageSize)
}

// Receive godoc
// @ID           receiveShipment
//
//	@Summary		Receive a shipment
//	@Description	Mark a pending shipment as arrived and book its quantities into the holding location
//	@Tags			shipments
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			id			path		string	true	"Shipment ID"	format(uuid)
//	@Success		200			{object}	APIResponse[receivingapp.ShipmentResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/receiving/shipments/{id}/receive [post]
func (h *ShipmentHandler) Receive(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	shipmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID format")
		return
	}

	shipment, err := h.receivingService.Receive(c.Request.Context(), tenantID, shipmentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, shipment)
}

// ListOpenLines godoc
// @ID           listShipmentOpenLines
//
//	@Summary		List open shipment lines
//	@Description	List lines of a received shipment that still have quantity to put away
//	@Tags			shipments
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			id			path		string	true	"Shipment ID"	format(uuid)
//	@Success		200			{object}	APIResponse[[]receivingapp.ShipmentLineResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/receiving/shipments/{id}/open-lines [get]
func (h *ShipmentHandler) ListOpenLines(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	shipmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID format")
		return
	}

	lines, err := h.receivingService.ListOpenLines(c.Request.Context(), tenantID, shipmentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, lines)
}
