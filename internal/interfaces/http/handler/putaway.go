package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	putawayapp "github.com/wms/backend/internal/application/putaway"
)

// PutawayHandler handles putaway API endpoints
type PutawayHandler struct {
	BaseHandler
	putawayService *putawayapp.Service
}

// NewPutawayHandler creates a new PutawayHandler
func NewPutawayHandler(putawayService *putawayapp.Service) *PutawayHandler {
	return &PutawayHandler{
		putawayService: putawayService,
	}
}

// Putaway godoc
// @ID           putaway
//
//	@Summary		Put away a shipment line
//	@Description	Move quantity from the shipment's holding location to a chosen storage location
//	@Tags			putaway
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header		string						true	"Tenant ID"
//	@Param			request		body		putawayapp.PutawayRequest	true	"Putaway request"
//	@Success		200			{object}	APIResponse[putawayapp.PutawayResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/putaway [post]
func (h *PutawayHandler) Putaway(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req putawayapp.PutawayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.putawayService.Putaway(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// AutoPutaway godoc
// @ID           autoPutaway
//
//	@Summary		Auto put away a shipment
//	@Description	Place every open line of a received shipment into storage locations by preference order, collecting per-line failures
//	@Tags			putaway
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			id			path		string	true	"Shipment ID"	format(uuid)
//	@Success		200			{object}	APIResponse[putawayapp.AutoPutawayResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/receiving/shipments/{id}/auto-putaway [post]
func (h *PutawayHandler) AutoPutaway(c *gin.Context) {
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

	result, err := h.putawayService.AutoPutaway(c.Request.Context(), tenantID, shipmentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
