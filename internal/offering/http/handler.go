package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/barber-booking-backend/internal/auth"
	"github.com/nekogravitycat/barber-booking-backend/internal/offering"
	"github.com/nekogravitycat/barber-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/barber-booking-backend/internal/pkg/response"
)

type Handler struct {
	service offering.Service
}

func NewHandler(service offering.Service) *Handler {
	return &Handler{service: service}
}

// ListPublic lists the bookable services of a shop.
func (h *Handler) ListPublic(c *gin.Context) {
	var path request.OrganizationPath
	if err := c.ShouldBindUri(&path); err != nil {
		response.BadRequest(c, "invalid organization id", err)
		return
	}

	offerings, err := h.service.ListPublic(c.Request.Context(), path.OrganizationID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]PublicServiceResponse, len(offerings))
	for i, o := range offerings {
		items[i] = NewPublicServiceResponse(o)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) List(c *gin.Context) {
	var req ListServicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	actor, _ := auth.GetActor(c)
	offerings, err := h.service.List(c.Request.Context(), actor, req.IncludeInactive)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ServiceResponse, len(offerings))
	for i, o := range offerings {
		items[i] = NewServiceResponse(o)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}

	actor, _ := auth.GetActor(c)
	o, err := h.service.Get(c.Request.Context(), actor, req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewServiceResponse(o))
}

func (h *Handler) Create(c *gin.Context) {
	var body ServiceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	actor, _ := auth.GetActor(c)
	o, err := h.service.Create(c.Request.Context(), actor, body.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewServiceResponse(o))
}

func (h *Handler) Update(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}

	var body ServiceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	actor, _ := auth.GetActor(c)
	o, err := h.service.Update(c.Request.Context(), actor, req.ID, body.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewServiceResponse(o))
}

func (h *Handler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}

	actor, _ := auth.GetActor(c)
	if err := h.service.Deactivate(c.Request.Context(), actor, req.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListStaffServices(c *gin.Context) {
	var path StaffPath
	if err := c.ShouldBindUri(&path); err != nil {
		response.BadRequest(c, "invalid staff id", err)
		return
	}

	actor, _ := auth.GetActor(c)
	ids, err := h.service.ListServiceIDsForStaff(c.Request.Context(), actor, path.StaffID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}

	c.JSON(http.StatusOK, StaffServicesResponse{StaffID: path.StaffID, ServiceIDs: ids})
}

func (h *Handler) AssignStaffServices(c *gin.Context) {
	var path StaffPath
	if err := c.ShouldBindUri(&path); err != nil {
		response.BadRequest(c, "invalid staff id", err)
		return
	}

	var body AssignServicesRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	actor, _ := auth.GetActor(c)
	if err := h.service.AssignToStaff(c.Request.Context(), actor, path.StaffID, body.ServiceIDs); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListServiceStaff lists the staff members who perform a service.
func (h *Handler) ListServiceStaff(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}

	actor, _ := auth.GetActor(c)
	ids, err := h.service.ListStaffIDs(c.Request.Context(), actor.OrganizationID, req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"service_id": req.ID, "staff_ids": ids})
}
