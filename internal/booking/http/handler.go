package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/barber-booking-backend/internal/auth"
	"github.com/nekogravitycat/barber-booking-backend/internal/booking"
	"github.com/nekogravitycat/barber-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/barber-booking-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

// CreatePublic books an appointment from the public shop page.
func (h *Handler) CreatePublic(c *gin.Context) {
	var path request.OrganizationPath
	if err := c.ShouldBindUri(&path); err != nil {
		response.BadRequest(c, "invalid organization id", err)
		return
	}

	var body CreatePublicBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	b, err := h.service.CreatePublic(c.Request.Context(), booking.CreatePublicRequest{
		OrganizationID: path.OrganizationID,
		ServiceID:      body.ServiceID,
		Staff:          body.staffSelection(),
		StartTime:      body.StartTime,
		CustomerName:   body.CustomerName,
		CustomerPhone:  body.CustomerPhone,
		Notes:          body.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewPublicBookingResponse(b))
}

func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	actor, _ := auth.GetActor(c)
	bookings, total, err := h.service.List(c.Request.Context(), actor, booking.Filter{
		StaffID:       req.StaffID,
		Statuses:      req.statuses(),
		StartTimeFrom: req.StartTimeFrom,
		StartTimeTo:   req.StartTimeTo,
		Page:          req.Page,
		PageSize:      req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}

	actor, _ := auth.GetActor(c)
	b, err := h.service.GetByID(c.Request.Context(), actor, req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Create enters an appointment from the dashboard. It is confirmed right away.
func (h *Handler) Create(c *gin.Context) {
	var body CreateDashboardBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	actor, _ := auth.GetActor(c)
	b, err := h.service.CreateDashboard(c.Request.Context(), actor, booking.CreateDashboardRequest{
		ServiceID:     body.ServiceID,
		StaffID:       body.StaffID,
		StartTime:     body.StartTime,
		CustomerName:  body.CustomerName,
		CustomerPhone: body.CustomerPhone,
		Notes:         body.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}

	var body UpdateStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	actor, _ := auth.GetActor(c)
	b, err := h.service.UpdateStatus(c.Request.Context(), actor, req.ID, booking.Status(body.Status))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Cancel(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}

	var body CancelRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			response.BadRequest(c, "invalid request body", err)
			return
		}
	}

	actor, _ := auth.GetActor(c)
	b, err := h.service.Cancel(c.Request.Context(), actor, req.ID, body.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Stats(c *gin.Context) {
	actor, _ := auth.GetActor(c)
	stats, err := h.service.Stats(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		Pending:   stats.Pending,
		Confirmed: stats.Confirmed,
		Today:     stats.Today,
	})
}
