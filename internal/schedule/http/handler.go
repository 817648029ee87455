package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/barber-booking-backend/internal/auth"
	"github.com/nekogravitycat/barber-booking-backend/internal/availability"
	"github.com/nekogravitycat/barber-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/barber-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/barber-booking-backend/internal/schedule"
)

type Handler struct {
	service schedule.Service
}

func NewHandler(service schedule.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetWeekly(c *gin.Context) {
	var path StaffPath
	if err := c.ShouldBindUri(&path); err != nil {
		response.BadRequest(c, "invalid staff id", err)
		return
	}

	actor, _ := auth.GetActor(c)
	windows, err := h.service.GetWeekly(c.Request.Context(), actor, path.StaffID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewWeeklyResponse(path.StaffID, windows))
}

func (h *Handler) SetWeekly(c *gin.Context) {
	var path StaffPath
	if err := c.ShouldBindUri(&path); err != nil {
		response.BadRequest(c, "invalid staff id", err)
		return
	}

	var body SetWeeklyRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	actor, _ := auth.GetActor(c)
	windows, err := h.service.SetWeekly(c.Request.Context(), actor, path.StaffID, body.toModel())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewWeeklyResponse(path.StaffID, windows))
}

func (h *Handler) ListOverrides(c *gin.Context) {
	var path StaffPath
	if err := c.ShouldBindUri(&path); err != nil {
		response.BadRequest(c, "invalid staff id", err)
		return
	}

	var req ListOverridesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	from, to, err := req.Validate()
	if err != nil {
		response.Error(c, err)
		return
	}

	actor, _ := auth.GetActor(c)
	overrides, err := h.service.ListOverrides(c.Request.Context(), actor, path.StaffID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]OverrideResponse, len(overrides))
	for i, o := range overrides {
		items[i] = NewOverrideResponse(o)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) CreateOverride(c *gin.Context) {
	var path StaffPath
	if err := c.ShouldBindUri(&path); err != nil {
		response.BadRequest(c, "invalid staff id", err)
		return
	}

	var body CreateOverrideRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}
	date, err := availability.ParseDate(body.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	actor, _ := auth.GetActor(c)
	o, err := h.service.CreateOverride(c.Request.Context(), actor, schedule.CreateOverrideRequest{
		StaffID:   path.StaffID,
		Date:      date,
		Type:      availability.OverrideType(body.Type),
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
		Reason:    body.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewOverrideResponse(o))
}

func (h *Handler) DeleteOverride(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}

	actor, _ := auth.GetActor(c)
	if err := h.service.DeleteOverride(c.Request.Context(), actor, req.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
