package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/barber-booking-backend/internal/auth"
	"github.com/nekogravitycat/barber-booking-backend/internal/ban"
	"github.com/nekogravitycat/barber-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/barber-booking-backend/internal/pkg/response"
)

type Handler struct {
	service ban.Service
}

func NewHandler(service ban.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	actor, _ := auth.GetActor(c)

	bans, err := h.service.List(c.Request.Context(), actor.OrganizationID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BanResponse, len(bans))
	for i, b := range bans {
		items[i] = NewBanResponse(b)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) Create(c *gin.Context) {
	var body BanRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	actor, _ := auth.GetActor(c)
	b, err := h.service.Ban(c.Request.Context(), ban.BanRequest{
		OrganizationID: actor.OrganizationID,
		CustomerPhone:  body.CustomerPhone,
		Reason:         body.Reason,
		BannedUntil:    body.BannedUntil,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBanResponse(b))
}

func (h *Handler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}

	actor, _ := auth.GetActor(c)
	if err := h.service.Unban(c.Request.Context(), actor.OrganizationID, req.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
