package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/barber-booking-backend/internal/availability"
	"github.com/nekogravitycat/barber-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/barber-booking-backend/internal/pkg/response"
)

type Handler struct {
	service availability.Service
	now     func() time.Time
}

func NewHandler(service availability.Service) *Handler {
	return &Handler{service: service, now: time.Now}
}

// Get returns the bookable start times for a service on one date.
// Slots that already started are left out.
func (h *Handler) Get(c *gin.Context) {
	var path request.OrganizationPath
	if err := c.ShouldBindUri(&path); err != nil {
		response.BadRequest(c, "invalid organization id", err)
		return
	}

	var req AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	date, err := req.Validate()
	if err != nil {
		response.Error(c, err)
		return
	}

	slots, err := h.service.GetAvailableSlots(c.Request.Context(), availability.Query{
		OrganizationID: path.OrganizationID,
		ServiceID:      req.ServiceID,
		Staff:          req.staffSelection(),
		Date:           date,
		NotBefore:      h.now(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewAvailabilityResponse(date, req.ServiceID, slots))
}
