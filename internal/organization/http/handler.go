package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/barber-booking-backend/internal/auth"
	"github.com/nekogravitycat/barber-booking-backend/internal/organization"
	"github.com/nekogravitycat/barber-booking-backend/internal/pkg/response"
)

type OrganizationHandler struct {
	service organization.Service
}

func NewOrganizationHandler(service organization.Service) *OrganizationHandler {
	return &OrganizationHandler{service: service}
}

// GetShop resolves the public shop page by its slug.
func (h *OrganizationHandler) GetShop(c *gin.Context) {
	var path ShopPath
	if err := c.ShouldBindUri(&path); err != nil {
		response.BadRequest(c, "invalid shop slug", err)
		return
	}

	org, err := h.service.GetBySlug(c.Request.Context(), path.Slug)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewShopResponse(org))
}

// Get returns the settings of the caller's organization.
func (h *OrganizationHandler) Get(c *gin.Context) {
	actor, _ := auth.GetActor(c)

	org, err := h.service.GetByID(c.Request.Context(), actor.OrganizationID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewOrganizationResponse(org))
}

func (h *OrganizationHandler) Update(c *gin.Context) {
	var body UpdateSettingsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	actor, _ := auth.GetActor(c)
	org, err := h.service.UpdateSettings(c.Request.Context(), actor, organization.UpdateSettingsRequest{
		Name:     body.Name,
		Slug:     body.Slug,
		Logo:     body.Logo,
		Timezone: body.Timezone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewOrganizationResponse(org))
}

func (h *OrganizationHandler) ListStaff(c *gin.Context) {
	var req ListStaffRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	actor, _ := auth.GetActor(c)
	staff, total, err := h.service.ListStaff(c.Request.Context(), organization.StaffFilter{
		OrganizationID: actor.OrganizationID,
		Page:           req.Page,
		PageSize:       req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]StaffResponse, len(staff))
	for i, s := range staff {
		items[i] = NewStaffResponse(s)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}
