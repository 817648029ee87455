package http

import (
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/barber-booking-backend/internal/auth"
)

// RegisterPublicRoutes registers the unauthenticated shop lookup.
func RegisterPublicRoutes(g *gin.RouterGroup, h *OrganizationHandler) {
	g.GET("/shops/:slug", h.GetShop)
}

// RegisterRoutes registers organization routes on an authenticated dashboard group.
func RegisterRoutes(g *gin.RouterGroup, h *OrganizationHandler) {
	orgGroup := g.Group("/organization")
	{
		orgGroup.GET("", h.Get)
		orgGroup.PATCH("", auth.RequireOwner(), h.Update)
	}

	g.GET("/staff", h.ListStaff)
}
