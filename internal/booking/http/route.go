package http

import (
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/barber-booking-backend/internal/auth"
)

// RegisterPublicRoutes mounts customer booking on a group scoped to /organizations/:org_id.
func RegisterPublicRoutes(g *gin.RouterGroup, h *Handler) {
	g.POST("/bookings", h.CreatePublic)
}

// RegisterRoutes mounts booking management on an authenticated dashboard group.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/bookings")
	{
		group.GET("", h.List)
		group.GET("/stats", h.Stats)
		group.GET("/:id", h.Get)
		group.POST("", auth.RequireManager(), h.Create)
		group.PATCH("/:id/status", h.UpdateStatus)
		group.POST("/:id/cancel", h.Cancel)
	}
}
