package http

import (
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/barber-booking-backend/internal/auth"
)

// RegisterRoutes mounts the ban list on an authenticated dashboard group.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/bans")

	// === Owner/Admin Routes ===
	group.Use(auth.RequireManager())
	{
		group.GET("", h.List)
		group.POST("", h.Create)
		group.DELETE("/:id", h.Delete)
	}
}
