package http

import (
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/barber-booking-backend/internal/auth"
)

// RegisterPublicRoutes mounts the service menu on a group scoped to /organizations/:org_id.
func RegisterPublicRoutes(g *gin.RouterGroup, h *Handler) {
	g.GET("/services", h.ListPublic)
}

// RegisterRoutes mounts service management on an authenticated dashboard group.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	services := g.Group("/services")
	{
		services.GET("", h.List)
		services.GET("/:id", h.Get)
		services.GET("/:id/staff", h.ListServiceStaff)
	}

	// === Owner/Admin Routes ===
	managed := services.Group("", auth.RequireManager())
	{
		managed.POST("", h.Create)
		managed.PUT("/:id", h.Update)
		managed.DELETE("/:id", h.Delete)
	}

	g.GET("/staff/:staff_id/services", h.ListStaffServices)
	g.PUT("/staff/:staff_id/services", auth.RequireManager(), h.AssignStaffServices)
}
