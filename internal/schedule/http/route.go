package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts schedule editing on an authenticated dashboard group.
// Permission checks live in the service since members may edit themselves.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	staff := g.Group("/staff/:staff_id/schedule")
	{
		staff.GET("/weekly", h.GetWeekly)
		staff.PUT("/weekly", h.SetWeekly)
		staff.GET("/overrides", h.ListOverrides)
		staff.POST("/overrides", h.CreateOverride)
	}

	g.DELETE("/schedule/overrides/:id", h.DeleteOverride)
}
