package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes mounts the lookup on a group already scoped to /organizations/:org_id.
func RegisterPublicRoutes(g *gin.RouterGroup, h *Handler) {
	g.GET("/availability", h.Get)
}
