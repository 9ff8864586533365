package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires both route families: joining happens under the
// resource, everything else under the entry itself.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	resources := g.Group("/resources")
	resources.Use(authMiddleware)
	{
		resources.POST("/:id/waitlist", h.Join)
		resources.GET("/:id/waitlist", h.ListForResource)
	}

	entries := g.Group("/waitlist")
	entries.Use(authMiddleware)
	{
		entries.GET("", h.ListMine)
		entries.DELETE("/:id", h.Leave)
		entries.POST("/:id/convert", h.Convert)
		entries.GET("/:id/position", h.Position)
	}
}
