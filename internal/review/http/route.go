package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	resources := g.Group("/resources")

	// === Public Routes ===
	resources.GET("/:id/reviews", h.ListForResource)

	// === Authenticated Routes ===
	authed := resources.Group("")
	authed.Use(authMiddleware)
	{
		authed.POST("/:id/reviews", h.Create)
	}

	reviews := g.Group("/reviews")
	reviews.Use(authMiddleware)
	{
		reviews.DELETE("/:id", h.Delete)
	}
}
