package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/users")

	group.POST("", h.Register)
	group.POST("/login", h.Login)

	authed := group.Group("")
	authed.Use(authMiddleware)
	{
		authed.GET("/me", h.Me)
		authed.PATCH("/:id/suspended", h.SetSuspended)
		authed.PATCH("/:id/role", h.SetRole)
	}
}
