package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/elkisser/the-cookie-box/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", handler.Login)
		authGroup.POST("/logout", handler.Logout)
		authGroup.POST("/refresh", handler.Refresh)

		authGroup.GET("/me", middleware.AuthMiddleware(), handler.Me)
	}
}
