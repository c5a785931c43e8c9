package catalog

import (
	"github.com/gin-gonic/gin"

	"github.com/elkisser/the-cookie-box/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	products := r.Group("/products")
	{
		products.GET("",
			middleware.RateLimitByIP(10, 20),
			handler.ListPublic,
		)
		products.GET("/:id",
			middleware.RateLimitByIP(5, 10),
			handler.Get,
		)
	}

	admin := r.Group("/admin/products")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.RoleMiddleware("ADMIN"))
	{
		admin.GET("", handler.ListAdmin)
		admin.GET("/:id", handler.Get)

		mutationLimit := middleware.RateLimitByUser(1, 3)
		admin.POST("", mutationLimit, handler.Create)
		admin.PATCH("/:id", mutationLimit, handler.Update)
		admin.DELETE("/:id", mutationLimit, handler.Delete)
		admin.PATCH("/:id/restore", mutationLimit, handler.Restore)
	}
}
