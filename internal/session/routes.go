package session

import (
	"github.com/gin-gonic/gin"

	"github.com/elkisser/the-cookie-box/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	carts := r.Group("/cart")
	carts.Use(middleware.OptionalAuthMiddleware())
	{
		carts.GET("", handler.GetCart)
		carts.DELETE("", handler.ClearCart)

		items := carts.Group("/items")
		{
			items.POST("", handler.AddItem)
			items.PATCH("/:productId", handler.UpdateQuantity)
			items.DELETE("/:productId", handler.RemoveItem)
		}
	}

	toasts := r.Group("/notifications")
	toasts.Use(middleware.OptionalAuthMiddleware())
	{
		toasts.GET("", handler.ListNotifications)
		toasts.DELETE("/:id", handler.DismissNotification)
	}
}
