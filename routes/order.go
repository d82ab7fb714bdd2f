package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/junaidrashid-git/shop-api/controllers/order"
	"github.com/junaidrashid-git/shop-api/middleware"
)

func SetupOrderRoutes(api *gin.RouterGroup, d Deps) {
	orders := api.Group("/orders")
	orders.Use(middleware.ValidateToken(d.Tokens))
	{
		orders.POST("", orderControllers.PlaceOrderHandler(d.Orders, d.Hub))
		orders.GET("", orderControllers.GetUserOrdersHandler(d.Orders))

		// websocket feed of the caller's order updates
		orders.GET("/ws", d.Hub.Handler())

		orders.GET("/:id", orderControllers.GetOrderHandler(d.Orders))
		orders.PUT("/:id", orderControllers.UpdateOrderHandler(d.Orders, d.Hub))
		orders.POST("/:id/recalculate", orderControllers.RecalculateOrderHandler(d.Orders, d.Hub))
	}
}
