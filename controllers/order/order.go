package orderControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/shop-api/controllers/response"
	"github.com/junaidrashid-git/shop-api/middleware"
	"github.com/junaidrashid-git/shop-api/services"
)

// Notifier pushes order changes to the owner's live subscribers.
type Notifier interface {
	NotifyOrder(userID uint, order response.OrderView)
}

// POST /orders
func PlaceOrderHandler(orders services.OrderService, notifier Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)

		var req services.PlaceOrderInput
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BindError(c, err)
			return
		}

		order, err := orders.PlaceOrder(c.Request.Context(), userID, req)
		if err != nil {
			response.Error(c, err)
			return
		}

		view := response.Order(*order)
		notifier.NotifyOrder(userID, view)
		c.JSON(http.StatusCreated, view)
	}
}

// GET /orders
func GetUserOrdersHandler(orders services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)

		list, err := orders.ListOrders(c.Request.Context(), userID)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Orders(list))
	}
}

// GET /orders/:id
func GetOrderHandler(orders services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)
		orderID, err := response.ParamID(c, "id")
		if err != nil {
			response.Error(c, err)
			return
		}

		order, err := orders.Get(c.Request.Context(), userID, orderID)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Order(*order))
	}
}

// PUT /orders/:id
// Body: any of status, payment_method, delivery_location, estimated_delivery_time.
func UpdateOrderHandler(orders services.OrderService, notifier Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)
		orderID, err := response.ParamID(c, "id")
		if err != nil {
			response.Error(c, err)
			return
		}

		var req services.OrderPatch
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BindError(c, err)
			return
		}

		order, err := orders.Update(c.Request.Context(), userID, orderID, req)
		if err != nil {
			response.Error(c, err)
			return
		}

		view := response.Order(*order)
		notifier.NotifyOrder(userID, view)
		c.JSON(http.StatusOK, view)
	}
}

// POST /orders/:id/recalculate
func RecalculateOrderHandler(orders services.OrderService, notifier Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)
		orderID, err := response.ParamID(c, "id")
		if err != nil {
			response.Error(c, err)
			return
		}

		ctx := c.Request.Context()
		if _, err := orders.RecalculateTotal(ctx, userID, orderID); err != nil {
			response.Error(c, err)
			return
		}
		order, err := orders.Get(ctx, userID, orderID)
		if err != nil {
			response.Error(c, err)
			return
		}

		view := response.Order(*order)
		notifier.NotifyOrder(userID, view)
		c.JSON(http.StatusOK, view)
	}
}
