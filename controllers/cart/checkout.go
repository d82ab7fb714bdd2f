package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/shop-api/controllers/response"
	"github.com/junaidrashid-git/shop-api/middleware"
	"github.com/junaidrashid-git/shop-api/services"
)

// OrderNotifier pushes order changes to the owner's live subscribers.
type OrderNotifier interface {
	NotifyOrder(userID uint, order response.OrderView)
}

// POST /cart/checkout
func Checkout(carts services.CartService, notifier OrderNotifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)

		var input services.CheckoutInput
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&input); err != nil {
				response.BindError(c, err)
				return
			}
		}

		order, err := carts.Checkout(c.Request.Context(), userID, input)
		if err != nil {
			response.Error(c, err)
			return
		}

		view := response.Order(*order)
		notifier.NotifyOrder(userID, view)
		c.JSON(http.StatusCreated, view)
	}
}
