package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/junaidrashid-git/shop-api/controllers/cart"
	"github.com/junaidrashid-git/shop-api/middleware"
)

// SetupCartRoutes registers all "/cart/*" endpoints. Requires JWT middleware.
func SetupCartRoutes(api *gin.RouterGroup, d Deps) {
	cartGroup := api.Group("/cart")
	cartGroup.Use(middleware.ValidateToken(d.Tokens))
	{
		cartGroup.GET("", cartControllers.GetCart(d.Carts))
		cartGroup.POST("/add", cartControllers.AddCartItem(d.Carts))
		cartGroup.PUT("/update", cartControllers.UpdateCartItem(d.Carts))
		cartGroup.DELETE("/remove", cartControllers.RemoveCartItem(d.Carts))
		cartGroup.DELETE("/remove/:product_id", cartControllers.DeleteCartItem(d.Carts))
		cartGroup.POST("/checkout", cartControllers.Checkout(d.Carts, d.Hub))
	}
}
