package cartControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/shop-api/apperror"
	"github.com/junaidrashid-git/shop-api/controllers/response"
	"github.com/junaidrashid-git/shop-api/middleware"
	"github.com/junaidrashid-git/shop-api/services"
)

type CartItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

type RemoveItemInput struct {
	ProductID uint `json:"product_id"`
}

// GET /cart
func GetCart(carts services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)

		cart, err := carts.ViewCart(c.Request.Context(), userID)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Cart(c, *cart))
	}
}

// POST /cart/add
func AddCartItem(carts services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.BindError(c, err)
			return
		}

		cart, err := carts.AddItem(c.Request.Context(), userID, input.ProductID, input.Quantity)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, response.Cart(c, *cart))
	}
}

// PUT /cart/update
func UpdateCartItem(carts services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.BindError(c, err)
			return
		}

		cart, err := carts.UpdateItemQuantity(c.Request.Context(), userID, input.ProductID, input.Quantity)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Cart(c, *cart))
	}
}

// removeTarget reads product_id from the query string, falling back to a
// JSON body.
func removeTarget(c *gin.Context) (uint, error) {
	if v := c.Query("product_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil || id == 0 {
			return 0, apperror.Validation("invalid product_id")
		}
		return uint(id), nil
	}

	var input RemoveItemInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			return 0, apperror.Validation("invalid request body: %v", err)
		}
	}
	if input.ProductID == 0 {
		return 0, apperror.ValidationFields(map[string]string{"product_id": "product_id is required"})
	}
	return input.ProductID, nil
}

// DELETE /cart/remove
func RemoveCartItem(carts services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)

		productID, err := removeTarget(c)
		if err != nil {
			response.Error(c, err)
			return
		}

		cart, err := carts.RemoveItem(c.Request.Context(), userID, productID)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Cart(c, *cart))
	}
}

// DELETE /cart/remove/:product_id
func DeleteCartItem(carts services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)

		productID, err := response.ParamID(c, "product_id")
		if err != nil {
			response.Error(c, err)
			return
		}

		if _, err := carts.RemoveItem(c.Request.Context(), userID, productID); err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
	}
}

// GET /admin/users/:user_id/cart
func GetAdminUserCart(carts services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := response.ParamID(c, "user_id")
		if err != nil {
			response.Error(c, err)
			return
		}

		cart, err := carts.FindCart(c.Request.Context(), userID)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Cart(c, *cart))
	}
}
