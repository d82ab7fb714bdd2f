package userControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/shop-api/controllers/response"
	"github.com/junaidrashid-git/shop-api/middleware"
	"github.com/junaidrashid-git/shop-api/services"
)

// GET /auth/profile
func GetUser(accounts services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)

		user, err := accounts.Profile(c.Request.Context(), userID)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// PUT /auth/profile
func UpdateUser(accounts services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)

		var input services.ProfilePatch
		if err := c.ShouldBindJSON(&input); err != nil {
			response.BindError(c, err)
			return
		}

		user, err := accounts.UpdateProfile(c.Request.Context(), userID, input)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
