package userControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/shop-api/controllers/response"
	"github.com/junaidrashid-git/shop-api/middleware"
	"github.com/junaidrashid-git/shop-api/services"
)

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshInput struct {
	Refresh string `json:"refresh" binding:"required"`
}

// POST /auth/register
func Register(accounts services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.BindError(c, err)
			return
		}

		user, err := accounts.Register(c.Request.Context(), input)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

// POST /auth/login
func Login(accounts services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.BindError(c, err)
			return
		}

		pair, err := accounts.Login(c.Request.Context(), input.Username, input.Password)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, pair)
	}
}

// POST /auth/refresh
func Refresh(accounts services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RefreshInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.BindError(c, err)
			return
		}

		pair, err := accounts.Refresh(c.Request.Context(), input.Refresh)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, pair)
	}
}

// POST /auth/logout
func Logout(accounts services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)

		var input RefreshInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.BindError(c, err)
			return
		}

		if err := accounts.Logout(c.Request.Context(), userID, input.Refresh); err != nil {
			response.Error(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
