package routes

import (
	"github.com/gin-gonic/gin"
	userControllers "github.com/junaidrashid-git/shop-api/controllers/user"
	"github.com/junaidrashid-git/shop-api/middleware"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(api *gin.RouterGroup, d Deps) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", userControllers.Register(d.Auth))
		authGroup.POST("/login", userControllers.Login(d.Auth))
		authGroup.POST("/refresh", userControllers.Refresh(d.Auth))
	}

	protected := authGroup.Group("")
	protected.Use(middleware.ValidateToken(d.Tokens))
	{
		protected.POST("/logout", userControllers.Logout(d.Auth))
		protected.GET("/profile", userControllers.GetUser(d.Auth))
		protected.PUT("/profile", userControllers.UpdateUser(d.Auth))
	}
}
