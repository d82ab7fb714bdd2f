package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/junaidrashid-git/shop-api/controllers/cart"
	productcontroller "github.com/junaidrashid-git/shop-api/controllers/product"
	"github.com/junaidrashid-git/shop-api/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API-Key middleware.
func SetupAdminRoutes(api *gin.RouterGroup, d Deps) {
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey(d.AdminAPIKey))
	{
		adminGroup.GET("/products/export", productcontroller.ExportProductsToExcel(d.Catalog))
		adminGroup.POST("/products/import", productcontroller.ImportProductsFromExcel(d.Catalog))
		adminGroup.GET("/users/:user_id/cart", cartControllers.GetAdminUserCart(d.Carts))
	}
}
