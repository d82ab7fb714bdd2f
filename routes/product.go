package routes

import (
	"github.com/gin-gonic/gin"
	productcontroller "github.com/junaidrashid-git/shop-api/controllers/product"
	"github.com/junaidrashid-git/shop-api/middleware"
)

func SetupProductRoutes(api *gin.RouterGroup, d Deps) {
	products := api.Group("/products")
	{
		products.GET("", productcontroller.GetProducts(d.Catalog))
		products.GET("/:id", productcontroller.GetProductByID(d.Catalog))
	}

	sellers := products.Group("")
	sellers.Use(middleware.ValidateToken(d.Tokens))
	{
		sellers.POST("", productcontroller.CreateProduct(d.Catalog, d.Images))
		sellers.PUT("/:id", productcontroller.UpdateProduct(d.Catalog, d.Images))
		sellers.DELETE("/:id", productcontroller.DeleteProduct(d.Catalog))
	}
}
