package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/shop-api/controllers/response"
	"github.com/junaidrashid-git/shop-api/services"
)

// GetProductByID returns a single product with an absolute image URL.
// URL param: /products/:id
func GetProductByID(catalog services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := response.ParamID(c, "id")
		if err != nil {
			response.Error(c, err)
			return
		}

		product, err := catalog.Get(c.Request.Context(), id)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Product(c, *product))
	}
}
