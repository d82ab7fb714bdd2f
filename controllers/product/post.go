package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/shop-api/controllers/response"
	"github.com/junaidrashid-git/shop-api/middleware"
	"github.com/junaidrashid-git/shop-api/services"
)

// CreateProduct creates a product owned by the caller. Accepts JSON or a
// multipart form with an optional "image" file.
func CreateProduct(catalog services.CatalogService, images ImageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID, _ := middleware.CurrentUserID(c)

		var input services.ProductInput
		if isMultipart(c) {
			if err := bindProductForm(c, &input); err != nil {
				response.Error(c, err)
				return
			}
			image, err := formImage(c, images)
			if err != nil {
				response.Error(c, err)
				return
			}
			input.Image = image
		} else if err := c.ShouldBindJSON(&input); err != nil {
			response.BindError(c, err)
			return
		}

		product, err := catalog.Create(c.Request.Context(), sellerID, input)
		if err != nil {
			if input.Image != "" {
				_ = images.Remove(input.Image)
			}
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, response.Product(c, *product))
	}
}

func bindProductForm(c *gin.Context, input *services.ProductInput) error {
	input.Name = c.PostForm("name")
	input.Description = c.PostForm("description")

	var err error
	if input.Price, err = formDecimal(c, "price"); err != nil {
		return err
	}
	if input.Stock, err = formInt(c, "stock"); err != nil {
		return err
	}
	return nil
}
