package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/shop-api/controllers/response"
	"github.com/junaidrashid-git/shop-api/middleware"
	"github.com/junaidrashid-git/shop-api/services"
)

// UpdateProduct partially updates a product the caller sells. Accepts JSON
// or a multipart form with an optional replacement "image".
func UpdateProduct(catalog services.CatalogService, images ImageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, _ := middleware.CurrentUserID(c)
		id, err := response.ParamID(c, "id")
		if err != nil {
			response.Error(c, err)
			return
		}

		var patch services.ProductPatch
		if isMultipart(c) {
			if err := bindPatchForm(c, &patch); err != nil {
				response.Error(c, err)
				return
			}
			image, err := formImage(c, images)
			if err != nil {
				response.Error(c, err)
				return
			}
			if image != "" {
				patch.Image = &image
			}
		} else if err := c.ShouldBindJSON(&patch); err != nil {
			response.BindError(c, err)
			return
		}

		product, err := catalog.Update(c.Request.Context(), actorID, id, patch)
		if err != nil {
			if patch.Image != nil {
				_ = images.Remove(*patch.Image)
			}
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Product(c, *product))
	}
}

func bindPatchForm(c *gin.Context, patch *services.ProductPatch) error {
	patch.Name = formString(c, "name")
	patch.Description = formString(c, "description")

	var err error
	if patch.Price, err = formDecimal(c, "price"); err != nil {
		return err
	}
	if patch.Stock, err = formInt(c, "stock"); err != nil {
		return err
	}
	return nil
}
