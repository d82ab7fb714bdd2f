package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/shop-api/controllers/response"
	"github.com/junaidrashid-git/shop-api/middleware"
	"github.com/junaidrashid-git/shop-api/services"
)

func DeleteProduct(catalog services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, _ := middleware.CurrentUserID(c)
		id, err := response.ParamID(c, "id")
		if err != nil {
			response.Error(c, err)
			return
		}

		if err := catalog.Delete(c.Request.Context(), actorID, id); err != nil {
			response.Error(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
