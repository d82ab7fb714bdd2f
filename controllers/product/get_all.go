package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/shop-api/apperror"
	"github.com/junaidrashid-git/shop-api/controllers/response"
	"github.com/junaidrashid-git/shop-api/services"
	"github.com/shopspring/decimal"
)

func queryDecimal(c *gin.Context, name string) (*decimal.Decimal, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, apperror.Validation("invalid %s", name)
	}
	return &d, nil
}

// GetProducts lists the catalog. Query: search, min_price, max_price, seller_id.
func GetProducts(catalog services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := services.ProductFilter{Search: c.Query("search")}

		var err error
		if filter.MinPrice, err = queryDecimal(c, "min_price"); err != nil {
			response.Error(c, err)
			return
		}
		if filter.MaxPrice, err = queryDecimal(c, "max_price"); err != nil {
			response.Error(c, err)
			return
		}
		if v := c.Query("seller_id"); v != "" {
			sellerID, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				response.Error(c, apperror.Validation("invalid seller_id"))
				return
			}
			filter.SellerID = uint(sellerID)
		}

		products, err := catalog.List(c.Request.Context(), filter)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Products(c, products))
	}
}
