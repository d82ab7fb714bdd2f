package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/shop-api/apperror"
	"github.com/shopspring/decimal"
)

const imageKind = "products"

// ImageStore persists uploaded product images.
type ImageStore interface {
	ImagePath(kind, filename string) (dst, public string, err error)
	Remove(publicPath string) error
}

func isMultipart(c *gin.Context) bool {
	return c.ContentType() == "multipart/form-data"
}

// formImage saves the optional "image" file of a multipart request and
// returns its public path, or "" when no file was sent.
func formImage(c *gin.Context, images ImageStore) (string, error) {
	file, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", apperror.ValidationFields(map[string]string{"image": "could not read image upload"})
	}

	dst, public, err := images.ImagePath(imageKind, file.Filename)
	if err != nil {
		return "", err
	}
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", apperror.Internal(err, "failed to save image")
	}
	return public, nil
}

func formDecimal(c *gin.Context, field string) (*decimal.Decimal, error) {
	v, ok := c.GetPostForm(field)
	if !ok || v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, apperror.ValidationFields(map[string]string{field: field + " must be a decimal number"})
	}
	return &d, nil
}

func formInt(c *gin.Context, field string) (*int, error) {
	v, ok := c.GetPostForm(field)
	if !ok || v == "" {
		return nil, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return nil, apperror.ValidationFields(map[string]string{field: field + " must be an integer"})
	}
	return &i, nil
}

func formString(c *gin.Context, field string) *string {
	if v, ok := c.GetPostForm(field); ok {
		return &v
	}
	return nil
}
