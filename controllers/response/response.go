package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/shop-api/apperror"
	"github.com/junaidrashid-git/shop-api/validation"
)

var statusByKind = map[apperror.Kind]int{
	apperror.KindValidation: http.StatusBadRequest,
	apperror.KindAuth:       http.StatusUnauthorized,
	apperror.KindForbidden:  http.StatusForbidden,
	apperror.KindNotFound:   http.StatusNotFound,
	apperror.KindInternal:   http.StatusInternalServerError,
}

func Status(err error) int {
	return statusByKind[apperror.KindOf(err)]
}

// Error writes err as a JSON error body and aborts the chain. Internal
// failures are attached to the gin context for the request logger and the
// client only sees a generic message.
func Error(c *gin.Context, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.AbortWithStatusJSON(status, gin.H{"error": "internal server error"})
		return
	}

	body := gin.H{"error": err.Error()}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		body["error"] = appErr.Message
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		}
	}
	c.AbortWithStatusJSON(status, body)
}

// BindError reports a request that could not be decoded or validated.
func BindError(c *gin.Context, err error) {
	Error(c, validation.FromError(err))
}
