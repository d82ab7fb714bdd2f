package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/junaidrashid-git/shop-api/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestID reuses the caller's X-Request-ID or generates one, stores it in
// the request context and echoes it back.
func RequestID(c *gin.Context) {
	requestID := c.GetHeader(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), requestID))
	c.Header(RequestIDHeader, requestID)
	c.Next()
}
