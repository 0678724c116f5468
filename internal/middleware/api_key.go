package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "powcost/internal/errors"
)

// APIKeyHeader carries the shared key of the local shell.
const APIKeyHeader = "X-API-Key"

// APIKeyAuth returns a Gin middleware that validates the X-API-Key header
// against apiKey. An empty apiKey disables the check.
func APIKeyAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}
		key := c.GetHeader(APIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			RenderError(c, apperrors.ErrInvalidAPIKey)
			return
		}
		c.Next()
	}
}
