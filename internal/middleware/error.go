package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "powcost/internal/errors"
	"powcost/internal/logger"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RenderError writes err as {"error":{"code","message"}}. AppErrors keep
// their status; anything else is logged and rendered as INTERNAL_ERROR so
// internal details never reach the client.
func RenderError(c *gin.Context, err error) {
	log := logger.Named("http")

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		log.Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		appErr = apperrors.ErrInternalServer
	} else if appErr.Internal != nil {
		log.Errorw("app error",
			"code", appErr.Code,
			"message", appErr.Message,
			"internal", appErr.Internal.Error(),
			"path", c.Request.URL.Path,
		)
	}

	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"error": ErrorBody{Code: appErr.Code, Message: appErr.Message},
	})
}

// ErrorHandler returns a Gin middleware that renders the last error attached
// to the context with c.Error, unless a response was already written.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		RenderError(c, c.Errors.Last().Err)
	}
}
