package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/legisdash/legisdash/internal/logger"
)

// Recovery turns a panic into a JSON 500 and logs it.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error().
			Str("request_id", GetRequestID(c)).
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Msg("panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": "internal"})
	})
}

// ErrorHandler answers with a JSON body when a handler recorded errors via
// c.Error without writing a response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": c.Errors.Last().Error(), "code": "internal"})
	}
}
