package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/legisdash/legisdash/internal/logger"
)

// Logger writes one structured line per request.
func Logger(log *logger.Logger) gin.HandlerFunc {
	httpLog := log.Component("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		httpLog.LogHTTPRequest(
			GetRequestID(c),
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
			GetIPAddress(c),
			GetUserAgent(c),
		)
	}
}
