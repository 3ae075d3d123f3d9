package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ContextIPAddress = "ip_address"
	ContextUserAgent = "user_agent"
)

// ClientInfo records the caller's address and user agent for request logs.
func ClientInfo() gin.HandlerFunc {
	return func(c *gin.Context) {
		// X-Forwarded-For first, the dashboard usually sits behind a proxy
		ipAddress := c.GetHeader("X-Forwarded-For")
		if ipAddress == "" {
			ipAddress = c.GetHeader("X-Real-IP")
		}
		if ipAddress == "" {
			ipAddress = c.ClientIP()
		}
		if idx := strings.Index(ipAddress, ","); idx != -1 {
			ipAddress = strings.TrimSpace(ipAddress[:idx])
		}

		c.Set(ContextIPAddress, ipAddress)
		c.Set(ContextUserAgent, c.GetHeader("User-Agent"))

		c.Next()
	}
}

func GetIPAddress(c *gin.Context) string {
	if ip, ok := c.Get(ContextIPAddress); ok {
		if s, ok := ip.(string); ok {
			return s
		}
	}
	return c.ClientIP()
}

func GetUserAgent(c *gin.Context) string {
	return c.GetString(ContextUserAgent)
}
