package middlewares

import (
	"net"
	"net/http"
	"strconv"

	"github.com/calloway/itemvault/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

// RateLimit guards the credential endpoints against brute force. The limiter
// decides; this just derives the key and shapes the 429.
func RateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), clientIP(c))

		if err != nil {
			// the limiter failed open; let the request through
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(60))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "RATE_LIMITED",
				"message": "Too many requests. Please try again shortly.",
			})
			return
		}

		c.Next()
	}
}

func clientIP(c *gin.Context) string {
	ip := c.ClientIP()

	host, _, err := net.SplitHostPort(ip)

	if err == nil && host != "" {
		return host
	}

	return ip
}
