package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/megasena-sim/internal/services"
	"github.com/stitts-dev/megasena-sim/pkg/utils"
)

// RateLimit rejects clients that exceed their request budget with 429.
func RateLimit(limiter *services.ClientRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			utils.SendTooManyRequests(c, "Too many requests, slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}
