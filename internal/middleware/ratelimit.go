package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/notehive/notehive/internal/services"
)

// RateLimit guards metered endpoints. The identifier is the
// authenticated user id when present, otherwise the client IP.
func RateLimit(rateLimitService *services.RateLimitService, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := c.ClientIP()
		if userID, ok := CallerID(c); ok {
			identifier = strconv.FormatInt(userID, 10)
		}

		result, err := rateLimitService.Check(c.Request.Context(), identifier)
		if err != nil {
			logger.WithError(err).Error("Failed to check rate limit")
			// Continue on error to avoid blocking requests when the store is down
			c.Next()
			return
		}

		// Set rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime.UnixMilli(), 10))

		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "RATE_LIMIT_EXCEEDED",
					"message": "Rate limit exceeded. Please try again later.",
				},
				"rate_limit": gin.H{
					"limit":      result.Limit,
					"remaining":  result.Remaining,
					"reset_time": result.ResetTime.UnixMilli(),
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
