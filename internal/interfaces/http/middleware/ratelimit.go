package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/contactbook/backend/internal/infrastructure/ratelimit"
	"github.com/contactbook/backend/internal/interfaces/http/dto"
)

// RateLimitKeyFunc extracts the rate-limit key for a request
type RateLimitKeyFunc func(*gin.Context) string

// KeyByUser keys the limit by the authenticated user, falling back to the
// client IP when the request is unauthenticated
func KeyByUser(c *gin.Context) string {
	if userID := GetJWTUserID(c); userID != 0 {
		return "user:" + strconv.FormatUint(uint64(userID), 10)
	}
	return "ip:" + c.ClientIP()
}

// KeyByIP keys the limit by client IP
func KeyByIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// RateLimit returns a middleware enforcing the given limiter, keyed per
// caller by keyFunc. Limiter failures are logged and let the request pass.
func RateLimit(limiter ratelimit.Limiter, keyFunc RateLimitKeyFunc, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := limiter.Allow(c.Request.Context(), keyFunc(c))
		if err != nil {
			if logger != nil {
				logger.Error("Rate limit check failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
			}
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			retryAfter := int((decision.RetryAfter + time.Second - 1) / time.Second)
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(
				dto.ErrCodeRateLimited,
				"Too many requests. Please try again later.",
			))
			return
		}

		c.Next()
	}
}
