package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xpress-inn/feedback-api/errors"
	"github.com/xpress-inn/feedback-api/logger"
	"github.com/xpress-inn/feedback-api/services"
	"github.com/xpress-inn/feedback-api/types"
)

// RateLimiter limits requests per client IP within a fixed window. A
// rate-limit backend failure lets the request through rather than taking
// the endpoint down with it.
func RateLimiter(limiter services.RateLimiterInterface, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("submit:%s", c.ClientIP())

		allowed, retryAfter, err := limiter.CheckLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.GetLogger().Errorw("Rate limit check failed", "error", err, "key", key)
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			c.AbortWithStatusJSON(apperrors.RateLimited().GetHTTPStatus(), types.APIResponse{
				Success: false,
				Message: "Too many requests",
			})
			return
		}

		c.Next()
	}
}
