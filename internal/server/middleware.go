package server

import (
	"math"
	"net/http"
	"strconv"

	"github.com/Achorval/Voouch-Api-sub001/internal/observability/logger"
	"github.com/Achorval/Voouch-Api-sub001/pkg/apperror"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	ErrRateLimited        = apperror.RateLimited("rate_limited")
	ErrServiceUnavailable = apperror.Unavailable("service_unavailable")
)

// WriteRateLimit throttles mutating admin requests per client IP. Reads are
// never limited.
func (s *Server) WriteRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Enabled() || c.Request.Method == http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		res, err := s.limiter.Allow(ctx, c.ClientIP())
		if err != nil {
			logger.FromContext(ctx).Warn("admin rate limit check failed", zap.Error(err))
			AbortWithError(c, ErrServiceUnavailable)
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if !res.Allowed {
			seconds := int(math.Ceil(res.RetryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			AbortWithError(c, ErrRateLimited)
			return
		}

		c.Next()
	}
}
