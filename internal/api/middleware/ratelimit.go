package middleware

import (
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/profileapp/profile-service/internal/api/metrics"
	"github.com/profileapp/profile-service/internal/core/domain"
	"github.com/profileapp/profile-service/internal/core/ports"
)

// RateLimit admits at most one request per session every interval. It must
// run after Session. now is injectable for tests; nil means time.Now.
func RateLimit(limiter ports.RateLimiter, interval time.Duration, now func() time.Time) echo.MiddlewareFunc {
	if now == nil {
		now = time.Now
	}
	retryAfter := strconv.Itoa(int(math.Max(1, math.Ceil(interval.Seconds()))))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var id string
			if s := SessionFrom(c); s != nil {
				id = s.ID
			}

			err := limiter.Admit(c.Request().Context(), id, now())
			switch {
			case err == nil:
				metrics.RateLimitDecisionsTotal.WithLabelValues("allow").Inc()
				return next(c)
			case errors.Is(err, domain.ErrTooManyRequests):
				metrics.RateLimitDecisionsTotal.WithLabelValues("deny").Inc()
				c.Response().Header().Set("Retry-After", retryAfter)
			case errors.Is(err, domain.ErrInvalidSession):
				metrics.RateLimitDecisionsTotal.WithLabelValues("invalid_session").Inc()
			default:
				metrics.RateLimitDecisionsTotal.WithLabelValues("error").Inc()
			}
			return err
		}
	}
}
