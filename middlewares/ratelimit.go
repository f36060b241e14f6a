// SPDX-License-Identifier: GPL-3.0-only

package middlewares

import (
	"keyforge-server/commons"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// APIKeyRateLimiter throttles keyed traffic per presented key value,
// falling back to the caller's IP as the bucket identity. Requests without
// an API key header bypass this limiter entirely; unauthenticated traffic
// is throttled by coarser infrastructure outside this server.
func APIKeyRateLimiter() echo.MiddlewareFunc {
	limit := 10.0
	if v := commons.GetEnv("API_KEY_RATE_LIMIT_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			limit = f
		}
	}
	burst := int(limit)
	if burst < 1 {
		burst = 1
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().Header.Get(APIKeyHeader) == ""
		},
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(limit),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			if presentedKey := c.Request().Header.Get(APIKeyHeader); presentedKey != "" {
				return presentedKey, nil
			}
			return c.RealIP(), nil
		},
	})
}
