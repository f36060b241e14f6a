// SPDX-License-Identifier: GPL-3.0-only

package middlewares

import (
	"keyforge-server/apikeys"
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIKeyHeader carries the presented key on guarded routes.
const APIKeyHeader = "X-API-Key"

// VerifyAPIKeyMiddleware authenticates requests by API key. The access log
// entry is written before the request is handed downstream so the trail
// stays complete under concurrent identical requests, but a failed log
// write never fails the request itself.
func VerifyAPIKeyMiddleware(svc *apikeys.Service) func(echo.HandlerFunc) echo.HandlerFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			logger := c.Logger()

			presentedKey := c.Request().Header.Get(APIKeyHeader)
			if presentedKey == "" {
				logger.Error("API key header missing.")
				return &echo.HTTPError{
					Code:    http.StatusUnauthorized,
					Message: "API key is required",
				}
			}

			apiKey, err := svc.Validate(presentedKey)
			if err != nil {
				logger.Errorf("API key validation failed: %v", err)
				return echo.ErrInternalServerError
			}
			if apiKey == nil {
				logger.Error("Invalid or expired API key presented.")
				return &echo.HTTPError{
					Code:    http.StatusUnauthorized,
					Message: "Invalid or expired API key",
				}
			}

			err = svc.Access.Record(apiKey.ID, c.Request().URL.Path, c.Request().Method, c.RealIP(), map[string]any{
				"user_agent": c.Request().UserAgent(),
			})
			if err != nil {
				logger.Errorf("Failed to write access log: %v", err)
			}

			c.Set("user", apiKey.User)
			c.Set("api_key", *apiKey)
			return next(c)
		}
	}
}
