// SPDX-License-Identifier: GPL-3.0-only

package routes

import (
	"keyforge-server/apikeys"
	"keyforge-server/commons"
	"keyforge-server/db"
	"keyforge-server/handlers"
	"keyforge-server/middlewares"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	commons.Logger.Debug("Registering v1 routes")

	apiKeyService := apikeys.NewService(db.Conn, apikeys.DefaultConfig())

	api_v1 := e.Group("/v1")
	api_v1.POST("/auth/signup", handlers.SignupHandler)
	api_v1.POST("/auth/login", handlers.LoginHandler)
	api_v1.POST("/auth/logout", handlers.LogoutHandler, middlewares.VerifySessionMiddleware)
	api_v1.GET("/auth/me", handlers.GetUserHandler, middlewares.VerifySessionMiddleware)
	api_v1.POST("/auth/api-keys", handlers.CreateAPIKeyHandler, middlewares.VerifySessionMiddleware)
	api_v1.GET("/auth/api-keys", handlers.GetAllAPIKeysHandler, middlewares.VerifySessionMiddleware)
	api_v1.DELETE("/auth/api-keys/:key_id", handlers.RevokeAPIKeyHandler, middlewares.VerifySessionMiddleware)
	api_v1.POST("/auth/api-keys/:key_id/rotate", handlers.RotateAPIKeyHandler, middlewares.VerifySessionMiddleware)
	api_v1.GET("/auth/api-keys/:key_id/access-logs", handlers.GetAccessLogsHandler, middlewares.VerifySessionMiddleware)
	api_v1.GET("/auth/audit-logs", handlers.GetAuditLogsHandler, middlewares.VerifySessionMiddleware)
	api_v1.GET("/protected-data", handlers.GetProtectedDataHandler,
		middlewares.VerifyAPIKeyMiddleware(apiKeyService),
		middlewares.APIKeyRateLimiter(),
	)

	commons.Logger.Info("v1 routes registered successfully")
}
