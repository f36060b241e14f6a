// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"keyforge-server/apikeys"
	"keyforge-server/commons"
	"keyforge-server/db"
	"keyforge-server/middlewares"
	"keyforge-server/models"
	"keyforge-server/notifications"
	"net/http"

	"github.com/labstack/echo/v4"
)

func apiKeyDetails(apiKey models.APIKey) APIKeyDetails {
	return APIKeyDetails{
		KeyID:     apiKey.KeyID,
		Name:      apiKey.Name,
		Revoked:   apiKey.Revoked,
		ExpiresAt: apiKey.ExpiresAt,
		CreatedAt: apiKey.CreatedAt,
		UpdatedAt: apiKey.UpdatedAt,
	}
}

// notifyKeyEvent emails the key owner about a lifecycle change. Delivery
// is best-effort and never affects the handler's response.
func notifyKeyEvent(c echo.Context, user *models.User, template, subject, keyName string) {
	name := user.Email
	if user.FullName != nil && *user.FullName != "" {
		name = *user.FullName
	}

	provider := notifications.NotificationProviders(commons.GetEnv("EMAIL_PROVIDER", string(notifications.SMTP)))
	err := notifications.DispatchNotification(notifications.Email, provider, notifications.NotificationData{
		To:        user.Email,
		ToName:    &name,
		Subject:   subject,
		Template:  template,
		Variables: map[string]any{
			"name":     name,
			"key_name": keyName,
		},
	})
	if err != nil {
		c.Logger().Errorf("Failed to send key lifecycle notification: %v", err)
	}
}

// CreateAPIKeyHandler godoc
// @Summary      Create an API key
// @Description  Issues a new API key for the authenticated user. The plaintext token is returned only once.
// @Tags         api-keys
// @Accept       json
// @Produce      json
// @Param        Authorization  header  string  true  "Bearer {token} (session_token from login)"
// @Param        createAPIKeyRequest  body  CreateAPIKeyRequest  true  "Create API key payload"
// @Success      201 {object} CreateAPIKeyResponse "API key created successfully"
// @Failure      400 {object} echo.HTTPError "Bad request or key quota reached"
// @Failure      401 {object} echo.HTTPError "Unauthorized"
// @Failure      500 {object} echo.HTTPError "Internal Server Error"
// @Router       /v1/auth/api-keys [post]
func CreateAPIKeyHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("Failed to resolve authenticated user:", err)
		return echo.ErrUnauthorized
	}

	var req CreateAPIKeyRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid create API key payload:", err)
		return echo.ErrBadRequest
	}

	if req.Name == "" {
		logger.Error("API key name is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "name field is required",
		}
	}

	sourceIP := c.RealIP()
	svc := apikeys.NewService(db.Conn, apikeys.DefaultConfig())
	apiKey, err := svc.Generate(user.ID, req.Name, &sourceIP)
	if err != nil {
		if errors.Is(err, apikeys.ErrQuotaExceeded) {
			logger.Error("API key quota reached.")
			return &echo.HTTPError{
				Code:    http.StatusBadRequest,
				Message: err.Error(),
			}
		}
		logger.Errorf("Failed to create API key: %v", err)
		return echo.ErrInternalServerError
	}

	notifyKeyEvent(c, user, notifications.TemplateAPIKeyCreated, "New API key created", apiKey.Name)

	return c.JSON(http.StatusCreated, CreateAPIKeyResponse{
		APIKeyDetails: apiKeyDetails(*apiKey),
		Token:         apiKey.Token,
		Message:       "API key created successfully",
	})
}

// GetAllAPIKeysHandler godoc
// @Summary      List API keys
// @Description  Lists the authenticated user's API keys. Tokens are never included.
// @Tags         api-keys
// @Produce      json
// @Param        Authorization  header  string  true  "Bearer {token} (session_token from login)"
// @Success      200 {object} APIKeyListResponse "API keys retrieved successfully"
// @Failure      401 {object} echo.HTTPError "Unauthorized"
// @Failure      500 {object} echo.HTTPError "Internal Server Error"
// @Router       /v1/auth/api-keys [get]
func GetAllAPIKeysHandler(c echo.Context) error {
	logger := c.Logger()

	userID, err := middlewares.GetAuthenticatedUserID(c)
	if err != nil {
		logger.Error("Failed to resolve authenticated user:", err)
		return echo.ErrUnauthorized
	}

	svc := apikeys.NewService(db.Conn, apikeys.DefaultConfig())
	apiKeys, err := svc.List(userID)
	if err != nil {
		logger.Errorf("Failed to list API keys: %v", err)
		return echo.ErrInternalServerError
	}

	data := make([]APIKeyDetails, 0, len(apiKeys))
	for _, apiKey := range apiKeys {
		data = append(data, apiKeyDetails(apiKey))
	}

	return c.JSON(http.StatusOK, APIKeyListResponse{
		Data:    data,
		Message: "API keys retrieved successfully",
	})
}

// RevokeAPIKeyHandler godoc
// @Summary      Revoke an API key
// @Description  Marks the key as revoked. Revoking an already revoked key succeeds.
// @Tags         api-keys
// @Produce      json
// @Param        Authorization  header  string  true  "Bearer {token} (session_token from login)"
// @Param        key_id  path  string  true  "Public identifier of the key"
// @Success      200 {object} RevokeAPIKeyResponse "API key revoked successfully"
// @Failure      401 {object} echo.HTTPError "Unauthorized"
// @Failure      404 {object} echo.HTTPError "Not Found"
// @Failure      500 {object} echo.HTTPError "Internal Server Error"
// @Router       /v1/auth/api-keys/{key_id} [delete]
func RevokeAPIKeyHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("Failed to resolve authenticated user:", err)
		return echo.ErrUnauthorized
	}

	sourceIP := c.RealIP()
	svc := apikeys.NewService(db.Conn, apikeys.DefaultConfig())
	apiKey, err := svc.Revoke(user.ID, c.Param("key_id"), &sourceIP)
	if err != nil {
		if errors.Is(err, apikeys.ErrKeyNotFound) {
			logger.Error("API key not found.")
			return &echo.HTTPError{
				Code:    http.StatusNotFound,
				Message: "API key not found",
			}
		}
		logger.Errorf("Failed to revoke API key: %v", err)
		return echo.ErrInternalServerError
	}

	notifyKeyEvent(c, user, notifications.TemplateAPIKeyRevoked, "API key revoked", apiKey.Name)

	return c.JSON(http.StatusOK, RevokeAPIKeyResponse{
		APIKeyDetails: apiKeyDetails(*apiKey),
		Message:       "API key revoked successfully",
	})
}

// RotateAPIKeyHandler godoc
// @Summary      Rotate an API key
// @Description  Revokes the key and issues a replacement with the same name. The replacement's token is returned only once.
// @Tags         api-keys
// @Produce      json
// @Param        Authorization  header  string  true  "Bearer {token} (session_token from login)"
// @Param        key_id  path  string  true  "Public identifier of the key"
// @Success      200 {object} RotateAPIKeyResponse "API key rotated successfully"
// @Failure      400 {object} echo.HTTPError "Key quota reached"
// @Failure      401 {object} echo.HTTPError "Unauthorized"
// @Failure      404 {object} echo.HTTPError "Active key not found"
// @Failure      500 {object} echo.HTTPError "Internal Server Error"
// @Router       /v1/auth/api-keys/{key_id}/rotate [post]
func RotateAPIKeyHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("Failed to resolve authenticated user:", err)
		return echo.ErrUnauthorized
	}

	sourceIP := c.RealIP()
	svc := apikeys.NewService(db.Conn, apikeys.DefaultConfig())
	rotated, err := svc.Rotate(user.ID, c.Param("key_id"), &sourceIP)
	if err != nil {
		switch {
		case errors.Is(err, apikeys.ErrActiveKeyNotFound):
			logger.Error("Active API key not found.")
			return &echo.HTTPError{
				Code:    http.StatusNotFound,
				Message: "Active API key not found",
			}
		case errors.Is(err, apikeys.ErrQuotaExceeded):
			logger.Error("API key quota reached during rotation.")
			return &echo.HTTPError{
				Code:    http.StatusBadRequest,
				Message: err.Error(),
			}
		default:
			logger.Errorf("Failed to rotate API key: %v", err)
			return echo.ErrInternalServerError
		}
	}

	notifyKeyEvent(c, user, notifications.TemplateAPIKeyRotated, "API key rotated", rotated.NewKey.Name)

	return c.JSON(http.StatusOK, RotateAPIKeyResponse{
		OldKey: apiKeyDetails(*rotated.OldKey),
		NewKey: CreateAPIKeyResponse{
			APIKeyDetails: apiKeyDetails(*rotated.NewKey),
			Token:         rotated.NewKey.Token,
			Message:       "API key created successfully",
		},
		Message: "API key rotated successfully",
	})
}
