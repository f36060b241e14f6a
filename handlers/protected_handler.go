// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"keyforge-server/models"
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetProtectedDataHandler godoc
// @Summary      Sample API-key-guarded endpoint
// @Description  Returns the identity resolved from the presented API key.
// @Tags         protected
// @Produce      json
// @Param        X-API-Key  header  string  true  "API key token"
// @Success      200 {object} ProtectedDataResponse "Authenticated"
// @Failure      401 {object} echo.HTTPError "Unauthorized"
// @Failure      429 {object} echo.HTTPError "Rate limit exceeded"
// @Router       /v1/protected-data [get]
func GetProtectedDataHandler(c echo.Context) error {
	user, _ := c.Get("user").(models.User)
	apiKey, _ := c.Get("api_key").(models.APIKey)

	return c.JSON(http.StatusOK, ProtectedDataResponse{
		Message: "This data is protected by an API key",
		User:    user.Email,
		KeyID:   apiKey.KeyID,
		KeyName: apiKey.Name,
	})
}
