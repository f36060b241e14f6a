// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"keyforge-server/db"
	"keyforge-server/middlewares"
	"keyforge-server/models"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func paginationParams(c echo.Context) (page, pageSize int) {
	page = 1
	pageSize = 20
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && v > 0 {
		pageSize = v
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func totalPages(total int64, pageSize int) int {
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}

// GetAccessLogsHandler godoc
// @Summary      List access logs for an API key
// @Description  Returns the request trail recorded for one of the user's keys, newest first.
// @Tags         api-keys
// @Produce      json
// @Param        Authorization  header  string  true  "Bearer {token} (session_token from login)"
// @Param        key_id  path  string  true  "Public identifier of the key"
// @Param        page  query  int  false  "Page number"
// @Param        page_size  query  int  false  "Page size (max 100)"
// @Success      200 {object} AccessLogListResponse "Access logs retrieved successfully"
// @Failure      401 {object} echo.HTTPError "Unauthorized"
// @Failure      404 {object} echo.HTTPError "Not Found"
// @Failure      500 {object} echo.HTTPError "Internal Server Error"
// @Router       /v1/auth/api-keys/{key_id}/access-logs [get]
func GetAccessLogsHandler(c echo.Context) error {
	logger := c.Logger()

	userID, err := middlewares.GetAuthenticatedUserID(c)
	if err != nil {
		logger.Error("Failed to resolve authenticated user:", err)
		return echo.ErrUnauthorized
	}

	apiKey := models.APIKey{}
	err = db.Conn.Where("key_id = ? AND user_id = ?", c.Param("key_id"), userID).First(&apiKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("API key not found.")
			return &echo.HTTPError{
				Code:    http.StatusNotFound,
				Message: "API key not found",
			}
		}
		logger.Errorf("Failed to find API key: %v", err)
		return echo.ErrInternalServerError
	}

	page, pageSize := paginationParams(c)

	var total int64
	if err := db.Conn.Model(&models.AccessLog{}).Where("api_key_id = ?", apiKey.ID).Count(&total).Error; err != nil {
		logger.Errorf("Failed to count access logs: %v", err)
		return echo.ErrInternalServerError
	}

	var accessLogs []models.AccessLog
	err = db.Conn.Where("api_key_id = ?", apiKey.ID).
		Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&accessLogs).Error
	if err != nil {
		logger.Errorf("Failed to list access logs: %v", err)
		return echo.ErrInternalServerError
	}

	data := make([]AccessLogDetails, 0, len(accessLogs))
	for _, accessLog := range accessLogs {
		data = append(data, AccessLogDetails{
			Endpoint:  accessLog.Endpoint,
			Method:    accessLog.Method,
			IPAddress: accessLog.IPAddress,
			Metadata:  accessLog.Metadata,
			CreatedAt: accessLog.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, AccessLogListResponse{
		Data: data,
		Pagination: PaginationDetails{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages(total, pageSize),
		},
		Message: "Access logs retrieved successfully",
	})
}

// GetAuditLogsHandler godoc
// @Summary      List audit logs
// @Description  Returns the audit trail of key lifecycle actions taken on the user's account, newest first.
// @Tags         api-keys
// @Produce      json
// @Param        Authorization  header  string  true  "Bearer {token} (session_token from login)"
// @Param        page  query  int  false  "Page number"
// @Param        page_size  query  int  false  "Page size (max 100)"
// @Success      200 {object} AuditLogListResponse "Audit logs retrieved successfully"
// @Failure      401 {object} echo.HTTPError "Unauthorized"
// @Failure      500 {object} echo.HTTPError "Internal Server Error"
// @Router       /v1/auth/audit-logs [get]
func GetAuditLogsHandler(c echo.Context) error {
	logger := c.Logger()

	userID, err := middlewares.GetAuthenticatedUserID(c)
	if err != nil {
		logger.Error("Failed to resolve authenticated user:", err)
		return echo.ErrUnauthorized
	}

	page, pageSize := paginationParams(c)

	var total int64
	if err := db.Conn.Model(&models.AuditLog{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		logger.Errorf("Failed to count audit logs: %v", err)
		return echo.ErrInternalServerError
	}

	var auditLogs []models.AuditLog
	err = db.Conn.Where("user_id = ?", userID).
		Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&auditLogs).Error
	if err != nil {
		logger.Errorf("Failed to list audit logs: %v", err)
		return echo.ErrInternalServerError
	}

	data := make([]AuditLogDetails, 0, len(auditLogs))
	for _, auditLog := range auditLogs {
		data = append(data, AuditLogDetails{
			Action:    string(auditLog.Action),
			Metadata:  auditLog.Metadata,
			IPAddress: auditLog.IPAddress,
			CreatedAt: auditLog.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, AuditLogListResponse{
		Data: data,
		Pagination: PaginationDetails{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages(total, pageSize),
		},
		Message: "Audit logs retrieved successfully",
	})
}
