// SPDX-License-Identifier: GPL-3.0-only

package apikeys

import (
	"fmt"
	"keyforge-server/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AccessRecorder appends one access log entry per authenticated request.
// It returns the write error so the guard can log it, but the guard never
// fails a request over it.
type AccessRecorder struct {
	conn *gorm.DB
}

func (r *AccessRecorder) Record(apiKeyID uint, endpoint, method, ipAddress string, metadata map[string]any) error {
	accessLog := models.AccessLog{
		Endpoint:  endpoint,
		Method:    method,
		IPAddress: ipAddress,
		Metadata:  datatypes.JSONMap(metadata),
		APIKeyID:  apiKeyID,
	}
	if err := r.conn.Create(&accessLog).Error; err != nil {
		return fmt.Errorf("failed to create access log: %w", err)
	}
	return nil
}
