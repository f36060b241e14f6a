// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditAction string

const (
	APIKeyCreated AuditAction = "API_KEY_CREATED"
	APIKeyRevoked AuditAction = "API_KEY_REVOKED"
	APIKeyRotated AuditAction = "API_KEY_ROTATED"
)

type AuditLog struct {
	ID        uint              `gorm:"primaryKey"`
	Action    AuditAction       `gorm:"size:64;not null"`
	Metadata  datatypes.JSONMap `gorm:"default:null"`
	IPAddress *string           `gorm:"size:64;default:null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint
	User      User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func init() {
	AllModels = append(AllModels, &AuditLog{})
}
