// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"

	"gorm.io/datatypes"
)

// AccessLog records a single authenticated request made with an API key.
// Rows are append-only, created once and never updated.
type AccessLog struct {
	ID        uint              `gorm:"primaryKey"`
	Endpoint  string            `gorm:"size:255;not null"`
	Method    string            `gorm:"size:16;not null"`
	IPAddress string            `gorm:"size:64;not null"`
	Metadata  datatypes.JSONMap `gorm:"default:null"`
	CreatedAt time.Time
	APIKeyID  uint
	APIKey    APIKey `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func init() {
	AllModels = append(AllModels, &AccessLog{})
}
