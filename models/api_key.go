// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type APIKey struct {
	ID        uint   `gorm:"primaryKey"`
	KeyID     string `gorm:"size:255;not null;uniqueIndex"`
	Token     string `gorm:"not null;uniqueIndex"`
	Name      string `gorm:"size:255;not null"`
	Revoked   bool   `gorm:"not null;default:false"`
	ExpiresAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
	UserID    uint
	User      User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (apiKey *APIKey) BeforeCreate(tx *gorm.DB) (err error) {
	if apiKey.KeyID == "" {
		apiKey.KeyID = uuid.NewString()
	}
	return
}

func init() {
	AllModels = append(AllModels, &APIKey{})
}
