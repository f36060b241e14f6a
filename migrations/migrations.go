// SPDX-License-Identifier: GPL-3.0-only

package migrations

import (
	"fmt"
	"time"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func List() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			// Keys created before expiration was introduced carry a NULL
			// expires_at, which validation treats as "never expires". Give
			// them a 30 day deadline so they age out like new keys.
			ID: "001_backfill_api_key_expirations",
			Migrate: func(tx *gorm.DB) error {
				thirtyDaysFromNow := time.Now().Add(30 * 24 * time.Hour)
				if err := tx.Table("api_keys").
					Where("expires_at IS NULL").
					Update("expires_at", thirtyDaysFromNow).Error; err != nil {
					return fmt.Errorf("failed to backfill api key expirations: %w", err)
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Table("api_keys").
					Where("expires_at IS NOT NULL").
					Update("expires_at", nil).Error
			},
		},
	}
}
