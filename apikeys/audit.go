// SPDX-License-Identifier: GPL-3.0-only

package apikeys

import (
	"keyforge-server/commons"
	"keyforge-server/models"
	"keyforge-server/rabbitmq"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditRecorder appends audit entries for key lifecycle mutations and
// fans them out to the AMQP audit stream when one is configured. Writes
// are best-effort: a failed append is logged and never rolls back the
// mutation that already committed.
type AuditRecorder struct {
	conn *gorm.DB
}

func (r *AuditRecorder) Record(userID uint, action models.AuditAction, metadata map[string]any, sourceIP *string) {
	auditLog := models.AuditLog{
		Action:    action,
		Metadata:  datatypes.JSONMap(metadata),
		IPAddress: sourceIP,
		UserID:    userID,
	}

	if err := r.conn.Create(&auditLog).Error; err != nil {
		commons.Logger.Errorf("Failed to write audit log for action %s: %v", action, err)
	}

	if !rabbitmq.Enabled() {
		return
	}
	event := rabbitmq.AuditEvent{
		UserID:    userID,
		Action:    string(action),
		Metadata:  metadata,
		IPAddress: sourceIP,
		CreatedAt: time.Now().UTC(),
	}
	if err := rabbitmq.PublishAuditEvent(event); err != nil {
		commons.Logger.Errorf("Failed to publish audit event for action %s: %v", action, err)
	}
}
