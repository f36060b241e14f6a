// SPDX-License-Identifier: GPL-3.0-only

package rabbitmq

import (
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// AuditEvent is the wire shape published to the audit exchange. It mirrors
// the persisted audit log row so downstream consumers (SIEM, alerting)
// need no database access.
type AuditEvent struct {
	UserID    uint           `json:"user_id"`
	Action    string         `json:"action"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	IPAddress *string        `json:"ip_address,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
