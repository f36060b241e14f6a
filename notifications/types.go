// SPDX-License-Identifier: GPL-3.0-only

package notifications

type NotificationTypes string

const (
	Email NotificationTypes = "EMAIL"
)

type NotificationData struct {
	To        string         `json:"to"`
	ToName    *string        `json:"to_name,omitempty"`
	Subject   string         `json:"subject"`
	Template  string         `json:"template"`
	Variables map[string]any `json:"variables,omitempty"`
}

type NotificationProviders string

const (
	SMTP NotificationProviders = "smtp"
	Mock NotificationProviders = "mock"
)

// Email templates shipped under email_templates/ for key lifecycle events.
const (
	TemplateAPIKeyCreated = "api_key_created"
	TemplateAPIKeyRevoked = "api_key_revoked"
	TemplateAPIKeyRotated = "api_key_rotated"
)
