// SPDX-License-Identifier: GPL-3.0-only

package handlers

import "time"

// swagger:model SignupRequest
type SignupRequest struct {
	// User's email address
	// required: true
	Email string `json:"email" example:"user@example.com"`
	// User's password
	// required: true
	Password string `json:"password" example:"MySecretPassword@123"`
	// Optional full name
	FullName *string `json:"full_name" example:"John Doe"`
}

// swagger:model LoginRequest
type LoginRequest struct {
	// User's email address
	Email string `json:"email" example:"user@example.com"`
	// User's password
	Password string `json:"password" example:"MySecretPassword@123"`
}

// swagger:model AuthResponse
type AuthResponse struct {
	// Authentication session token
	// Should be used in the Authorization header as a Bearer token.
	SessionToken string `json:"session_token" example:"sample_session_token"`
	// Message indicating successful operation
	Message string `json:"message" example:"Operation successful"`
}

// swagger:model GetUserResponse
type GetUserResponse struct {
	// Email address associated with the user's account
	Email string `json:"email" example:"user@example.com"`
	// Full name of the user
	FullName *string `json:"full_name" example:"John Doe"`
	// Timestamp of when the account was created
	CreatedAt string `json:"created_at" example:"2023-10-01T12:00:00Z"`
	// Message indicating successful retrieval
	Message string `json:"message" example:"User retrieved successfully"`
}

// swagger:model CreateAPIKeyRequest
type CreateAPIKeyRequest struct {
	// Display name for the key
	// required: true
	Name string `json:"name" example:"ci-deploy"`
}

// swagger:model APIKeyDetails
type APIKeyDetails struct {
	// Public identifier of the key
	KeyID string `json:"key_id" example:"0f5fa2b3-54a6-4c8e-9c3a-8a4f4c1f2d6e"`
	// Display name of the key
	Name string `json:"name" example:"ci-deploy"`
	// Whether the key has been revoked
	Revoked bool `json:"revoked" example:"false"`
	// Expiration timestamp, null for legacy keys that never expire
	ExpiresAt *time.Time `json:"expires_at"`
	// Timestamp of when the key was created
	CreatedAt time.Time `json:"created_at"`
	// Timestamp of when the key was last updated
	UpdatedAt time.Time `json:"updated_at"`
}

// swagger:model CreateAPIKeyResponse
type CreateAPIKeyResponse struct {
	APIKeyDetails
	// The plaintext key token. Returned only once, at creation.
	Token string `json:"token" example:"ak_64_hex_characters"`
	// Message indicating successful creation
	Message string `json:"message" example:"API key created successfully"`
}

// swagger:model APIKeyListResponse
type APIKeyListResponse struct {
	// The user's API keys, tokens withheld
	Data []APIKeyDetails `json:"data"`
	// Message indicating successful retrieval
	Message string `json:"message" example:"API keys retrieved successfully"`
}

// swagger:model RevokeAPIKeyResponse
type RevokeAPIKeyResponse struct {
	APIKeyDetails
	// Message indicating successful revocation
	Message string `json:"message" example:"API key revoked successfully"`
}

// swagger:model RotateAPIKeyResponse
type RotateAPIKeyResponse struct {
	// The revoked key
	OldKey APIKeyDetails `json:"old_key"`
	// The replacement key, including its plaintext token
	NewKey CreateAPIKeyResponse `json:"new_key"`
	// Message indicating successful rotation
	Message string `json:"message" example:"API key rotated successfully"`
}

// swagger:model PaginationDetails
type PaginationDetails struct {
	// Current page number
	Page int `json:"page"`
	// Page size
	PageSize int `json:"page_size"`
	// Total number of items
	Total int64 `json:"total"`
	// Total number of pages
	TotalPages int `json:"total_pages"`
}

// swagger:model AccessLogDetails
type AccessLogDetails struct {
	// Requested endpoint path
	Endpoint string `json:"endpoint" example:"/v1/protected-data"`
	// HTTP method of the request
	Method string `json:"method" example:"GET"`
	// Caller network address
	IPAddress string `json:"ip_address" example:"203.0.113.7"`
	// Free-form request metadata
	Metadata map[string]any `json:"metadata,omitempty"`
	// Timestamp of the request
	CreatedAt time.Time `json:"created_at"`
}

// swagger:model AccessLogListResponse
type AccessLogListResponse struct {
	// Access log entries for the key, newest first
	Data []AccessLogDetails `json:"data"`
	// Pagination details
	Pagination PaginationDetails `json:"pagination"`
	// Message indicating successful retrieval
	Message string `json:"message" example:"Access logs retrieved successfully"`
}

// swagger:model AuditLogDetails
type AuditLogDetails struct {
	// Action performed
	Action string `json:"action" example:"API_KEY_CREATED"`
	// Free-form action metadata
	Metadata map[string]any `json:"metadata,omitempty"`
	// Source network address, if recorded
	IPAddress *string `json:"ip_address,omitempty"`
	// Timestamp of the action
	CreatedAt time.Time `json:"created_at"`
}

// swagger:model AuditLogListResponse
type AuditLogListResponse struct {
	// Audit entries for the user, newest first
	Data []AuditLogDetails `json:"data"`
	// Pagination details
	Pagination PaginationDetails `json:"pagination"`
	// Message indicating successful retrieval
	Message string `json:"message" example:"Audit logs retrieved successfully"`
}

// swagger:model ProtectedDataResponse
type ProtectedDataResponse struct {
	// Message confirming key authentication
	Message string `json:"message" example:"This data is protected by an API key"`
	// Email of the key owner
	User string `json:"user" example:"user@example.com"`
	// Public identifier of the presented key
	KeyID string `json:"key_id" example:"0f5fa2b3-54a6-4c8e-9c3a-8a4f4c1f2d6e"`
	// Display name of the presented key
	KeyName string `json:"key_name" example:"ci-deploy"`
}
