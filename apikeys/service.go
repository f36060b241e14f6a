// SPDX-License-Identifier: GPL-3.0-only

package apikeys

import (
	"errors"
	"fmt"
	"keyforge-server/commons"
	"keyforge-server/crypto"
	"keyforge-server/models"
	"strconv"
	"time"

	"gorm.io/gorm"
)

const (
	// TokenPrefix marks every issued key so presented values can be told
	// apart from session tokens at a glance.
	TokenPrefix = "ak_"

	// tokenBytes gives 256 bits of entropy per token; uniqueness rests on
	// the generator, not on retry-on-collision.
	tokenBytes = 32

	defaultMaxKeysPerUser = 3
	keyLifetime           = 30 * 24 * time.Hour
)

type Config struct {
	MaxKeysPerUser int
}

// DefaultConfig reads MAX_API_KEYS_PER_USER once; the value is fixed for
// the lifetime of the service it is passed to.
func DefaultConfig() Config {
	maxKeys := defaultMaxKeysPerUser
	if v := commons.GetEnv("MAX_API_KEYS_PER_USER"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			maxKeys = i
		}
	}
	return Config{MaxKeysPerUser: maxKeys}
}

// Service owns the API key lifecycle: issuing under a per-user quota,
// validation, revocation and rotation. The database is the only shared
// state; concurrent Generate calls for one user can race the quota check
// and transiently exceed the maximum by one.
type Service struct {
	conn   *gorm.DB
	cfg    Config
	Audit  *AuditRecorder
	Access *AccessRecorder
}

func NewService(conn *gorm.DB, cfg Config) *Service {
	return &Service{
		conn:   conn,
		cfg:    cfg,
		Audit:  &AuditRecorder{conn: conn},
		Access: &AccessRecorder{conn: conn},
	}
}

type RotatedKeys struct {
	OldKey *models.APIKey
	NewKey *models.APIKey
}

// Generate issues a new key for the user, expiring in 30 days. The
// returned record is the only place the plaintext token is ever exposed.
func (s *Service) Generate(userID uint, name string, sourceIP *string) (*models.APIKey, error) {
	apiKey, err := s.generate(userID, name)
	if err != nil {
		return nil, err
	}

	s.Audit.Record(userID, models.APIKeyCreated, map[string]any{
		"key_id": apiKey.KeyID,
		"name":   apiKey.Name,
	}, sourceIP)

	return apiKey, nil
}

func (s *Service) generate(userID uint, name string) (*models.APIKey, error) {
	var activeKeys int64
	err := s.conn.Model(&models.APIKey{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Count(&activeKeys).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count active API keys: %w", err)
	}

	if activeKeys >= int64(s.cfg.MaxKeysPerUser) {
		return nil, fmt.Errorf("%w: user cannot have more than %d active API keys",
			ErrQuotaExceeded, s.cfg.MaxKeysPerUser)
	}

	token, err := crypto.GenerateRandomString(TokenPrefix, tokenBytes, "hex")
	if err != nil {
		return nil, fmt.Errorf("failed to generate API key token: %w", err)
	}

	expiresAt := time.Now().Add(keyLifetime)
	apiKey := models.APIKey{
		Token:     token,
		Name:      name,
		ExpiresAt: &expiresAt,
		UserID:    userID,
	}

	if err := s.conn.Create(&apiKey).Error; err != nil {
		return nil, fmt.Errorf("failed to create API key: %w", err)
	}

	return &apiKey, nil
}

// List returns all of the user's keys in creation order with the token
// redacted; the plaintext token is never shown again after Generate.
func (s *Service) List(userID uint) ([]models.APIKey, error) {
	var apiKeys []models.APIKey
	err := s.conn.Where("user_id = ?", userID).Order("id ASC").Find(&apiKeys).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list API keys: %w", err)
	}

	for i := range apiKeys {
		apiKeys[i].Token = ""
	}
	return apiKeys, nil
}

// Revoke marks the key revoked. Revoking an already revoked key succeeds
// and restates revoked=true; the flag never goes back to false.
func (s *Service) Revoke(userID uint, keyID string, sourceIP *string) (*models.APIKey, error) {
	apiKey := models.APIKey{}
	err := s.conn.Where("key_id = ? AND user_id = ?", keyID, userID).First(&apiKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to find API key: %w", err)
	}

	apiKey.Revoked = true
	if err := s.conn.Save(&apiKey).Error; err != nil {
		return nil, fmt.Errorf("failed to revoke API key: %w", err)
	}

	s.Audit.Record(userID, models.APIKeyRevoked, map[string]any{
		"key_id": apiKey.KeyID,
	}, sourceIP)

	apiKey.Token = ""
	return &apiKey, nil
}

// Rotate revokes the key and issues a replacement with the same name. The
// two writes are independent round-trips: once the revoke commits the old
// token stops validating, even if issuing the replacement then fails. In
// that case the caller gets the error and the user is left one key short.
func (s *Service) Rotate(userID uint, keyID string, sourceIP *string) (*RotatedKeys, error) {
	oldKey := models.APIKey{}
	err := s.conn.Where("key_id = ? AND user_id = ? AND revoked = ?", keyID, userID, false).
		First(&oldKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActiveKeyNotFound
		}
		return nil, fmt.Errorf("failed to find API key: %w", err)
	}

	oldKey.Revoked = true
	if err := s.conn.Save(&oldKey).Error; err != nil {
		return nil, fmt.Errorf("failed to revoke API key: %w", err)
	}

	newKey, err := s.generate(userID, oldKey.Name)
	if err != nil {
		commons.Logger.Errorf("API key %s revoked but replacement could not be issued: %v", oldKey.KeyID, err)
		return nil, err
	}

	s.Audit.Record(userID, models.APIKeyRotated, map[string]any{
		"old_key_id": oldKey.KeyID,
		"new_key_id": newKey.KeyID,
	}, sourceIP)

	oldKey.Token = ""
	return &RotatedKeys{OldKey: &oldKey, NewKey: newKey}, nil
}

// Validate resolves a presented token to its key record, with the owning
// user preloaded. A miss of any kind (unknown token, revoked, expired)
// returns nil without an error; only store failures are errors.
func (s *Service) Validate(token string) (*models.APIKey, error) {
	apiKey := models.APIKey{}
	err := s.conn.Preload("User").
		Where("token = ? AND revoked = ?", token, false).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		First(&apiKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to validate API key: %w", err)
	}
	return &apiKey, nil
}
