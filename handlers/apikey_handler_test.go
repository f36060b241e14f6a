// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"encoding/json"
	"fmt"
	"keyforge-server/db"
	"keyforge-server/models"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupHandlerTest(t *testing.T) (*echo.Echo, models.Session) {
	t.Helper()
	t.Setenv("MOCK_EMAIL_NOTIFICATIONS", "true")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := conn.AutoMigrate(models.AllModels...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	db.Conn = conn

	user := models.User{Email: "owner@example.com", Password: "hashed"}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	expiresAt := time.Now().Add(time.Hour)
	session := models.Session{Token: "st_handler_test", ExpiresAt: &expiresAt, UserID: user.ID}
	if err := conn.Create(&session).Error; err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	return echo.New(), session
}

func createKey(t *testing.T, e *echo.Echo, session models.Session, name string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	body := fmt.Sprintf(`{"name":%q}`, name)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/api-keys", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("session", session)
	return rec, CreateAPIKeyHandler(c)
}

func TestAPIKeyHandlersQuotaScenario(t *testing.T) {
	e, session := setupHandlerTest(t)

	var firstKeyID string
	for i, name := range []string{"a", "b", "c"} {
		rec, err := createKey(t, e, session, name)
		if err != nil {
			t.Fatalf("Creating key %q should succeed: %v", name, err)
		}
		if rec.Code != http.StatusCreated {
			t.Fatalf("Expected 201 for key %q, got %d", name, rec.Code)
		}

		var resp CreateAPIKeyResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to decode create response: %v", err)
		}
		if !strings.HasPrefix(resp.Token, "ak_") {
			t.Errorf("Create response should include the plaintext token, got %q", resp.Token)
		}
		if i == 0 {
			firstKeyID = resp.KeyID
		}
	}

	// Fourth key exceeds the default quota of three.
	_, err := createKey(t, e, session, "d")
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("Fourth key should fail with 400, got %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/v1/auth/api-keys/"+firstKeyID, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("session", session)
	c.SetParamNames("key_id")
	c.SetParamValues(firstKeyID)
	if err := RevokeAPIKeyHandler(c); err != nil {
		t.Fatalf("Revoke should succeed: %v", err)
	}
	var revokeResp RevokeAPIKeyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &revokeResp); err != nil {
		t.Fatalf("Failed to decode revoke response: %v", err)
	}
	if !revokeResp.Revoked {
		t.Error("Revoke response should report revoked=true")
	}

	if rec, err := createKey(t, e, session, "d"); err != nil || rec.Code != http.StatusCreated {
		t.Fatalf("Key creation after a revoke should succeed again, got code=%d err=%v", rec.Code, err)
	}
}

func TestGetAllAPIKeysHandlerWithholdsTokens(t *testing.T) {
	e, session := setupHandlerTest(t)

	if _, err := createKey(t, e, session, "listed"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/api-keys", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("session", session)
	if err := GetAllAPIKeysHandler(c); err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if strings.Contains(rec.Body.String(), `"token"`) {
		t.Error("List response must not contain a token field")
	}

	var resp APIKeyListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode list response: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Name != "listed" {
		t.Errorf("Unexpected list payload: %+v", resp.Data)
	}
}

func TestRotateAPIKeyHandler(t *testing.T) {
	e, session := setupHandlerTest(t)

	rec, err := createKey(t, e, session, "b")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	var created CreateAPIKeyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("Failed to decode create response: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/api-keys/"+created.KeyID+"/rotate", nil)
	rec = httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("session", session)
	c.SetParamNames("key_id")
	c.SetParamValues(created.KeyID)
	if err := RotateAPIKeyHandler(c); err != nil {
		t.Fatalf("Rotate should succeed: %v", err)
	}

	var rotated RotateAPIKeyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &rotated); err != nil {
		t.Fatalf("Failed to decode rotate response: %v", err)
	}
	if !rotated.OldKey.Revoked {
		t.Error("Old key should be revoked")
	}
	if rotated.NewKey.Name != "b" {
		t.Errorf("New key should reuse the name, got %s", rotated.NewKey.Name)
	}
	if rotated.NewKey.Token == "" || rotated.NewKey.Token == created.Token {
		t.Error("New key should carry a fresh plaintext token")
	}

	// Rotating the now revoked key again fails.
	req = httptest.NewRequest(http.MethodPost, "/v1/auth/api-keys/"+created.KeyID+"/rotate", nil)
	c = e.NewContext(req, httptest.NewRecorder())
	c.Set("session", session)
	c.SetParamNames("key_id")
	c.SetParamValues(created.KeyID)
	err = RotateAPIKeyHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Fatalf("Rotating a revoked key should return 404, got %v", err)
	}
}
