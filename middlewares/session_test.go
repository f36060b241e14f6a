// SPDX-License-Identifier: GPL-3.0-only

package middlewares

import (
	"keyforge-server/commons"
	"keyforge-server/db"
	"keyforge-server/models"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func signSessionJWT(t *testing.T, session models.Session) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "https://keyforge.dev",
		"iat": time.Now().Unix(),
		"sub": session.UserID,
		"jti": session.Token,
		"sid": session.ID,
		"uid": session.UserID,
		"exp": session.ExpiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte(commons.GetEnv("JWT_SECRET", "default_very_secret_key")))
	if err != nil {
		t.Fatalf("Failed to sign test JWT: %v", err)
	}
	return signed
}

func TestVerifySessionMiddleware(t *testing.T) {
	conn := newTestDB(t)
	db.Conn = conn

	user := models.User{Email: "session@example.com", Password: "hashed"}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	expiresAt := time.Now().Add(time.Hour)
	session := models.Session{Token: "st_testtoken", ExpiresAt: &expiresAt, UserID: user.ID}
	if err := conn.Create(&session).Error; err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	handler := VerifySessionMiddleware(next)

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
		c := e.NewContext(req, httptest.NewRecorder())

		err := handler(c)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusUnauthorized {
			t.Fatalf("Expected 401 without Authorization header, got %v", err)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		c := e.NewContext(req, httptest.NewRecorder())

		err := handler(c)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusUnauthorized {
			t.Fatalf("Expected 401 for garbage token, got %v", err)
		}
	})

	t.Run("valid session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+signSessionJWT(t, session))
		c := e.NewContext(req, httptest.NewRecorder())

		if err := handler(c); err != nil {
			t.Fatalf("Valid session should pass: %v", err)
		}

		ctxSession, ok := c.Get("session").(models.Session)
		if !ok || ctxSession.ID != session.ID {
			t.Error("Middleware should attach the session to the request context")
		}

		resolved, err := GetAuthenticatedUser(c)
		if err != nil {
			t.Fatalf("GetAuthenticatedUser failed: %v", err)
		}
		if resolved.Email != user.Email {
			t.Errorf("Expected user %s, got %s", user.Email, resolved.Email)
		}
	})

	t.Run("expired session", func(t *testing.T) {
		pastExpiry := time.Now().Add(-time.Hour)
		expiredSession := models.Session{Token: "st_expired", ExpiresAt: &pastExpiry, UserID: user.ID}
		if err := conn.Create(&expiredSession).Error; err != nil {
			t.Fatalf("Failed to create expired session: %v", err)
		}

		// The JWT itself must still verify so the store lookup is what fails.
		withFutureExp := expiredSession
		futureExp := time.Now().Add(time.Hour)
		withFutureExp.ExpiresAt = &futureExp

		req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+signSessionJWT(t, withFutureExp))
		c := e.NewContext(req, httptest.NewRecorder())

		err := handler(c)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusUnauthorized {
			t.Fatalf("Expected 401 for expired session, got %v", err)
		}
	})

	t.Run("session without expiry", func(t *testing.T) {
		bareSession := models.Session{Token: "st_noexpiry", UserID: user.ID}
		if err := conn.Create(&bareSession).Error; err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}

		withExp := bareSession
		futureExp := time.Now().Add(time.Hour)
		withExp.ExpiresAt = &futureExp

		req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+signSessionJWT(t, withExp))
		c := e.NewContext(req, httptest.NewRecorder())

		err := handler(c)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusUnauthorized {
			t.Fatalf("Expected 401 for a session without expiry, got %v", err)
		}
	})
}
