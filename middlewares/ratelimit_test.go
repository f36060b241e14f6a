// SPDX-License-Identifier: GPL-3.0-only

package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestAPIKeyRateLimiter(t *testing.T) {
	t.Setenv("API_KEY_RATE_LIMIT_PER_SECOND", "1")

	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	handler := APIKeyRateLimiter()(next)

	do := func(key string) error {
		req := httptest.NewRequest(http.MethodGet, "/v1/protected-data", nil)
		if key != "" {
			req.Header.Set(APIKeyHeader, key)
		}
		return handler(e.NewContext(req, httptest.NewRecorder()))
	}

	t.Run("keyed traffic is limited per key", func(t *testing.T) {
		if err := do("ak_first"); err != nil {
			t.Fatalf("First request should pass: %v", err)
		}

		err := do("ak_first")
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusTooManyRequests {
			t.Fatalf("Second burst request should be limited, got %v", err)
		}

		// A different key gets its own bucket.
		if err := do("ak_second"); err != nil {
			t.Fatalf("Different key should not share the exhausted bucket: %v", err)
		}
	})

	t.Run("requests without a key bypass the limiter", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			if err := do(""); err != nil {
				t.Fatalf("Keyless request %d should bypass limiting: %v", i, err)
			}
		}
	})
}

func TestAPIKeyRateLimiterFractionalRate(t *testing.T) {
	t.Setenv("API_KEY_RATE_LIMIT_PER_SECOND", "0.5")

	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	handler := APIKeyRateLimiter()(next)

	// A sub-1 rate must still admit a single request; burst never
	// truncates to zero.
	req := httptest.NewRequest(http.MethodGet, "/v1/protected-data", nil)
	req.Header.Set(APIKeyHeader, "ak_slow")
	if err := handler(e.NewContext(req, httptest.NewRecorder())); err != nil {
		t.Fatalf("First request under a fractional rate should pass: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/protected-data", nil)
	req.Header.Set(APIKeyHeader, "ak_slow")
	err := handler(e.NewContext(req, httptest.NewRecorder()))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusTooManyRequests {
		t.Fatalf("Second immediate request should be limited, got %v", err)
	}
}
