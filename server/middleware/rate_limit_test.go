package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(1, 2)

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("burst of 2 should admit two immediate requests")
	}
	if rl.Allow("a") {
		t.Error("third immediate request should be rejected")
	}
	if !rl.Allow("b") {
		t.Error("keys are limited independently")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(NewRateLimiter(1, 1).Middleware())
	e.GET("/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do(); code != http.StatusOK {
		t.Fatalf("first request = %d, want 200", code)
	}
	if code := do(); code != http.StatusTooManyRequests {
		t.Errorf("second request = %d, want 429", code)
	}
}
