package middleware

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func newLimitedApp(t *testing.T, cache *redis.Client) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Post("/otp", OTPSendRateLimit(cache, 3), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func sendOTP(t *testing.T, app *fiber.App, identifier string) int {
	t.Helper()
	form := url.Values{"identifier": {identifier}}
	req := httptest.NewRequest("POST", "/otp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestOTPSendRateLimit(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := newLimitedApp(t, cache)

	for i := 0; i < 3; i++ {
		if got := sendOTP(t, app, "asha@example.com"); got != fiber.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, got)
		}
	}
	if got := sendOTP(t, app, "asha@example.com"); got != fiber.StatusTooManyRequests {
		t.Fatalf("expected 429 over the limit, got %d", got)
	}

	// A different identifier keeps its own budget.
	if got := sendOTP(t, app, "9876543210"); got != fiber.StatusOK {
		t.Fatalf("other identifier should pass, got %d", got)
	}

	// Identifiers are case-insensitive.
	if got := sendOTP(t, app, "ASHA@example.com"); got != fiber.StatusTooManyRequests {
		t.Fatalf("case variant should share the budget, got %d", got)
	}

	mr.FastForward(61 * time.Second)
	if got := sendOTP(t, app, "asha@example.com"); got != fiber.StatusOK {
		t.Fatalf("budget should reset after a minute, got %d", got)
	}
}

func TestOTPSendRateLimitFailsOpen(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()

	app := newLimitedApp(t, cache)
	for i := 0; i < 5; i++ {
		if got := sendOTP(t, app, "asha@example.com"); got != fiber.StatusOK {
			t.Fatalf("limiter must fail open when redis is down, got %d", got)
		}
	}
}

func TestOTPSendRateLimitWithoutRedis(t *testing.T) {
	app := newLimitedApp(t, nil)
	for i := 0; i < 5; i++ {
		if got := sendOTP(t, app, "asha@example.com"); got != fiber.StatusOK {
			t.Fatalf("limiter should be a no-op without redis, got %d", got)
		}
	}
}
