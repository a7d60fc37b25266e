package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// OTPSendRateLimit limits OTP send attempts per identifier (or IP when the
// form is empty) using Redis if available. The limiter protects the upstream
// SMS/email budget, so it fails open on cache errors rather than blocking
// legitimate sign-ins.
func OTPSendRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 5
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next() // no-op without Redis
		}
		identifier := strings.TrimSpace(c.FormValue("identifier"))
		if identifier == "" {
			identifier = c.IP()
		}
		key := "rl:otp:" + strings.ToLower(identifier)
		cnt, err := cache.Incr(c.UserContext(), key).Result()
		if err == nil && cnt == 1 {
			cache.Expire(c.UserContext(), key, time.Minute)
		}
		if err != nil {
			return c.Next() // fail-open on cache errors
		}
		if cnt > int64(maxPerMin) {
			return fiber.NewError(http.StatusTooManyRequests, "Too many OTP requests, try again in a minute")
		}
		return c.Next()
	}
}
