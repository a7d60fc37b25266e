package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/door2fy/onboarding-portal/internal/session"
)

// SessionLocal is the fiber.Ctx locals key the loaded session is stored
// under.
const SessionLocal = "session"

// LoadSession resolves the session cookie into a session.Session and stashes
// it in the request locals. A missing or expired session is not an error
// here; handlers decide what an unauthenticated visitor sees.
func LoadSession(repo session.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(session.CookieName)
		if id == "" {
			return c.Next()
		}

		sess, err := repo.Find(c.UserContext(), id)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				return fiber.NewError(fiber.StatusInternalServerError, "session lookup failed")
			}
			// Stale cookie; drop it so the browser stops sending it.
			c.ClearCookie(session.CookieName)
			return c.Next()
		}

		c.Locals(SessionLocal, sess)
		return c.Next()
	}
}

// SessionFrom extracts the loaded session from the request locals.
func SessionFrom(c *fiber.Ctx) (session.Session, bool) {
	sess, ok := c.Locals(SessionLocal).(session.Session)
	return sess, ok
}
