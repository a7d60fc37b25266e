package web

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
)

const flashCookie = "d2f_flash"

// Toast is a one-shot notice surfaced on the next rendered page, the
// server-side counterpart of the original client's toast notifications.
type Toast struct {
	Kind    string `json:"kind"` // "success" or "error"
	Title   string `json:"title"`
	Message string `json:"message"`
}

// flash stores a toast for the next render after a redirect.
func (h *Handler) flash(c *fiber.Ctx, toast Toast) {
	payload, err := json.Marshal(toast)
	if err != nil {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

// popFlash reads and clears the pending toast, if any.
func (h *Handler) popFlash(c *fiber.Ctx) (Toast, bool) {
	raw := c.Cookies(flashCookie)
	if raw == "" {
		return Toast{}, false
	}

	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return Toast{}, false
	}
	var toast Toast
	if err := json.Unmarshal(decoded, &toast); err != nil {
		return Toast{}, false
	}
	return toast, true
}

func errorToast(title string, err error) Toast {
	return Toast{Kind: "error", Title: title, Message: err.Error()}
}

func successToast(title, message string) Toast {
	return Toast{Kind: "success", Title: title, Message: message}
}
