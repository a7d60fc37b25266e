// Package web serves the onboarding portal: the marketing landing page, the
// five onboarding screens, and the small JSON endpoint the status page polls.
// Handlers validate forms before any upstream call, forward submissions
// through the door2fy client, and let the step resolver decide which screen
// comes next.
package web

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/door2fy/onboarding-portal/internal/door2fy"
	"github.com/door2fy/onboarding-portal/internal/middleware"
	"github.com/door2fy/onboarding-portal/internal/onboarding"
	"github.com/door2fy/onboarding-portal/internal/session"
	"github.com/door2fy/onboarding-portal/internal/statuscache"
)

// errStaleToken marks a bearer token the engineer service no longer accepts.
// The owning session is destroyed and the visitor starts over at auth.
var errStaleToken = errors.New("stale token")

// Cities offered in the landing page selector.
var Cities = []string{"Delhi NCR", "Mumbai", "Bengaluru", "Hyderabad", "Pune", "Kolkata", "Chandigarh"}

// Handler carries the shared dependencies of all portal routes.
type Handler struct {
	client       *door2fy.Client
	sessions     session.Repository
	cache        *statuscache.Cache
	logger       *slog.Logger
	appName      string
	dashboardURL string
	sessionTTL   time.Duration
	cookieSecure bool
}

// Config captures the handler's tunables.
type Config struct {
	AppName      string
	DashboardURL string
	SessionTTL   time.Duration
	CookieSecure bool
}

// NewHandler wires the portal handler.
func NewHandler(client *door2fy.Client, sessions session.Repository, cache *statuscache.Cache, logger *slog.Logger, cfg Config) *Handler {
	return &Handler{
		client:       client,
		sessions:     sessions,
		cache:        cache,
		logger:       logger,
		appName:      cfg.AppName,
		dashboardURL: cfg.DashboardURL,
		sessionTTL:   cfg.SessionTTL,
		cookieSecure: cfg.CookieSecure,
	}
}

// render wraps c.Render with the fields every page expects: app name, auth
// state, and any pending flash notice.
func (h *Handler) render(c *fiber.Ctx, view string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["AppName"] = h.appName
	if _, ok := data["Toast"]; !ok {
		if toast, ok := h.popFlash(c); ok {
			data["Toast"] = toast
		}
	}
	sess, _ := middleware.SessionFrom(c)
	data["Authenticated"] = sess.Authenticated()
	return c.Render(view, data, "layouts/main")
}

// snapshot returns the verification status snapshot for an authenticated
// session, consulting the short-TTL cache first. A nil snapshot with a nil
// error means the engineer service has no record yet (a genuinely new
// account); any other upstream failure is returned as an error so outages
// are never mistaken for a fresh start.
func (h *Handler) snapshot(ctx context.Context, sess session.Session) (*onboarding.StatusSnapshot, error) {
	if snap, ok := h.cache.Get(ctx, sess.ID); ok {
		return snap, nil
	}

	snap, err := h.client.GetStatus(ctx, sess.Token)
	if err != nil {
		if errors.Is(err, door2fy.ErrNoRecord) {
			return nil, nil
		}
		var apiErr *door2fy.APIError
		if errors.As(err, &apiErr) && apiErr.Status == fiber.StatusUnauthorized {
			return nil, errStaleToken
		}
		return nil, err
	}

	h.cache.Put(ctx, sess.ID, snap)
	return &snap, nil
}

// destroySession removes the server-side session and the browser cookie.
func (h *Handler) destroySession(c *fiber.Ctx, sess session.Session) {
	if err := h.sessions.Delete(c.UserContext(), sess.ID); err != nil {
		h.logger.Warn("delete session", "error", err)
	}
	h.clearSessionCookie(c)
}

func (h *Handler) setSessionCookie(c *fiber.Ctx, sess session.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    sess.ID,
		Expires:  sess.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

func (h *Handler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

// stepPath maps a resolved step to its route.
func stepPath(step onboarding.Step) string {
	return "/onboarding/" + string(step)
}
