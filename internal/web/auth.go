package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/door2fy/onboarding-portal/internal/door2fy"
	"github.com/door2fy/onboarding-portal/internal/middleware"
	"github.com/door2fy/onboarding-portal/internal/onboarding"
	"github.com/door2fy/onboarding-portal/internal/session"
)

// AuthScreen renders the sign-in / register screen. Authenticated visitors
// are pushed back into the flow.
func (h *Handler) AuthScreen(c *fiber.Ctx) error {
	if sess, ok := middleware.SessionFrom(c); ok && sess.Authenticated() {
		return c.Redirect("/onboarding", fiber.StatusSeeOther)
	}
	return h.render(c, "auth", fiber.Map{
		"Mode":       c.Query("mode", "signin"),
		"Identifier": "",
	})
}

// SendOTP takes the identifier, detects mobile vs email, registers upstream,
// and opens a pending session awaiting the 6-digit code.
func (h *Handler) SendOTP(c *fiber.Ctx) error {
	identifier := strings.TrimSpace(c.FormValue("identifier"))
	if identifier == "" {
		return h.render(c, "auth", fiber.Map{
			"Toast":      Toast{Kind: "error", Title: "Error", Message: "Please enter your email or mobile number"},
			"Mode":       c.Query("mode", "signin"),
			"Identifier": "",
		})
	}

	mode := door2fy.ModeMobile
	if onboarding.IsEmail(identifier) {
		mode = door2fy.ModeEmail
	}

	result, err := h.client.Register(c.UserContext(), mode, identifier)
	if err != nil {
		h.logger.Warn("register failed", "identifier", identifier, "error", err)
		return h.render(c, "auth", fiber.Map{
			"Toast":      errorToast("Error", err),
			"Mode":       c.Query("mode", "signin"),
			"Identifier": identifier,
		})
	}

	// Replace any previous pending session for this browser.
	if old, ok := middleware.SessionFrom(c); ok {
		h.destroySession(c, old)
	}

	sess := session.New(identifier, string(mode), result.SessionID, h.sessionTTL)
	if err := h.sessions.Create(c.UserContext(), sess); err != nil {
		h.logger.Error("create session", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not start sign-in")
	}
	h.setSessionCookie(c, sess)

	h.flash(c, successToast("OTP Sent", "Verification code sent to "+identifier))
	return c.Redirect("/onboarding/auth/verify", fiber.StatusSeeOther)
}

// VerifyScreen renders the OTP entry screen for a pending session.
func (h *Handler) VerifyScreen(c *fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok || sess.UpstreamID == "" {
		return c.Redirect("/onboarding/auth", fiber.StatusSeeOther)
	}
	if sess.Authenticated() {
		return c.Redirect("/onboarding", fiber.StatusSeeOther)
	}
	return h.render(c, "otp", fiber.Map{
		"Identifier": sess.Identifier,
	})
}

// VerifyOTP checks the submitted code with the engineer service and promotes
// the pending session. A code that is not exactly 6 digits is rejected
// locally; no upstream call is made.
func (h *Handler) VerifyOTP(c *fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok || sess.UpstreamID == "" {
		return c.Redirect("/onboarding/auth", fiber.StatusSeeOther)
	}

	otp := strings.TrimSpace(c.FormValue("otp"))
	if !validOTP(otp) {
		return h.render(c, "otp", fiber.Map{
			"Toast":      Toast{Kind: "error", Title: "Error", Message: "Please enter the complete 6-digit OTP"},
			"Identifier": sess.Identifier,
		})
	}

	token, err := h.client.VerifyOTP(c.UserContext(), sess.UpstreamID, otp)
	if err != nil {
		h.logger.Warn("otp verification failed", "identifier", sess.Identifier, "error", err)
		return h.render(c, "otp", fiber.Map{
			"Toast":      errorToast("Error", err),
			"Identifier": sess.Identifier,
		})
	}

	sess.Token = token
	sess.UpstreamID = ""
	if err := h.sessions.Update(c.UserContext(), sess); err != nil {
		h.logger.Error("promote session", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not complete sign-in")
	}

	h.flash(c, successToast("Success", "Verification successful!"))
	return c.Redirect("/onboarding", fiber.StatusSeeOther)
}

// SignOut destroys the session and returns to the landing page.
func (h *Handler) SignOut(c *fiber.Ctx) error {
	if sess, ok := middleware.SessionFrom(c); ok {
		h.cache.Invalidate(c.UserContext(), sess.ID)
		h.destroySession(c, sess)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func validOTP(otp string) bool {
	if len(otp) != 6 {
		return false
	}
	for _, r := range otp {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
