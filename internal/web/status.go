package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/door2fy/onboarding-portal/internal/door2fy"
	"github.com/door2fy/onboarding-portal/internal/middleware"
	"github.com/door2fy/onboarding-portal/internal/onboarding"
)

// statusCard is one per-step indicator on the status screen.
type statusCard struct {
	Title   string
	Details string
	Label   string
	Kind    string // approved | rejected | pending, drives styling
}

// StatusScreen renders the verification status view: three per-step
// indicators, the aggregate banner, and the timeline.
func (h *Handler) StatusScreen(c *fiber.Ctx) error {
	_, snap, done, err := h.guard(c, onboarding.StepStatus)
	if done {
		return err
	}
	// The guard redirects to an earlier screen whenever a sub-step is still
	// pending, so a snapshot is always present here.
	if snap == nil {
		return c.Redirect("/onboarding", fiber.StatusSeeOther)
	}

	profile := snap.ProfileStatus
	cards := []statusCard{
		{Title: "Profile Status", Details: "Personal information verified", Label: profile.Label(), Kind: kind(profile)},
		{Title: "KYC Status", Details: "Identity documents verified", Label: snap.KYCStatus.Label(), Kind: kind(snap.KYCStatus)},
		{Title: "Bank Status", Details: "Bank account verified", Label: snap.BankStatus.Label(), Kind: kind(snap.BankStatus)},
	}

	_, canResubmit := onboarding.ResolveResubmit(snap)

	return h.render(c, "status", fiber.Map{
		"Cards":        cards,
		"Verified":     snap.Verified(),
		"Rejected":     snap.Rejected(),
		"CanResubmit":  canResubmit,
		"DashboardURL": h.dashboardURL,
		"CurrentStep":  4,
	})
}

// Resubmit routes a rejected application back to the first rejected sub-step.
// Approved steps stay untouched.
func (h *Handler) Resubmit(c *fiber.Ctx) error {
	sess, snap, done, err := h.guard(c, onboarding.StepStatus)
	if done {
		return err
	}

	step, ok := onboarding.ResolveResubmit(snap)
	if !ok {
		return c.Redirect("/onboarding/status", fiber.StatusSeeOther)
	}

	h.cache.Invalidate(c.UserContext(), sess.ID)
	h.flash(c, Toast{Kind: "error", Title: "Re-submission Needed", Message: "Please correct and re-submit the rejected details"})
	return c.Redirect(stepPath(step), fiber.StatusSeeOther)
}

// APIStatus is the JSON passthrough the status page polls. It always asks the
// engineer service directly and refreshes the cache with the answer.
func (h *Handler) APIStatus(c *fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok || !sess.Authenticated() {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Not authenticated"})
	}

	snap, err := h.client.GetStatus(c.UserContext(), sess.Token)
	if err != nil {
		if errors.Is(err, door2fy.ErrNoRecord) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "No verification record yet"})
		}
		var apiErr *door2fy.APIError
		if errors.As(err, &apiErr) && apiErr.Status == fiber.StatusUnauthorized {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Session expired"})
		}
		h.logger.Error("status poll failed", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"detail": "Status temporarily unavailable"})
	}

	h.cache.Put(c.UserContext(), sess.ID, snap)
	return c.JSON(snap)
}

func kind(s onboarding.Status) string {
	switch {
	case s.IsApproved():
		return "approved"
	case s.IsRejected():
		return "rejected"
	default:
		return "pending"
	}
}
