package web

import "github.com/gofiber/fiber/v2"

// Landing serves the marketing page: hero copy, the city selector, and the
// join call-to-action pointing into the onboarding flow.
func (h *Handler) Landing(c *fiber.Ctx) error {
	return h.render(c, "home", fiber.Map{
		"Cities": Cities,
	})
}
