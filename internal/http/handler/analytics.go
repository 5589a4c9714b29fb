package handler

import (
	"github.com/gofiber/fiber/v2"

	"studyhub/internal/analytics"
	"studyhub/internal/wire"
)

func registerAnalytics(app *fiber.App, h *Handler) {
	// ?time_range=week|month|year; anything else falls back to month.
	app.Get("/analytics", func(c *fiber.Ctx) error {
		tr := analytics.ParseTimeRange(c.Query("time_range"))
		a, err := h.Store.GetAnalytics(c.UserContext(), tr)
		if err != nil {
			return storeError(c, err)
		}
		return c.JSON(wire.FromAnalytics(*a))
	})
}
