package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"studyhub/internal/kv"
	"studyhub/internal/service"
	"studyhub/internal/store"
)

// Handler bundles the dependencies of the HTTP surface. Substrate is nil when
// the process runs on the remote backend; the health check then skips the
// substrate ping.
type Handler struct {
	Store     store.Store
	Uploads   service.UploadService
	Substrate kv.Store
}

// RegisterRoutes attaches every route to the provided Fiber app. Handlers
// translate between the wire contract and the store; business rules live
// below this layer.
func RegisterRoutes(app *fiber.App, h *Handler) {
	// Health: verifies the substrate when one is attached.
	app.Get("/health", func(c *fiber.Ctx) error {
		if h.Substrate != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := h.Substrate.Ping(ctx); err != nil {
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	})

	// Liveness probe.
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	registerDocuments(app, h)
	registerFolders(app, h)
	registerComments(app, h)
	registerCoops(app, h)
	registerAnalytics(app, h)
}
