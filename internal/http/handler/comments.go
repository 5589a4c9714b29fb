package handler

import (
	"github.com/gofiber/fiber/v2"

	"studyhub/internal/wire"
)

func registerComments(app *fiber.App, h *Handler) {
	// ?document_id= filters to one thread; without it the full collection
	// comes back.
	app.Get("/comments", func(c *fiber.Ctx) error {
		comments, err := h.Store.GetComments(c.UserContext(), c.Query("document_id"))
		if err != nil {
			return storeError(c, err)
		}
		return c.JSON(wire.NewList(wire.FromComments(comments)))
	})

	app.Post("/comments", func(c *fiber.Ctx) error {
		var req wire.CommentCreate
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		if req.DocumentID == "" {
			return writeError(c, fiber.StatusBadRequest, "DOCUMENT_ID_REQUIRED", "document_id is required")
		}
		if req.Content == "" {
			return writeError(c, fiber.StatusBadRequest, "CONTENT_REQUIRED", "content is required")
		}

		comment, err := h.Store.AddComment(c.UserContext(), req.DocumentID, req.Author, req.Content)
		if err != nil {
			return storeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(wire.FromComment(*comment))
	})

	app.Delete("/comments/:id", func(c *fiber.Ctx) error {
		if err := h.Store.DeleteComment(c.UserContext(), c.Params("id")); err != nil {
			return storeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
