package handler

import (
	"github.com/gofiber/fiber/v2"

	"studyhub/internal/store"
	"studyhub/internal/wire"
)

func registerFolders(app *fiber.App, h *Handler) {
	app.Get("/folders", func(c *fiber.Ctx) error {
		folders, err := h.Store.GetFolders(c.UserContext())
		if err != nil {
			return storeError(c, err)
		}
		return c.JSON(wire.NewList(wire.FromFolders(folders)))
	})

	app.Post("/folders", func(c *fiber.Ctx) error {
		var req wire.FolderCreate
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		if req.Name == "" {
			return writeError(c, fiber.StatusBadRequest, "NAME_REQUIRED", "name is required")
		}

		folder, err := h.Store.AddFolder(c.UserContext(), store.NewFolder{
			Name:        req.Name,
			Description: req.Description,
			Course:      req.Course,
			Professor:   req.Professor,
		})
		if err != nil {
			return storeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(wire.FromFolder(*folder))
	})

	app.Get("/folders/:id", func(c *fiber.Ctx) error {
		folder, err := h.Store.GetFolder(c.UserContext(), c.Params("id"))
		if err != nil {
			return storeError(c, err)
		}
		return c.JSON(wire.FromFolder(*folder))
	})

	// Cascades to member documents; idempotent for unknown ids.
	app.Delete("/folders/:id", func(c *fiber.Ctx) error {
		if err := h.Store.DeleteFolder(c.UserContext(), c.Params("id")); err != nil {
			return storeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Get("/folders/:id/documents", func(c *fiber.Ctx) error {
		docs, err := h.Store.GetFolderDocuments(c.UserContext(), c.Params("id"))
		if err != nil {
			return storeError(c, err)
		}
		return c.JSON(wire.NewList(wire.FromDocuments(docs)))
	})

	// Batch add: the whole batch lands or none of it does.
	app.Post("/folders/:id/documents", func(c *fiber.Ctx) error {
		var reqs []wire.DocumentCreate
		if err := c.BodyParser(&reqs); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}

		nds := make([]store.NewDocument, len(reqs))
		for i, req := range reqs {
			nds[i] = newDocumentFromWire(req)
		}

		docs, err := h.Store.AddDocumentsToFolder(c.UserContext(), c.Params("id"), nds)
		if err != nil {
			return storeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(wire.NewList(wire.FromDocuments(docs)))
	})
}
