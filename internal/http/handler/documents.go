package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"studyhub/internal/model"
	"studyhub/internal/service"
	"studyhub/internal/store"
	"studyhub/internal/wire"
)

func newDocumentFromWire(dc wire.DocumentCreate) store.NewDocument {
	ft := model.FileType(dc.FileType)
	if dc.FileType == "" {
		ft = model.FileTypeFromName(dc.FileName)
	}
	nd := store.NewDocument{
		Title:     dc.Title,
		Course:    dc.Course,
		Professor: dc.Professor,
		FileType:  ft,
		FileName:  dc.FileName,
	}
	if dc.UploadedAt != nil {
		nd.UploadedAt = *dc.UploadedAt
	}
	return nd
}

func registerDocuments(app *fiber.App, h *Handler) {
	app.Get("/documents", func(c *fiber.Ctx) error {
		docs, err := h.Store.GetDocuments(c.UserContext())
		if err != nil {
			return storeError(c, err)
		}
		return c.JSON(wire.NewList(wire.FromDocuments(docs)))
	})

	// JSON metadata-only creation.
	app.Post("/documents", func(c *fiber.Ctx) error {
		var req wire.DocumentCreate
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		if req.Title == "" && req.FileName == "" {
			return writeError(c, fiber.StatusBadRequest, "TITLE_REQUIRED", "title or file_name is required")
		}

		doc, err := h.Store.AddDocument(c.UserContext(), newDocumentFromWire(req))
		if err != nil {
			return storeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(wire.FromDocument(*doc))
	})

	// Multipart upload: file bytes plus catalog fields.
	app.Post("/documents/upload", func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := h.Uploads.Upload(c.UserContext(), service.UploadRequest{
			FileName:    fh.Filename,
			Title:       c.FormValue("title"),
			Course:      c.FormValue("course"),
			Professor:   c.FormValue("professor"),
			ContentType: ct,
			Size:        fh.Size,
			Content:     f,
		})
		if err != nil {
			if err == service.ErrNameRequired {
				return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file name is required")
			}
			return storeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(wire.FromDocument(*doc))
	})

	// Redirect to a short-lived object-storage URL for the raw file.
	app.Get("/documents/:id/file", func(c *fiber.Ctx) error {
		url, err := h.Uploads.FileURL(c.UserContext(), c.Params("id"))
		if err != nil {
			if errors.Is(err, service.ErrNoStorage) {
				return writeError(c, fiber.StatusNotFound, "FILE_UNAVAILABLE", "file storage is not configured")
			}
			return storeError(c, err)
		}
		return c.Redirect(url, fiber.StatusFound)
	})

	// The single download endpoint: counter bump plus event append in one
	// round trip. Unknown ids succeed without writing anything.
	app.Post("/documents/:id/download", func(c *fiber.Ctx) error {
		if err := h.Store.IncrementDownload(c.UserContext(), c.Params("id")); err != nil {
			return storeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Get("/downloads", func(c *fiber.Ctx) error {
		events, err := h.Store.GetDownloadEvents(c.UserContext())
		if err != nil {
			return storeError(c, err)
		}
		return c.JSON(wire.NewList(wire.FromDownloadEvents(events)))
	})
}
