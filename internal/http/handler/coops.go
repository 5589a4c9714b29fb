package handler

import (
	"github.com/gofiber/fiber/v2"

	"studyhub/internal/coop"
	"studyhub/internal/model"
	"studyhub/internal/store"
	"studyhub/internal/wire"
)

// coopGroup is the by-company directory entry on the wire.
type coopGroup struct {
	Company string      `json:"company"`
	Coops   []wire.Coop `json:"coops"`
	Count   int         `json:"count"`
}

func registerCoops(app *fiber.App, h *Handler) {
	app.Get("/coops", func(c *fiber.Ctx) error {
		coops, err := h.Store.GetCoops(c.UserContext())
		if err != nil {
			return storeError(c, err)
		}
		return c.JSON(wire.NewList(wire.FromCoops(coops)))
	})

	// Directory view: grouped by company, biggest group first, members
	// ordered current-first then newest semester.
	app.Get("/coops/by-company", func(c *fiber.Ctx) error {
		coops, err := h.Store.GetCoops(c.UserContext())
		if err != nil {
			return storeError(c, err)
		}

		groups := coop.GroupByCompany(coops)
		out := make([]coopGroup, len(groups))
		for i, g := range groups {
			out[i] = coopGroup{
				Company: g.Company,
				Coops:   wire.FromCoops(g.Coops),
				Count:   g.Count,
			}
		}
		return c.JSON(wire.NewList(out))
	})

	app.Post("/coops", func(c *fiber.Ctx) error {
		var req wire.CoopCreate
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		if req.BrotherName == "" || req.Company == "" {
			return writeError(c, fiber.StatusBadRequest, "FIELDS_REQUIRED", "brother_name and company are required")
		}
		status := model.CoopStatus(req.Status)
		if status != model.CoopCurrent && status != model.CoopPast {
			return writeError(c, fiber.StatusBadRequest, "INVALID_STATUS", "status must be current or past")
		}

		created, err := h.Store.AddCoop(c.UserContext(), store.NewCoop{
			BrotherName: req.BrotherName,
			Company:     req.Company,
			Position:    req.Position,
			Semester:    req.Semester,
			Status:      status,
			Notes:       req.Notes,
		})
		if err != nil {
			return storeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(wire.FromCoop(*created))
	})

	app.Put("/coops/:id", func(c *fiber.Ctx) error {
		var req wire.CoopUpdate
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}

		upd := store.CoopUpdate{
			BrotherName: req.BrotherName,
			Company:     req.Company,
			Position:    req.Position,
			Semester:    req.Semester,
			Notes:       req.Notes,
		}
		if req.Status != nil {
			status := model.CoopStatus(*req.Status)
			if status != model.CoopCurrent && status != model.CoopPast {
				return writeError(c, fiber.StatusBadRequest, "INVALID_STATUS", "status must be current or past")
			}
			upd.Status = &status
		}

		updated, err := h.Store.UpdateCoop(c.UserContext(), c.Params("id"), upd)
		if err != nil {
			return storeError(c, err)
		}
		return c.JSON(wire.FromCoop(*updated))
	})

	app.Delete("/coops/:id", func(c *fiber.Ctx) error {
		if err := h.Store.DeleteCoop(c.UserContext(), c.Params("id")); err != nil {
			return storeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
