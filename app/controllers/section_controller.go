package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/TaskNestApp/TaskNest/app/models"
	"github.com/TaskNestApp/TaskNest/app/repository"
	"github.com/TaskNestApp/TaskNest/internal/pkg/usercontext"
)

type sectionRequest struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// HandleCreateSection creates a section inside a list. The per-list section
// ceiling is enforced by the route guard.
func HandleCreateSection(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Login required")
	}

	listID, err := paramUint(c, "listID")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid list id")
	}

	list, err := repository.GetGlobalFactory().GetListRepository().GetByID(listID)
	if err != nil || list.UserID != userCtx.UserID {
		return jsonError(c, fiber.StatusNotFound, "not_found", "List not found")
	}

	var req sectionRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	section := &models.Section{
		ListID:   listID,
		Name:     req.Name,
		Position: req.Position,
	}

	if err := repository.GetGlobalFactory().GetSectionRepository().Create(section); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create section")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "section": section})
}

// HandleListSections returns the sections of a list.
func HandleListSections(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Login required")
	}

	listID, err := paramUint(c, "listID")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid list id")
	}

	list, err := repository.GetGlobalFactory().GetListRepository().GetByID(listID)
	if err != nil || list.UserID != userCtx.UserID {
		return jsonError(c, fiber.StatusNotFound, "not_found", "List not found")
	}

	sections, err := repository.GetGlobalFactory().GetSectionRepository().GetByListID(listID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load sections")
	}

	return c.JSON(fiber.Map{"success": true, "sections": sections})
}
