package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/TaskNestApp/TaskNest/app/models"
	"github.com/TaskNestApp/TaskNest/app/repository"
	"github.com/TaskNestApp/TaskNest/internal/pkg/entitlements"
	"github.com/TaskNestApp/TaskNest/internal/pkg/usercontext"
)

type listRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// HandleCreateList creates a task list. The per-user list ceiling is enforced
// by the route guard; custom colors are a plan feature checked here because
// they are optional per request.
func HandleCreateList(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Login required")
	}

	var req listRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	if req.Color != "" {
		tier := entitlements.GetTier(entitlements.NormalizePlan(userCtx.Plan))
		if tier.FeatureLevel("customColors") == 0 {
			return jsonError(c, fiber.StatusForbidden, "FEATURE_NOT_AVAILABLE", "Custom list colors require a paid plan")
		}
	}

	list := &models.TaskList{
		UserID: userCtx.UserID,
		Name:   req.Name,
		Color:  req.Color,
	}

	if err := repository.GetGlobalFactory().GetListRepository().Create(list); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create list")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "list": list})
}

// HandleListLists returns all lists owned by the user.
func HandleListLists(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Login required")
	}

	lists, err := repository.GetGlobalFactory().GetListRepository().GetByUserID(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load lists")
	}

	return c.JSON(fiber.Map{"success": true, "lists": lists})
}

// HandleUpdateList renames or recolors a list.
func HandleUpdateList(c *fiber.Ctx) error {
	list, ok := ownedList(c)
	if !ok {
		return nil
	}

	var req listRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	if req.Name != "" {
		list.Name = req.Name
	}
	if req.Color != "" && req.Color != list.Color {
		userCtx := usercontext.GetUserContext(c)
		tier := entitlements.GetTier(entitlements.NormalizePlan(userCtx.Plan))
		if tier.FeatureLevel("customColors") == 0 {
			return jsonError(c, fiber.StatusForbidden, "FEATURE_NOT_AVAILABLE", "Custom list colors require a paid plan")
		}
		list.Color = req.Color
	}

	if err := repository.GetGlobalFactory().GetListRepository().Update(list); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update list")
	}

	return c.JSON(fiber.Map{"success": true, "list": list})
}

// HandleDeleteList soft-deletes a list.
func HandleDeleteList(c *fiber.Ctx) error {
	list, ok := ownedList(c)
	if !ok {
		return nil
	}

	if err := repository.GetGlobalFactory().GetListRepository().Delete(list.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete list")
	}

	return c.JSON(fiber.Map{"success": true})
}

func ownedList(c *fiber.Ctx) (*models.TaskList, bool) {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Login required")
		return nil, false
	}

	id, err := paramUint(c, "id")
	if err != nil {
		jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid list id")
		return nil, false
	}

	list, err := repository.GetGlobalFactory().GetListRepository().GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonError(c, fiber.StatusNotFound, "not_found", "List not found")
		} else {
			jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load list")
		}
		return nil, false
	}

	if list.UserID != userCtx.UserID && !userCtx.IsAdmin {
		jsonError(c, fiber.StatusNotFound, "not_found", "List not found")
		return nil, false
	}

	return list, true
}
