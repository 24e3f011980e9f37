package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/TaskNestApp/TaskNest/internal/pkg/aiassist"
	"github.com/TaskNestApp/TaskNest/internal/pkg/middleware"
	"github.com/TaskNestApp/TaskNest/internal/pkg/usercontext"
)

var aiGenerator aiassist.Generator = aiassist.NewTemplateGenerator()

// SetAIGenerator swaps the suggestion backend, used by tests and by main when
// an external provider is configured.
func SetAIGenerator(g aiassist.Generator) {
	if g != nil {
		aiGenerator = g
	}
}

// HandleAISuggestDescription generates a task description suggestion. Usage is
// recorded only after the generator succeeds, so failed calls never consume
// quota.
func HandleAISuggestDescription(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Login required")
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := c.BodyParser(&req); err != nil || req.Title == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Missing task title")
	}

	text, err := aiGenerator.SuggestDescription(c.Context(), req.Title)
	if err != nil {
		return jsonError(c, fiber.StatusBadGateway, "ai_unavailable", "Suggestion backend failed")
	}

	middleware.GetAIUsageRecorder(c)()

	return c.JSON(fiber.Map{"success": true, "description": text})
}

// HandleAISuggestSubtasks generates a subtask breakdown for a task title.
func HandleAISuggestSubtasks(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Login required")
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := c.BodyParser(&req); err != nil || req.Title == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Missing task title")
	}

	items, err := aiGenerator.SuggestSubtasks(c.Context(), req.Title)
	if err != nil {
		return jsonError(c, fiber.StatusBadGateway, "ai_unavailable", "Suggestion backend failed")
	}

	middleware.GetAIUsageRecorder(c)()

	return c.JSON(fiber.Map{"success": true, "subtasks": items})
}

// HandleAISuggestRoutine generates a recurring routine plan for a goal.
func HandleAISuggestRoutine(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Login required")
	}

	var req struct {
		Goal string `json:"goal"`
	}
	if err := c.BodyParser(&req); err != nil || req.Goal == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Missing routine goal")
	}

	steps, err := aiGenerator.SuggestRoutine(c.Context(), req.Goal)
	if err != nil {
		return jsonError(c, fiber.StatusBadGateway, "ai_unavailable", "Suggestion backend failed")
	}

	middleware.GetAIUsageRecorder(c)()

	return c.JSON(fiber.Map{"success": true, "routine": steps})
}
