package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/TaskNestApp/TaskNest/app/models"
	"github.com/TaskNestApp/TaskNest/app/repository"
	"github.com/TaskNestApp/TaskNest/internal/pkg/usercontext"
)

type subtaskRequest struct {
	Title string `json:"title"`
	Done  *bool  `json:"done"`
}

// HandleCreateSubtask creates a subtask under a task. The per-task subtask
// ceiling is enforced by the route guard.
func HandleCreateSubtask(c *fiber.Ctx) error {
	task, ok := ownedParentTask(c)
	if !ok {
		return nil
	}

	var req subtaskRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	subtask := &models.Subtask{
		TaskID: task.ID,
		Title:  req.Title,
	}

	if err := repository.GetGlobalFactory().GetSubtaskRepository().Create(subtask); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create subtask")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "subtask": subtask})
}

// HandleListSubtasks returns the subtasks of a task.
func HandleListSubtasks(c *fiber.Ctx) error {
	task, ok := ownedParentTask(c)
	if !ok {
		return nil
	}

	subtasks, err := repository.GetGlobalFactory().GetSubtaskRepository().GetByTaskID(task.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load subtasks")
	}

	return c.JSON(fiber.Map{"success": true, "subtasks": subtasks})
}

func ownedParentTask(c *fiber.Ctx) (*models.Task, bool) {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Login required")
		return nil, false
	}

	taskID, err := paramUint(c, "taskID")
	if err != nil {
		jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid task id")
		return nil, false
	}

	task, err := repository.GetGlobalFactory().GetTaskRepository().GetByID(taskID)
	if err != nil || (task.UserID != userCtx.UserID && !userCtx.IsAdmin) {
		jsonError(c, fiber.StatusNotFound, "not_found", "Task not found")
		return nil, false
	}

	return task, true
}
