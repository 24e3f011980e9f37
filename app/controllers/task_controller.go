package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/TaskNestApp/TaskNest/app/models"
	"github.com/TaskNestApp/TaskNest/app/repository"
	"github.com/TaskNestApp/TaskNest/internal/pkg/usercontext"
)

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ListID      *uint      `json:"list_id"`
	SectionID   *uint      `json:"section_id"`
	DueAt       *time.Time `json:"due_at"`
}

type updateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	DueAt       *time.Time `json:"due_at"`
}

// HandleCreateTask creates a task for the authenticated user. The active-task
// ceiling is enforced by the route guard before this handler runs.
func HandleCreateTask(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Login required")
	}

	var req createTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	task := &models.Task{
		UserID:      userCtx.UserID,
		ListID:      req.ListID,
		SectionID:   req.SectionID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatusOpen,
		DueAt:       req.DueAt,
	}

	if req.ListID != nil {
		list, err := repository.GetGlobalFactory().GetListRepository().GetByID(*req.ListID)
		if err != nil || list.UserID != userCtx.UserID {
			return jsonError(c, fiber.StatusNotFound, "not_found", "List not found")
		}
	}

	if err := repository.GetGlobalFactory().GetTaskRepository().Create(task); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create task")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "task": task})
}

// HandleListTasks returns the user's tasks, paginated.
func HandleListTasks(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Login required")
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := c.QueryInt("per_page", 50)
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	tasks, err := repository.GetGlobalFactory().GetTaskRepository().GetByUserID(userCtx.UserID, (page-1)*perPage, perPage)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load tasks")
	}

	return c.JSON(fiber.Map{"success": true, "page": page, "tasks": tasks})
}

// HandleGetTask returns a single task owned by the user.
func HandleGetTask(c *fiber.Ctx) error {
	task, ok := ownedTask(c)
	if !ok {
		return nil
	}
	return c.JSON(fiber.Map{"success": true, "task": task})
}

// HandleUpdateTask applies partial updates to a task.
func HandleUpdateTask(c *fiber.Ctx) error {
	task, ok := ownedTask(c)
	if !ok {
		return nil
	}

	var req updateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.DueAt != nil {
		task.DueAt = req.DueAt
	}
	if req.Status != nil {
		switch *req.Status {
		case models.TaskStatusOpen, models.TaskStatusInProgress:
			task.Status = *req.Status
			task.CompletedAt = nil
		case models.TaskStatusCompleted:
			task.Complete()
		default:
			return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "Unknown task status")
		}
	}

	if err := repository.GetGlobalFactory().GetTaskRepository().Update(task); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update task")
	}

	return c.JSON(fiber.Map{"success": true, "task": task})
}

// HandleCompleteTask moves a task into its terminal state. Completed tasks no
// longer count against the active-task ceiling.
func HandleCompleteTask(c *fiber.Ctx) error {
	task, ok := ownedTask(c)
	if !ok {
		return nil
	}

	if !task.IsCompleted() {
		task.Complete()
		if err := repository.GetGlobalFactory().GetTaskRepository().Update(task); err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to complete task")
		}
	}

	return c.JSON(fiber.Map{"success": true, "task": task})
}

// HandleDeleteTask soft-deletes a task.
func HandleDeleteTask(c *fiber.Ctx) error {
	task, ok := ownedTask(c)
	if !ok {
		return nil
	}

	if err := repository.GetGlobalFactory().GetTaskRepository().Delete(task.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete task")
	}

	return c.JSON(fiber.Map{"success": true})
}

// ownedTask loads the task from the :id param and checks ownership. The
// param is either the numeric row id or the public UUID. On failure the
// error response is already written and ok is false.
func ownedTask(c *fiber.Ctx) (*models.Task, bool) {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Login required")
		return nil, false
	}

	repo := repository.GetGlobalFactory().GetTaskRepository()
	var task *models.Task
	var err error
	if id, perr := paramUint(c, "id"); perr == nil {
		task, err = repo.GetByID(id)
	} else {
		task, err = repo.GetByUUID(c.Params("id"))
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonError(c, fiber.StatusNotFound, "not_found", "Task not found")
		} else {
			jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load task")
		}
		return nil, false
	}

	if task.UserID != userCtx.UserID && !userCtx.IsAdmin {
		jsonError(c, fiber.StatusNotFound, "not_found", "Task not found")
		return nil, false
	}

	return task, true
}
