package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"task-manager.com/task-manager/internal/constants"
	dto "task-manager.com/task-manager/internal/data_models"
	apperrors "task-manager.com/task-manager/internal/errors"
	"task-manager.com/task-manager/internal/http/validators"
	model "task-manager.com/task-manager/internal/models"
	"task-manager.com/task-manager/internal/services"
)

type Handler struct {
	taskService *services.TaskService
}

func NewHandler(taskService *services.TaskService) *Handler {
	return &Handler{
		taskService: taskService,
	}
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	in, err := validators.ValidateCreateTaskRequest(&req)
	if err != nil {
		return toHTTPError(err)
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), in)
	return respondTask(c, http.StatusCreated, task, err)
}

func (h *Handler) GetTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.GetTask(id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) ListTasks(c echo.Context) error {
	q := services.ListQuery{
		Search:         c.QueryParam("q"),
		OverdueOnly:    c.QueryParam("overdue") == "true",
		SortByPriority: c.QueryParam("sort") == "priority",
	}

	if raw := c.QueryParam("status"); raw != "" {
		status, err := constants.ParseStatus(raw)
		if err != nil {
			return toHTTPError(err)
		}
		q.Status = &status
	}
	if raw := c.QueryParam("priority"); raw != "" {
		priority, err := constants.ParsePriority(raw)
		if err != nil {
			return toHTTPError(err)
		}
		q.Priority = &priority
	}
	if raw := c.QueryParam("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "completed must be true or false")
		}
		q.Completed = &completed
	}

	tasks := h.taskService.ListTasks(q)

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(tasks),
		"tasks": tasks,
	})
}

func (h *Handler) UpdateTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	patch, err := validators.ValidateUpdateTaskRequest(&req)
	if err != nil {
		return toHTTPError(err)
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), id, patch)
	return respondTask(c, http.StatusOK, task, err)
}

func (h *Handler) DeleteTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	removed, err := h.taskService.RemoveTask(c.Request().Context(), id)
	if errors.Is(err, apperrors.ErrChangeNotSaved) {
		warnNotSaved(c, err)
	} else if err != nil {
		return toHTTPError(err)
	}
	if !removed {
		return toHTTPError(apperrors.ErrTaskNotFound)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ToggleTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.ToggleTask(c.Request().Context(), id)
	return respondTask(c, http.StatusOK, task, err)
}

func (h *Handler) SetStatus(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	status, err := validators.ValidateUpdateStatusRequest(&req)
	if err != nil {
		return toHTTPError(err)
	}

	task, err := h.taskService.SetStatus(c.Request().Context(), id, status)
	return respondTask(c, http.StatusOK, task, err)
}

func (h *Handler) Stats(c echo.Context) error {
	stats := h.taskService.Stats()

	return c.JSON(http.StatusOK, echo.Map{
		"total":      stats.Total,
		"overdue":    stats.Overdue,
		"byStatus":   stats.ByStatus,
		"byPriority": stats.ByPriority,
	})
}

func (h *Handler) Save(c echo.Context) error {
	if err := h.taskService.Save(c.Request().Context()); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func taskID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(c.Param("id")))
	if err != nil || id <= 0 {
		return 0, toHTTPError(apperrors.ErrInvalidTaskID)
	}
	return id, nil
}

// respondTask writes task with code. A change that was applied but not
// saved still succeeds, with the save failure in a Warning header.
func respondTask(c echo.Context, code int, task model.Task, err error) error {
	if errors.Is(err, apperrors.ErrChangeNotSaved) {
		warnNotSaved(c, err)
	} else if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(code, task)
}

func warnNotSaved(c echo.Context, err error) {
	c.Response().Header().Set("Warning", fmt.Sprintf("199 tasks %q", err.Error()))
}

func toHTTPError(err error) error {
	return echo.NewHTTPError(apperrors.StatusCode(err), err.Error())
}
