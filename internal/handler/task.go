package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trajectory-pm/trajectory/internal/domain"
	"github.com/trajectory-pm/trajectory/internal/service"
)

// TaskHandler handles task endpoints.
type TaskHandler struct {
	tasks *service.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type createTaskRequest struct {
	Name        string  `json:"name" validate:"required,min=1"`
	Description string  `json:"description" validate:"required"`
	AssignedTo  *int64  `json:"assigned_to"`
	Status      string  `json:"status"`
	Priority    int     `json:"priority"`
	StartDate   *string `json:"start_date"`
	DueDate     *string `json:"due_date"`
}

type updateTaskRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	AssignedTo  *int64  `json:"assigned_to"`
	Status      *string `json:"status"`
	Priority    *int    `json:"priority"`
	StartDate   *string `json:"start_date"`
	DueDate     *string `json:"due_date"`
}

// ListForFeature returns the feature's tasks.
func (h *TaskHandler) ListForFeature(c echo.Context) error {
	userID, _ := GetUserID(c)
	projectID, err := paramID(c, "projectID")
	if err != nil {
		return err
	}
	featureID, err := paramID(c, "featureID")
	if err != nil {
		return err
	}

	tasks, err := h.tasks.ListForFeature(c.Request().Context(), projectID, featureID, userID)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, echo.Map{"tasks": tasks})
}

// Get returns one task under the feature.
func (h *TaskHandler) Get(c echo.Context) error {
	userID, _ := GetUserID(c)
	projectID, err := paramID(c, "projectID")
	if err != nil {
		return err
	}
	featureID, err := paramID(c, "featureID")
	if err != nil {
		return err
	}
	taskID, err := paramID(c, "taskID")
	if err != nil {
		return err
	}

	task, err := h.tasks.Get(c.Request().Context(), projectID, featureID, taskID, userID)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, task)
}

// ListAssigned returns tasks assigned to the caller.
func (h *TaskHandler) ListAssigned(c echo.Context) error {
	userID, _ := GetUserID(c)

	tasks, err := h.tasks.ListAssigned(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, echo.Map{"tasks": tasks})
}

// ListAccessible returns every task in a project the caller can see.
func (h *TaskHandler) ListAccessible(c echo.Context) error {
	userID, _ := GetUserID(c)

	tasks, err := h.tasks.ListAccessible(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, echo.Map{"tasks": tasks})
}

// Create makes a new task under the feature.
func (h *TaskHandler) Create(c echo.Context) error {
	userID, _ := GetUserID(c)
	projectID, err := paramID(c, "projectID")
	if err != nil {
		return err
	}
	featureID, err := paramID(c, "featureID")
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	start, err := parseOptionalDate("start_date", req.StartDate)
	if err != nil {
		return err
	}
	due, err := parseOptionalDate("due_date", req.DueDate)
	if err != nil {
		return err
	}

	// The web client creates tasks in the backlog state unless told
	// otherwise.
	status := req.Status
	if status == "" {
		status = string(domain.TaskNotStarted)
	}

	task, err := h.tasks.Create(c.Request().Context(), projectID, featureID, userID, service.CreateTaskInput{
		Name:        req.Name,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Status:      status,
		Priority:    req.Priority,
		StartDate:   start,
		DueDate:     due,
	})
	if err != nil {
		return err
	}
	return JSON(c, http.StatusCreated, task)
}

// Update applies the provided fields to a task.
func (h *TaskHandler) Update(c echo.Context) error {
	userID, _ := GetUserID(c)
	projectID, err := paramID(c, "projectID")
	if err != nil {
		return err
	}
	featureID, err := paramID(c, "featureID")
	if err != nil {
		return err
	}
	taskID, err := paramID(c, "taskID")
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}

	start, err := parseOptionalDate("start_date", req.StartDate)
	if err != nil {
		return err
	}
	due, err := parseOptionalDate("due_date", req.DueDate)
	if err != nil {
		return err
	}

	task, err := h.tasks.Update(c.Request().Context(), projectID, featureID, taskID, userID, service.UpdateTaskInput{
		Name:        req.Name,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   start,
		DueDate:     due,
	})
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, task)
}

// Toggle flips a task between "Completed" and "Not Started".
func (h *TaskHandler) Toggle(c echo.Context) error {
	userID, _ := GetUserID(c)
	taskID, err := paramID(c, "taskID")
	if err != nil {
		return err
	}

	task, err := h.tasks.Toggle(c.Request().Context(), taskID, userID)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, task)
}

// Delete removes a task.
func (h *TaskHandler) Delete(c echo.Context) error {
	userID, _ := GetUserID(c)
	projectID, err := paramID(c, "projectID")
	if err != nil {
		return err
	}
	featureID, err := paramID(c, "featureID")
	if err != nil {
		return err
	}
	taskID, err := paramID(c, "taskID")
	if err != nil {
		return err
	}

	if err := h.tasks.Delete(c.Request().Context(), projectID, featureID, taskID, userID); err != nil {
		return err
	}
	return JSON(c, http.StatusOK, echo.Map{"message": "Task successfully deleted"})
}
