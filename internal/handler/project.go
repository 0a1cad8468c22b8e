package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trajectory-pm/trajectory/internal/domain"
	"github.com/trajectory-pm/trajectory/internal/service"
)

// ProjectHandler handles project CRUD and membership endpoints.
type ProjectHandler struct {
	projects *service.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projects *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

type projectRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"required,min=10,max=300"`
	DueDate     string `json:"due_date" validate:"required"`
}

func (r projectRequest) toInput() (service.ProjectInput, error) {
	due, err := parseDate("due_date", r.DueDate)
	if err != nil {
		return service.ProjectInput{}, err
	}
	return service.ProjectInput{
		Name:        r.Name,
		Description: r.Description,
		DueDate:     due,
	}, nil
}

// List returns the caller's owned and member projects.
func (h *ProjectHandler) List(c echo.Context) error {
	userID, _ := GetUserID(c)

	projects, err := h.projects.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, echo.Map{"projects": projects})
}

// Get returns one project, visible only to its owner or members.
func (h *ProjectHandler) Get(c echo.Context) error {
	userID, _ := GetUserID(c)
	id, err := paramID(c, "projectID")
	if err != nil {
		return err
	}

	project, err := h.projects.Get(c.Request().Context(), id, userID)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, project)
}

// Create makes a new project owned by the caller.
func (h *ProjectHandler) Create(c echo.Context) error {
	userID, _ := GetUserID(c)

	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}

	project, err := h.projects.Create(c.Request().Context(), userID, in)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusCreated, project)
}

// Update overwrites a project's fields.
func (h *ProjectHandler) Update(c echo.Context) error {
	userID, _ := GetUserID(c)
	id, err := paramID(c, "projectID")
	if err != nil {
		return err
	}

	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}

	project, err := h.projects.Update(c.Request().Context(), id, userID, in)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, project)
}

// Delete removes a project; owner only.
func (h *ProjectHandler) Delete(c echo.Context) error {
	userID, _ := GetUserID(c)
	id, err := paramID(c, "projectID")
	if err != nil {
		return err
	}

	if err := h.projects.Delete(c.Request().Context(), id, userID); err != nil {
		return err
	}
	return JSON(c, http.StatusOK, echo.Map{"message": "Successfully deleted"})
}

// AddMember grants a user membership of the project.
func (h *ProjectHandler) AddMember(c echo.Context) error {
	projectID, err := paramID(c, "projectID")
	if err != nil {
		return err
	}
	memberID, err := paramID(c, "userID")
	if err != nil {
		return err
	}

	project, err := h.projects.AddMember(c.Request().Context(), projectID, memberID)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, project)
}

// RemoveMember revokes membership; owner only.
func (h *ProjectHandler) RemoveMember(c echo.Context) error {
	userID, _ := GetUserID(c)
	projectID, err := paramID(c, "projectID")
	if err != nil {
		return err
	}
	memberID, err := paramID(c, "userID")
	if err != nil {
		return err
	}

	project, err := h.projects.RemoveMember(c.Request().Context(), projectID, userID, memberID)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, project)
}
