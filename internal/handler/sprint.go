package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trajectory-pm/trajectory/internal/domain"
	"github.com/trajectory-pm/trajectory/internal/service"
)

// SprintHandler handles sprint endpoints under a project.
type SprintHandler struct {
	sprints *service.SprintService
}

// NewSprintHandler creates a new SprintHandler.
func NewSprintHandler(sprints *service.SprintService) *SprintHandler {
	return &SprintHandler{sprints: sprints}
}

type sprintRequest struct {
	Name      string  `json:"name" validate:"required,min=1"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

func (r sprintRequest) toInput() (service.SprintInput, error) {
	start, err := parseOptionalDate("start_date", r.StartDate)
	if err != nil {
		return service.SprintInput{}, err
	}
	end, err := parseOptionalDate("end_date", r.EndDate)
	if err != nil {
		return service.SprintInput{}, err
	}
	return service.SprintInput{Name: r.Name, StartDate: start, EndDate: end}, nil
}

// List returns the project's sprints.
func (h *SprintHandler) List(c echo.Context) error {
	userID, _ := GetUserID(c)
	projectID, err := paramID(c, "projectID")
	if err != nil {
		return err
	}

	sprints, err := h.sprints.List(c.Request().Context(), projectID, userID)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, echo.Map{"sprints": sprints})
}

// Create makes a new sprint in the project.
func (h *SprintHandler) Create(c echo.Context) error {
	userID, _ := GetUserID(c)
	projectID, err := paramID(c, "projectID")
	if err != nil {
		return err
	}

	var req sprintRequest
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

	sprint, err := h.sprints.Create(c.Request().Context(), projectID, userID, in)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusCreated, sprint)
}

// Update overwrites a sprint's name and dates.
func (h *SprintHandler) Update(c echo.Context) error {
	userID, _ := GetUserID(c)
	projectID, err := paramID(c, "projectID")
	if err != nil {
		return err
	}
	sprintID, err := paramID(c, "sprintID")
	if err != nil {
		return err
	}

	var req sprintRequest
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

	sprint, err := h.sprints.Update(c.Request().Context(), projectID, sprintID, userID, in)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, sprint)
}

// Delete removes a sprint.
func (h *SprintHandler) Delete(c echo.Context) error {
	userID, _ := GetUserID(c)
	projectID, err := paramID(c, "projectID")
	if err != nil {
		return err
	}
	sprintID, err := paramID(c, "sprintID")
	if err != nil {
		return err
	}

	if err := h.sprints.Delete(c.Request().Context(), projectID, sprintID, userID); err != nil {
		return err
	}
	return JSON(c, http.StatusOK, echo.Map{"message": "Sprint successfully deleted"})
}
