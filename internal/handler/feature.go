package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trajectory-pm/trajectory/internal/domain"
	"github.com/trajectory-pm/trajectory/internal/service"
)

// FeatureHandler handles feature endpoints under a project.
type FeatureHandler struct {
	features *service.FeatureService
}

// NewFeatureHandler creates a new FeatureHandler.
func NewFeatureHandler(features *service.FeatureService) *FeatureHandler {
	return &FeatureHandler{features: features}
}

type createFeatureRequest struct {
	Name        string  `json:"name" validate:"required,min=1"`
	Description *string `json:"description"`
	SprintID    *int64  `json:"sprint_id"`
	Status      string  `json:"status"`
	Priority    int     `json:"priority"`
}

type updateFeatureRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	SprintID    optionalID `json:"sprint_id"`
	Status      *string    `json:"status"`
	Priority    *int       `json:"priority"`
}

// List returns the project's features with their tasks nested.
func (h *FeatureHandler) List(c echo.Context) error {
	userID, _ := GetUserID(c)
	projectID, err := paramID(c, "projectID")
	if err != nil {
		return err
	}

	features, err := h.features.List(c.Request().Context(), projectID, userID)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, echo.Map{"features": features})
}

// Get returns one feature under the project.
func (h *FeatureHandler) Get(c echo.Context) error {
	userID, _ := GetUserID(c)
	projectID, err := paramID(c, "projectID")
	if err != nil {
		return err
	}
	featureID, err := paramID(c, "featureID")
	if err != nil {
		return err
	}

	feature, err := h.features.Get(c.Request().Context(), projectID, featureID, userID)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, feature)
}

// Create makes a new feature in the project.
func (h *FeatureHandler) Create(c echo.Context) error {
	userID, _ := GetUserID(c)
	projectID, err := paramID(c, "projectID")
	if err != nil {
		return err
	}

	var req createFeatureRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	feature, err := h.features.Create(c.Request().Context(), projectID, userID, service.CreateFeatureInput{
		Name:        req.Name,
		Description: req.Description,
		SprintID:    req.SprintID,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return JSON(c, http.StatusCreated, feature)
}

// Update applies the provided fields to a feature.
func (h *FeatureHandler) Update(c echo.Context) error {
	userID, _ := GetUserID(c)
	projectID, err := paramID(c, "projectID")
	if err != nil {
		return err
	}
	featureID, err := paramID(c, "featureID")
	if err != nil {
		return err
	}

	var req updateFeatureRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}

	feature, err := h.features.Update(c.Request().Context(), projectID, featureID, userID, service.UpdateFeatureInput{
		Name:        req.Name,
		Description: req.Description,
		SprintID:    req.SprintID.Value,
		ClearSprint: req.SprintID.Set && req.SprintID.Value == nil,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, feature)
}

// Delete removes a feature; its tasks cascade.
func (h *FeatureHandler) Delete(c echo.Context) error {
	userID, _ := GetUserID(c)
	projectID, err := paramID(c, "projectID")
	if err != nil {
		return err
	}
	featureID, err := paramID(c, "featureID")
	if err != nil {
		return err
	}

	if err := h.features.Delete(c.Request().Context(), projectID, featureID, userID); err != nil {
		return err
	}
	return JSON(c, http.StatusOK, echo.Map{"message": "Feature successfully deleted"})
}
