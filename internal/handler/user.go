package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trajectory-pm/trajectory/internal/service"
)

// UserHandler handles user lookup endpoints.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List returns every account in public form.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, echo.Map{"users": users})
}

// Get returns one account by id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := paramID(c, "userID")
	if err != nil {
		return err
	}

	user, err := h.users.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, user)
}

// ListForProject returns the project's owner and members.
func (h *UserHandler) ListForProject(c echo.Context) error {
	userID, _ := GetUserID(c)
	projectID, err := paramID(c, "projectID")
	if err != nil {
		return err
	}

	users, err := h.users.ListForProject(c.Request().Context(), projectID, userID)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, echo.Map{"users": users})
}
