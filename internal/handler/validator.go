package handler

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/trajectory-pm/trajectory/internal/domain"
)

// AppValidator wraps go-playground/validator for echo.
type AppValidator struct {
	validator *validator.Validate
}

// NewAppValidator creates a new AppValidator.
func NewAppValidator() *AppValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	return &AppValidator{validator: v}
}

// Validate validates a struct using go-playground/validator tags. Every
// failing field is reported, not just the first, so the client can fix a
// request in one pass.
func (v *AppValidator) Validate(i any) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	out := make(domain.ValidationErrors, len(validationErrors))
	for i, fe := range validationErrors {
		out[i] = &domain.ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed on '%s' validation", fe.Tag()),
		}
	}
	return out
}
