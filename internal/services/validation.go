package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/youlserf/recipehub/internal/repositories"
)

// FieldError describes a single failed validation rule
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// NewValidator returns a validator that reports fields by their JSON names
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FormatValidationErrors converts validator errors into readable field errors
func FormatValidationErrors(validationErrors validator.ValidationErrors) []FieldError {
	var out []FieldError

	for _, err := range validationErrors {
		var message string

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "uuid":
			message = fmt.Sprintf("%s must be a valid UUID", err.Field())
		default:
			message = fmt.Sprintf("%s is invalid", err.Field())
		}

		out = append(out, FieldError{
			Field:   err.Field(),
			Tag:     err.Tag(),
			Value:   fmt.Sprintf("%v", err.Value()),
			Message: message,
		})
	}

	return out
}

// validateRequest runs struct validation and wraps failures as a
// ValidationFailed repository error.
func validateRequest(v *validator.Validate, id string, req interface{}) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return repositories.ValidationError("recipe", id, err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range FormatValidationErrors(validationErrors) {
		messages = append(messages, fe.Message)
	}
	return repositories.ValidationError("recipe", id, errors.New(strings.Join(messages, "; ")))
}
