package handler

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// formatValidationErrors turns validator errors into a field→message map
func formatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["request"] = err.Error()
		return errors
	}

	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			errors[e.Field()] = "This field is required"
		case "required_with":
			errors[e.Field()] = fmt.Sprintf("This field is required when %s is set", e.Param())
		case "min":
			errors[e.Field()] = fmt.Sprintf("Must be at least %s characters", e.Param())
		case "max":
			errors[e.Field()] = fmt.Sprintf("Must be at most %s characters", e.Param())
		case "oneof":
			errors[e.Field()] = fmt.Sprintf("Must be one of: %s", e.Param())
		case "base64":
			errors[e.Field()] = "Must be valid base64 data"
		default:
			errors[e.Field()] = fmt.Sprintf("Failed validation: %s", e.Tag())
		}
	}

	return errors
}
