package apperror

import (
	"fmt"
	"net/http"
)

var (
	ErrInternal = New(
		CodeInternalError,
		"Internal server error",
		http.StatusInternalServerError,
	)

	ErrValidation = New(
		CodeValidation,
		"Validation failed",
		http.StatusUnprocessableEntity,
	)

	ErrTooManyRequests = New(
		CodeTooManyRequests,
		"Too many requests",
		http.StatusTooManyRequests,
	)
)

// FieldError is the details payload of a validation failure.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// DuplicateValue is the details payload of a uniqueness conflict.
type DuplicateValue struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// Validation builds a 422 error tagged with the offending field.
func Validation(field, reason string) *AppError {
	return ErrValidation.WithDetails(FieldError{Field: field, Reason: reason})
}

func RequiredField(field string) *AppError {
	return Validation(field, fmt.Sprintf("%s is required", formatFieldName(field)))
}

func InvalidField(field string) *AppError {
	return Validation(field, fmt.Sprintf("%s is invalid", formatFieldName(field)))
}
