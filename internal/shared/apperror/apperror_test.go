package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"hr-lite/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_IsSurvivesWithDetails(t *testing.T) {
	sentinel := apperror.New(apperror.CodeConflict, "Name already taken", http.StatusConflict)
	withDetails := sentinel.WithDetails(apperror.DuplicateValue{Field: "name", Value: "Engineering"})

	assert.ErrorIs(t, withDetails, sentinel)
	assert.Nil(t, sentinel.Details)
	assert.False(t, errors.Is(withDetails, apperror.ErrValidation))
}

func TestToHTTP(t *testing.T) {
	t.Run("app error", func(t *testing.T) {
		err := fmt.Errorf("find: %w", apperror.RequiredField("first_name"))

		got := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusUnprocessableEntity, got.Status)
		assert.Equal(t, apperror.CodeValidation, got.Code)
		assert.Equal(t, apperror.FieldError{Field: "first_name", Reason: "First Name is required"}, got.Details)
	})

	t.Run("unknown error is hidden", func(t *testing.T) {
		got := apperror.ToHTTP(errors.New("pq: connection reset"))

		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, "Internal server error", got.Message)
		assert.Nil(t, got.Details)
	})
}

func TestMapValidationError(t *testing.T) {
	v := validator.New()
	v.RegisterTagNameFunc(apperror.TagName)

	tests := []struct {
		name   string
		input  any
		field  string
		reason string
	}{
		{
			name: "required",
			input: struct {
				FirstName string `json:"first_name" validate:"required"`
			}{},
			field:  "first_name",
			reason: "First Name is required",
		},
		{
			name: "string min",
			input: struct {
				Name string `json:"name" validate:"min=2"`
			}{Name: "A"},
			field:  "name",
			reason: "Name must be at least 2 characters long",
		},
		{
			name: "numeric max",
			input: struct {
				Limit int `form:"limit" validate:"max=100"`
			}{Limit: 101},
			field:  "limit",
			reason: "Limit must be at most 100",
		},
		{
			name: "uuid",
			input: struct {
				DepartmentID string `form:"department_id" validate:"uuid"`
			}{DepartmentID: "abc"},
			field:  "department_id",
			reason: "Department Id must be a valid UUID",
		},
		{
			name: "oneof",
			input: struct {
				Status string `json:"status" validate:"oneof=active inactive"`
			}{Status: "fired"},
			field:  "status",
			reason: "Status must be one of: active inactive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := apperror.MapValidationError(v.Struct(tt.input))

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, http.StatusUnprocessableEntity, appErr.HTTPStatus)
			assert.Equal(t, apperror.FieldError{Field: tt.field, Reason: tt.reason}, appErr.Details)
		})
	}

	t.Run("malformed body", func(t *testing.T) {
		err := apperror.MapValidationError(errors.New("unexpected EOF"))

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
		assert.Equal(t, apperror.FieldError{Reason: "Malformed request body"}, appErr.Details)
	})
}
