package apperror

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// formatFieldName turns first_name into "First Name".
func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

// MapValidationError converts a binding failure into a 422 AppError.
// Only the first failing field is reported.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		e := errs[0]
		field := e.Field()
		human := formatFieldName(field)

		switch e.Tag() {
		case "required":
			return RequiredField(field)
		case "min":
			if isNumber(e.Kind()) {
				return Validation(field, fmt.Sprintf("%s must be at least %s", human, e.Param()))
			}
			return Validation(field, fmt.Sprintf("%s must be at least %s characters long", human, e.Param()))
		case "max":
			if isNumber(e.Kind()) {
				return Validation(field, fmt.Sprintf("%s must be at most %s", human, e.Param()))
			}
			return Validation(field, fmt.Sprintf("%s must be at most %s characters long", human, e.Param()))
		case "email":
			return Validation(field, fmt.Sprintf("%s must be a valid email address", human))
		case "uuid":
			return Validation(field, fmt.Sprintf("%s must be a valid UUID", human))
		case "datetime":
			return Validation(field, fmt.Sprintf("%s must be formatted as YYYY-MM-DD", human))
		case "oneof":
			return Validation(field, fmt.Sprintf("%s must be one of: %s", human, e.Param()))
		default:
			return InvalidField(field)
		}
	}

	return ErrValidation.WithDetails(FieldError{Reason: "Malformed request body"})
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
