package employeeerrors

import (
	"hr-lite/internal/shared/apperror"
	"net/http"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmailTaken = apperror.New(
		apperror.CodeConflict,
		"Employee with this email already exists",
		http.StatusConflict,
	)
	// The referenced row is missing, not the employee itself, so these
	// report 409 rather than 404.
	ErrDepartmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"Department does not exist",
		http.StatusConflict,
	)
	ErrPositionNotFound = apperror.New(
		apperror.CodeNotFound,
		"Position does not exist",
		http.StatusConflict,
	)
)
