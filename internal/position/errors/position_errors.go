package positionerrors

import (
	"hr-lite/internal/shared/apperror"
	"net/http"
)

var (
	ErrPositionNotFound = apperror.New(
		apperror.CodeNotFound,
		"Position not found",
		http.StatusNotFound,
	)
	ErrPositionTitleTaken = apperror.New(
		apperror.CodeConflict,
		"Position with this title already exists",
		http.StatusConflict,
	)
	ErrPositionInUse = apperror.New(
		apperror.CodeConflict,
		"Position is still assigned to employees",
		http.StatusConflict,
	)
)
