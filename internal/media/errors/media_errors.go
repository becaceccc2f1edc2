package mediaerrors

import (
	"hr-lite/internal/shared/apperror"
	"net/http"
)

var (
	ErrUnsupportedMediaType = apperror.New(
		apperror.CodeUnsupportedMediaType,
		"Unsupported image type (only JPEG, PNG, WEBP allowed)",
		http.StatusBadRequest,
	)
	ErrPayloadTooLarge = apperror.New(
		apperror.CodePayloadTooLarge,
		"Image size exceeds 2 MB limit",
		http.StatusBadRequest,
	)
)
