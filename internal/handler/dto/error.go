package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/capmoment/captionroom/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code string, message string) {
	message = err.Error()

	switch {
	// Room errors
	case errors.Is(err, domain.ErrRoomNotFound):
		return http.StatusNotFound, "ROOM_NOT_FOUND", message
	case errors.Is(err, domain.ErrInvalidRoomID):
		return http.StatusBadRequest, "INVALID_ROOM_ID", message

	// Image errors
	case errors.Is(err, domain.ErrImageNotFound):
		return http.StatusNotFound, "IMAGE_NOT_FOUND", message
	case errors.Is(err, domain.ErrImageTrashed):
		return http.StatusConflict, "IMAGE_DELETED", message
	case errors.Is(err, domain.ErrUnsupportedImage):
		return http.StatusUnprocessableEntity, "UNSUPPORTED_IMAGE", message
	case errors.Is(err, domain.ErrNoFilesUploaded):
		return http.StatusUnprocessableEntity, "NO_FILES", message
	case errors.Is(err, domain.ErrInvalidImageName):
		return http.StatusBadRequest, "INVALID_IMAGE_NAME", message

	// Caption errors
	case errors.Is(err, domain.ErrEmptyCaption):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message

	// Permission errors
	case errors.Is(err, domain.ErrInvalidHostToken):
		return http.StatusForbidden, "INVALID_HOST_TOKEN", message

	// Default: internal server error
	default:
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}
