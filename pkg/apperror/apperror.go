// Package apperror translates internal errors into HTTP-facing codes.
package apperror

import (
	"errors"
	"net/http"

	"github.com/deskview/deskview/internal/domain"
)

// AppError is an error with an HTTP status and a stable machine code.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *AppError) Error() string {
	return e.Message
}

var (
	ErrBadRequest     = &AppError{Code: "BAD_REQUEST", Message: "Bad request", Status: http.StatusBadRequest}
	ErrUnauthorized   = &AppError{Code: "UNAUTHORIZED", Message: "Unauthorized", Status: http.StatusUnauthorized}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Not found", Status: http.StatusNotFound}
	ErrTooManyRequests = &AppError{Code: "TOO_MANY_REQUESTS", Message: "Too many requests", Status: http.StatusTooManyRequests}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "Internal server error", Status: http.StatusInternalServerError}
)

func NewBadRequest(message string) *AppError {
	return &AppError{Code: "BAD_REQUEST", Message: message, Status: http.StatusBadRequest}
}

func NewUnauthorized(message string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: message, Status: http.StatusUnauthorized}
}

func NewInternalServer(message string) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: message, Status: http.StatusInternalServerError}
}

// MapError converts any error into an AppError. Invalid filters are client
// errors; malformed datasets surface as internal errors because the client
// cannot fix them.
func MapError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var filterErr *domain.InvalidFilterError
	if errors.As(err, &filterErr) {
		return NewBadRequest(filterErr.Error())
	}

	var inputErr *domain.MalformedInputError
	if errors.As(err, &inputErr) {
		return &AppError{Code: "MALFORMED_DATASET", Message: inputErr.Error(), Status: http.StatusInternalServerError}
	}

	return ErrInternalServer
}
