package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError signals malformed or out-of-range input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Validationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError signals a missing resource, or one not visible to the caller.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NotFoundf(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError signals a resource in a state that forbids the requested
// action, e.g. drawing a ball on a completed game.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func Conflictf(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// StatusCode maps an error to the HTTP status controllers respond with.
// Unrecognized errors map to 500.
func StatusCode(err error) int {
	var ve *ValidationError
	var nfe *NotFoundError
	var ce *ConflictError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &nfe):
		return http.StatusNotFound
	case errors.As(err, &ce):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
