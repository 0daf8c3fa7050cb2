package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned by the data services when a row does not exist.
var ErrNotFound = errors.New("record not found")

// AppError carries the HTTP status and the message shown to the client.
type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func newAppError(status int, format string, args ...any) *AppError {
	return &AppError{Status: status, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...any) *AppError {
	return newAppError(http.StatusBadRequest, format, args...)
}

func NotFound(format string, args ...any) *AppError {
	return newAppError(http.StatusNotFound, format, args...)
}

func Conflict(format string, args ...any) *AppError {
	return newAppError(http.StatusConflict, format, args...)
}

func Unauthorized(format string, args ...any) *AppError {
	return newAppError(http.StatusUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) *AppError {
	return newAppError(http.StatusForbidden, format, args...)
}

func TooManyRequests(format string, args ...any) *AppError {
	return newAppError(http.StatusTooManyRequests, format, args...)
}
