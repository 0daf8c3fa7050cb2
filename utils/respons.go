package utils

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const internalErrorMessage = "Internal server error"

// DataResponse is the success envelope.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

func RespondJSON(c *gin.Context, code int, data interface{}) {
	c.JSON(code, DataResponse{Data: data})
}

// RespondError maps err onto a status code and writes the error envelope.
// Errors that are not part of the taxonomy are logged and hidden behind a
// generic 500 message.
func RespondError(c *gin.Context, err error) {
	status, message := StatusFor(err)
	if status >= http.StatusInternalServerError && ErrorLogger != nil {
		ErrorLogger.WithError(err).
			WithField("path", c.Request.URL.Path).
			Error("request failed")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}

// StatusFor resolves the status code and client message for err.
func StatusFor(err error) (int, string) {
	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		return appErr.Status, appErr.Message
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "Request cancelled"
	default:
		return http.StatusInternalServerError, internalErrorMessage
	}
}

// RecoveryHandler is the catch-all boundary for panics raised by handlers.
func RecoveryHandler(c *gin.Context, recovered any) {
	if ErrorLogger != nil {
		ErrorLogger.WithField("panic", recovered).
			WithField("path", c.Request.URL.Path).
			Error("recovered from panic")
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: internalErrorMessage})
}
