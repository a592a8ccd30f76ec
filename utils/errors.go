package utils

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// AppError carries an HTTP status alongside a client-safe message.
// Errors may hold structured detail (e.g. the unavailable-items list).
type AppError struct {
	Code    int
	Message string
	Errors  interface{}
}

func (e *AppError) Error() string {
	return e.Message
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: message}
}

// NewInvalidTransitionError covers illegal status changes. Same 400 as
// validation failures but kept separate so callers can distinguish.
func NewInvalidTransitionError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message}
}

func NewInternalError() *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
}

// RespondAppError writes an error using the shared envelope. Unexpected
// errors are logged in full and masked outside development mode.
func RespondAppError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, JSONResponse{
			Success: false,
			Message: appErr.Message,
			Errors:  appErr.Errors,
		})
		return
	}

	ErrorLogger.Errorf("unexpected error: %v", err)

	message := "Internal server error"
	if os.Getenv("APP_ENV") == "development" {
		message = err.Error()
	}
	c.JSON(http.StatusInternalServerError, JSONResponse{
		Success: false,
		Message: message,
	})
}
