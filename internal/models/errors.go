package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorKind classifies failures at the service boundary.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindUnauthenticated
	KindPermissionDenied
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindUnauthenticated:
		return "UNAUTHENTICATED"
	case KindPermissionDenied:
		return "PERMISSION_DENIED"
	case KindNotFound:
		return "NOT_FOUND"
	default:
		return "INTERNAL_ERROR"
	}
}

// HTTPStatus maps the kind to the status code used on the wire.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindUnauthenticated:
		return fiber.StatusUnauthorized
	case KindPermissionDenied:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// AppError represents a custom application error.
// Message is always safe to show to end users; Err carries the internal cause.
type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(kind ErrorKind, message string, err error) *AppError {
	return &AppError{Kind: kind, Code: kind.String(), Message: message, Err: err}
}

// Predefined error constructors
func NewValidationError(message string) *AppError {
	return newAppError(KindValidation, message, nil)
}

func NewUnauthenticatedError(message string) *AppError {
	return newAppError(KindUnauthenticated, message, nil)
}

func NewPermissionDeniedError(message string, err error) *AppError {
	return newAppError(KindPermissionDenied, message, err)
}

func NewNotFoundError(message string, err error) *AppError {
	return newAppError(KindNotFound, message, err)
}

func NewInternalError(err error) *AppError {
	return newAppError(KindUnknown, "Something went wrong. Please try again.", err)
}

// KindOf returns the kind carried by err, or KindUnknown for untyped errors.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// RespondWithError writes the {success:false} envelope. Untyped errors are
// reported with the generic retry message so driver text never leaks.
func RespondWithError(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewInternalError(err)
	}

	return c.Status(appErr.Kind.HTTPStatus()).JSON(ErrorResponse{
		Success: false,
		Message: appErr.Message,
		Code:    appErr.Code,
	})
}
