package errors

import (
	"fmt"
)

// APIError is the error body returned by every endpoint.
// Title and Description are what clients show to the user.
type APIError struct {
	Code        ErrorCode `json:"code"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Field       string    `json:"field,omitempty"`
	Status      int       `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Title, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Title)
}

func newError(code ErrorCode, title, description string) *APIError {
	return &APIError{
		Code:        code,
		Title:       title,
		Description: description,
		Status:      code.StatusCode(),
	}
}

// NotFound creates a NOT_FOUND error
func NotFound(resource string) *APIError {
	return newError(ErrNotFound,
		fmt.Sprintf("%s not found", resource),
		fmt.Sprintf("The requested %s does not exist.", resource))
}

// BadRequest creates a BAD_REQUEST error
func BadRequest(title, description string) *APIError {
	return newError(ErrBadRequest, title, description)
}

// ValidationError creates a VALIDATION_ERROR for a single request field
func ValidationError(field, description string) *APIError {
	e := newError(ErrValidation, "Invalid input", description)
	e.Field = field
	return e
}

// InternalError creates an INTERNAL_ERROR
func InternalError(description string) *APIError {
	return newError(ErrInternalError, "Internal server error", description)
}

// ServiceUnavailable creates a SERVICE_UNAVAILABLE error
func ServiceUnavailable(service string) *APIError {
	return newError(ErrServiceUnavail,
		"Service unavailable",
		fmt.Sprintf("%s is temporarily unavailable", service))
}

// Timeout creates a TIMEOUT error
func Timeout(operation string) *APIError {
	return newError(ErrTimeout, "Request timed out", fmt.Sprintf("%s timed out", operation))
}
