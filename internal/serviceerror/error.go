package serviceerror

import (
	"errors"
	"fmt"
	"net/http"
)

// ServiceErrorType distinguishes caller faults from server faults
type ServiceErrorType string

const (
	ClientErrorType ServiceErrorType = "client_error"
	ServerErrorType ServiceErrorType = "server_error"
)

// ServiceError is the error returned by every service operation
type ServiceError struct {
	Code             string           `json:"code"`
	Type             ServiceErrorType `json:"type"`
	Message          string           `json:"error"`
	ErrorDescription string           `json:"error_description,omitempty"`

	status int
	cause  error
}

var (
	ValidationError = ServiceError{
		Type:             ClientErrorType,
		Code:             "CWE-4001",
		Message:          "validation_error",
		ErrorDescription: "Validation failed",
		status:           http.StatusBadRequest,
	}

	ForbiddenError = ServiceError{
		Type:             ClientErrorType,
		Code:             "CWE-4003",
		Message:          "forbidden",
		ErrorDescription: "The caller is not allowed to perform this action",
		status:           http.StatusForbidden,
	}

	NotFoundError = ServiceError{
		Type:             ClientErrorType,
		Code:             "CWE-4004",
		Message:          "resource_not_found",
		ErrorDescription: "Resource not found",
		status:           http.StatusNotFound,
	}

	InvalidTransitionError = ServiceError{
		Type:             ClientErrorType,
		Code:             "CWE-4091",
		Message:          "invalid_transition",
		ErrorDescription: "The requested stage transition is not allowed",
		status:           http.StatusConflict,
	}

	ConflictError = ServiceError{
		Type:             ClientErrorType,
		Code:             "CWE-4092",
		Message:          "conflict",
		ErrorDescription: "The record was modified concurrently",
		status:           http.StatusConflict,
	}

	StoreError = ServiceError{
		Type:             ServerErrorType,
		Code:             "CWE-5001",
		Message:          "store_error",
		ErrorDescription: "A persistence call failed",
		status:           http.StatusInternalServerError,
	}
)

// CustomServiceError copies a base error with a caller facing description
func CustomServiceError(baseError ServiceError, description string) *ServiceError {
	return &ServiceError{
		Type:             baseError.Type,
		Code:             baseError.Code,
		Message:          baseError.Message,
		ErrorDescription: description,
		status:           baseError.status,
	}
}

// Validation returns a ValidationError with a formatted description
func Validation(format string, args ...interface{}) *ServiceError {
	return CustomServiceError(ValidationError, fmt.Sprintf(format, args...))
}

// NotFound returns a NotFoundError naming the missing entity
func NotFound(entity, id string) *ServiceError {
	return CustomServiceError(NotFoundError, fmt.Sprintf("%s not found: %s", entity, id))
}

// InvalidTransition returns an InvalidTransitionError with a formatted description
func InvalidTransition(format string, args ...interface{}) *ServiceError {
	return CustomServiceError(InvalidTransitionError, fmt.Sprintf(format, args...))
}

// Conflict returns a ConflictError for the given entity
func Conflict(entity, id string) *ServiceError {
	return CustomServiceError(ConflictError, fmt.Sprintf("%s %s was modified concurrently, retry the request", entity, id))
}

// Forbidden returns a ForbiddenError with the given description
func Forbidden(description string) *ServiceError {
	return CustomServiceError(ForbiddenError, description)
}

// Store wraps a persistence failure, keeping the driver message
func Store(op string, cause error) *ServiceError {
	e := CustomServiceError(StoreError, fmt.Sprintf("%s: %v", op, cause))
	e.cause = cause
	return e
}

func (e *ServiceError) Error() string {
	if e.ErrorDescription == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDescription
}

// Unwrap returns the wrapped store error, if any
func (e *ServiceError) Unwrap() error {
	return e.cause
}

// Is matches any ServiceError with the same code
func (e *ServiceError) Is(target error) bool {
	var t *ServiceError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// HTTPStatus returns the HTTP status for the error
func (e *ServiceError) HTTPStatus() int {
	if e.status == 0 {
		return http.StatusInternalServerError
	}
	return e.status
}

// As extracts a ServiceError from err
func As(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsKind reports whether err carries the code of kind
func IsKind(err error, kind ServiceError) bool {
	se, ok := As(err)
	return ok && se.Code == kind.Code
}
