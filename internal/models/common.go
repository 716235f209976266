package models

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(code, message, details string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Common error codes for failures raised before a service is reached
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeInternalError   = "INTERNAL_ERROR"
	ErrCodeValidationError = "VALIDATION_ERROR"
)

// RoleAdmin is the caller role allowed to hard delete campaigns
const RoleAdmin = "admin"

// Actor identifies the caller of a mutating operation. Audit fields are filled from it.
type Actor struct {
	TenantID string
	UserID   string
	Role     string
}

// IsAdmin reports whether the actor holds the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// UserRef returns the user id for nullable audit columns
func (a Actor) UserRef() *string {
	if a.UserID == "" {
		return nil
	}
	id := a.UserID
	return &id
}

// ListResponse wraps a page of results
type ListResponse[T any] struct {
	Data     []T                 `json:"data"`
	Metadata *PaginationMetadata `json:"metadata,omitempty"`
}

// PaginationMetadata holds pagination metadata for responses
type PaginationMetadata struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}
