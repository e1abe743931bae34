package models

import "errors"

// APIError represents a standardized, operation-scoped error returned to API clients
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error code constants
const (
	ErrCodeUnauthenticated    = "UNAUTHENTICATED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeDuplicateEmail     = "DUPLICATE_EMAIL"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeInternalServer     = "INTERNAL_SERVER_ERROR"
)

// Sentinel errors, compared by code with errors.Is
var (
	ErrUnauthenticated    = NewAPIError(ErrCodeUnauthenticated, "Authentication required")
	ErrForbidden          = NewAPIError(ErrCodeForbidden, "Admin access required")
	ErrInvalidCredentials = NewAPIError(ErrCodeInvalidCredentials, "Invalid credentials")
	ErrAccountFlagged     = NewAPIError(ErrCodeInvalidCredentials, "Your account has been flagged. Please contact administrator.")
	ErrDuplicateEmail     = NewAPIError(ErrCodeDuplicateEmail, "Email already exists")
	ErrNotFound           = NewAPIError(ErrCodeNotFound, "Employee not found")
	ErrValidation         = NewAPIError(ErrCodeValidationFailed, "Validation failed")
	ErrInternal           = NewAPIError(ErrCodeInternalServer, "Internal server error")
)

// NewAPIError creates a new API error with the given code and message
func NewAPIError(code, message string, details ...map[string]interface{}) *APIError {
	err := &APIError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// NewForbiddenError builds a FORBIDDEN error with a specific message
func NewForbiddenError(message string) *APIError {
	return NewAPIError(ErrCodeForbidden, message)
}

// NewValidationError builds a VALIDATION_FAILED error, optionally with per-field details
func NewValidationError(message string, fields map[string]interface{}) *APIError {
	if len(fields) == 0 {
		return NewAPIError(ErrCodeValidationFailed, message)
	}
	return NewAPIError(ErrCodeValidationFailed, message, fields)
}

func (e *APIError) Error() string {
	return e.Message
}

// Is matches any APIError carrying the same code
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Code == e.Code
}

// Extensions exposes the code (and details) in the GraphQL error payload
func (e *APIError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.Code}
	for k, v := range e.Details {
		ext[k] = v
	}
	return ext
}

// AsAPIError extracts an APIError from an error chain
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
