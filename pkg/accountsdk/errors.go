package accountsdk

import (
	"fmt"
	"net/http"

	"github.com/clipboardhq/clipboard/pkg/httpx"
)

// API error codes.
const (
	ErrorCodeValidation         = "validation_error"
	ErrorCodeUserExists         = "user_exists"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeUnauthorized       = "unauthorized"
	ErrorCodeInvalidToken       = "invalid_token"
	ErrorCodeForbidden          = "forbidden"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeInvalidResetToken  = "invalid_reset_token"
	ErrorCodeServerError        = "server_error"
)

// APIError is the error envelope every endpoint returns. It implements the
// error interface so the SDK client can surface server errors directly.
type APIError struct {
	// StatusCode is the HTTP status for this error.
	StatusCode int `json:"-"`

	// Code is the machine-readable error code.
	Code string `json:"error"`

	// Message is a human-readable description. For server errors it is
	// deliberately generic; details stay in the server logs.
	Message string `json:"message"`

	// Fields holds per-field validation messages, when applicable.
	Fields map[string]string `json:"fields,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	httpx.WriteJSON(w, e.StatusCode, e)
}

// NewValidationError builds a 400 validation error carrying field messages.
func NewValidationError(fields map[string]string) *APIError {
	return &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeValidation,
		Message:    "request validation failed",
		Fields:     fields,
	}
}

var (
	// ErrUserExists is returned when registering an email that is taken.
	ErrUserExists = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeUserExists,
		Message:    "a user with this email already exists",
	}

	// ErrInvalidCredentials is returned on failed password login.
	ErrInvalidCredentials = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeInvalidCredentials,
		Message:    "invalid email or password",
	}

	// ErrUnauthorized is returned when no credentials are presented.
	ErrUnauthorized = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeUnauthorized,
		Message:    "authentication required",
	}

	// ErrInvalidToken is returned for invalid or expired tokens.
	ErrInvalidToken = &APIError{
		StatusCode: http.StatusForbidden,
		Code:       ErrorCodeInvalidToken,
		Message:    "invalid or expired token",
	}

	// ErrForbidden is returned when the identity lacks the required role.
	ErrForbidden = &APIError{
		StatusCode: http.StatusForbidden,
		Code:       ErrorCodeForbidden,
		Message:    "insufficient permissions",
	}

	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = &APIError{
		StatusCode: http.StatusNotFound,
		Code:       ErrorCodeNotFound,
		Message:    "resource not found",
	}

	// ErrInvalidResetToken is returned when redeeming an unknown or expired
	// password reset token.
	ErrInvalidResetToken = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeInvalidResetToken,
		Message:    "invalid or expired reset token",
	}

	// ErrServerError is the generic 500. The real error is logged server-side.
	ErrServerError = &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       ErrorCodeServerError,
		Message:    "an internal error occurred",
	}
)
