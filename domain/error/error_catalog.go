package error

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode string

// Error codes for different categories
const (
	// Authentication Errors (1xxx)
	ErrCodeUnauthenticated ErrorCode = "AUTH_1001"
	ErrCodeInvalidToken    ErrorCode = "AUTH_1003"
	ErrCodeTokenExpired    ErrorCode = "AUTH_1004"

	// Validation Errors (2xxx)
	ErrCodeValidation     ErrorCode = "VALID_2001"
	ErrCodeInvalidRequest ErrorCode = "VALID_2005"

	// Rate Limiting Errors (3xxx)
	ErrCodeRateLimitExceeded ErrorCode = "RATE_3001"

	// Lookup Errors (4xxx)
	ErrCodeNotFound ErrorCode = "NOTFOUND_4041"

	// Store Errors (5xxx)
	ErrCodeStore ErrorCode = "STORE_5001"

	// Server Errors (6xxx)
	ErrCodeInternalServerError  ErrorCode = "SERVER_6001"
	ErrCodeConfigurationError   ErrorCode = "SERVER_6003"
	ErrCodeExternalServiceError ErrorCode = "EXT_6004"
	ErrCodeUnsupported          ErrorCode = "UNSUPPORTED_6005"

	// Security Errors (7xxx)
	ErrCodeForbidden ErrorCode = "SEC_7003"

	// Audit Errors (8xxx)
	ErrCodeNotRevertible ErrorCode = "AUDIT_8001"
	ErrCodeNoActor       ErrorCode = "AUDIT_8002"
)

// AppError represents a structured application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Details != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Details)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target carries the same code, so sentinels work with errors.Is.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// Sentinels for errors.Is checks. Only the code is compared.
var (
	ErrNotFound        = &AppError{Code: ErrCodeNotFound, Message: "Not found"}
	ErrStore           = &AppError{Code: ErrCodeStore, Message: "Store operation failed"}
	ErrValidation      = &AppError{Code: ErrCodeValidation, Message: "Validation failed"}
	ErrUnsupported     = &AppError{Code: ErrCodeUnsupported, Message: "Operation not supported"}
	ErrNotRevertible   = &AppError{Code: ErrCodeNotRevertible, Message: "Audit log cannot be reverted"}
	ErrUnauthenticated = &AppError{Code: ErrCodeUnauthenticated, Message: "Authentication required"}
	ErrForbidden       = &AppError{Code: ErrCodeForbidden, Message: "Insufficient permissions"}
	ErrNoActor         = &AppError{Code: ErrCodeNoActor, Message: "No authenticated actor"}
	ErrCompanionAPI    = &AppError{Code: ErrCodeExternalServiceError, Message: "Companion API request failed"}
)

// Common error constructors

// NewStoreError wraps any failure coming from the data store
func NewStoreError(operation string, cause error) *AppError {
	return NewAppError(ErrCodeStore, "Store operation failed", fmt.Sprintf("Operation: %s", operation), cause)
}

// NewNotFoundError is raised when a lookup or write touched zero rows
func NewNotFoundError(entity, id string) *AppError {
	return NewAppError(ErrCodeNotFound, fmt.Sprintf("%s not found", entity), fmt.Sprintf("ID: %s", id), nil)
}

// NewValidationError is raised before any store call
func NewValidationError(field, details string) *AppError {
	return NewAppError(ErrCodeValidation, fmt.Sprintf("Invalid %s", field), details, nil)
}

// NewUnsupportedOperationError rejects an operation that is intentionally not implemented
func NewUnsupportedOperationError(operation string) *AppError {
	return NewAppError(ErrCodeUnsupported, "Operation not supported", fmt.Sprintf("Operation: %s", operation), nil)
}

// NewNotRevertibleError rejects a revert attempt on a log that fails the revertibility rule
func NewNotRevertibleError(logID, reason string) *AppError {
	return NewAppError(ErrCodeNotRevertible, "Audit log cannot be reverted", fmt.Sprintf("Log ID: %s, Reason: %s", logID, reason), nil)
}

// NewForbiddenError is raised when the actor's role lacks a capability
func NewForbiddenError(capability string) *AppError {
	return NewAppError(ErrCodeForbidden, "Insufficient permissions", fmt.Sprintf("Capability: %s", capability), nil)
}

// NewUnauthenticatedError is raised when no actor can be resolved
func NewUnauthenticatedError(details string) *AppError {
	return NewAppError(ErrCodeUnauthenticated, "Authentication required", details, nil)
}

// NewCompanionAPIError carries the error/message field of a non-2xx companion response
func NewCompanionAPIError(status int, message string) *AppError {
	return NewAppError(ErrCodeExternalServiceError, message, fmt.Sprintf("Status: %d", status), nil)
}

// ErrInternalServerError wraps unexpected failures
func ErrInternalServerError(details string, cause error) *AppError {
	return NewAppError(ErrCodeInternalServerError, "Internal server error", details, cause)
}

// ErrRateLimitExceeded is returned by the rate limit middleware
func ErrRateLimitExceeded(details string) *AppError {
	return NewAppError(ErrCodeRateLimitExceeded, "Too many requests", details, nil)
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsStoreError reports whether err is a StoreError
func IsStoreError(err error) bool {
	return errors.Is(err, ErrStore)
}

// IsValidationError reports whether err is a ValidationError
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// GetHTTPStatusCode maps an error to an HTTP status code
func GetHTTPStatusCode(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}

	switch appErr.Code {
	case ErrCodeUnauthenticated, ErrCodeInvalidToken, ErrCodeTokenExpired, ErrCodeNoActor:
		return http.StatusUnauthorized
	case ErrCodeValidation:
		return http.StatusUnprocessableEntity
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeStore:
		return http.StatusServiceUnavailable
	case ErrCodeExternalServiceError:
		return http.StatusBadGateway
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeNotRevertible:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message that is safe to show to API clients.
// Store causes carry driver text and are never included.
func PublicMessage(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return "Internal server error"
	}
	if appErr.Code == ErrCodeInternalServerError {
		return appErr.Message
	}
	if appErr.Details != "" && appErr.Code == ErrCodeValidation {
		return fmt.Sprintf("%s: %s", appErr.Message, appErr.Details)
	}
	return appErr.Message
}
