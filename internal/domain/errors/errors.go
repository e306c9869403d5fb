package errors

import (
	"errors"
	"fmt"
)

var (
	// Gateway errors
	ErrGatewayNotRegistered = errors.New("gateway type not registered")
	ErrGatewayConfigInvalid = errors.New("invalid gateway configuration")
	ErrGatewayNotFound      = errors.New("gateway configuration not found")

	// Webhook errors
	ErrSignatureInvalid = errors.New("webhook signature validation failed")
	ErrDuplicateWebhook = errors.New("webhook already processed")
	ErrPayloadNotJSON   = errors.New("webhook payload is not valid JSON")

	// Provider errors
	ErrProviderUnavailable   = errors.New("payment provider unavailable")
	ErrProviderRejected      = errors.New("request rejected by provider")
	ErrOperationNotSupported = errors.New("operation not supported by gateway")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidInput     = errors.New("invalid input")
)

// DomainError wraps errors with additional context
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
