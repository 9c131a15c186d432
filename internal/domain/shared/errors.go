package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrValidation          = NewDomainError("VALIDATION_ERROR", "Validation failed")
	ErrTransactionConflict = NewDomainError("TRANSACTION_CONFLICT", "Transaction conflicted with a concurrent write")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// SideEffectError reports a failure of a post-commit side effect (receipt
// issuing, history logging, mail rendering). The financial transaction that
// preceded it already committed and must never be rolled back, so callers
// surface this separately from financial errors.
type SideEffectError struct {
	Effect string // which side effect failed: "receipt", "history", "mail"
	Cause  error
}

// Error implements the error interface
func (e *SideEffectError) Error() string {
	return fmt.Sprintf("side effect %q failed: %v", e.Effect, e.Cause)
}

// Unwrap returns the underlying cause
func (e *SideEffectError) Unwrap() error {
	return e.Cause
}

// NewSideEffectError creates a new side effect error
func NewSideEffectError(effect string, cause error) *SideEffectError {
	return &SideEffectError{Effect: effect, Cause: cause}
}
