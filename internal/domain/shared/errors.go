package shared

import "strings"

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
	ErrNotFound     = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput = NewDomainError("VALIDATION_ERROR", "Invalid input provided")
)

// GateError reports a blocked step transition. Every unmet condition is
// surfaced as one message; the triggering call leaves all state untouched.
type GateError struct {
	Step    string   `json:"step"`
	Reasons []string `json:"reasons"`
}

// Error implements the error interface
func (e *GateError) Error() string {
	return "step " + e.Step + " blocked: " + strings.Join(e.Reasons, "; ")
}

// NewGateError creates a GateError for the given step
func NewGateError(step string, reasons []string) *GateError {
	return &GateError{Step: step, Reasons: reasons}
}
