package usecase

import (
	"fmt"
	"strings"
	"time"
)

// The service layer reports every failure as one of four error kinds.
// Handlers map them to HTTP status codes with errors.As; none of them is
// retried automatically.

// ValidationError carries the list of input failures. The caller can
// recover by correcting the input.
type ValidationError struct {
	Failures []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Failures, "; ")
}

func NewValidationError(failures ...string) *ValidationError {
	return &ValidationError{Failures: failures}
}

// ConflictError reports a state that blocks the operation: no inventory
// on a night, a cancellation outside the policy window, a suspended
// property. Night, when set, is the first blocked night.
type ConflictError struct {
	Message string
	Night   *time.Time
}

func (e *ConflictError) Error() string {
	if e.Night != nil {
		return fmt.Sprintf("%s (first unavailable night: %s)", e.Message, e.Night.Format("2006-01-02"))
	}
	return e.Message
}

// NotFoundError reports an unknown or out-of-scope resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// AuthorizationError reports that the acting account does not control the
// target property.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}
