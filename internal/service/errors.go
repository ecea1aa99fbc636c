package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/phrazzld/liftplan/internal/domain"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is; the API layer maps them to HTTP
// status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different profile than
	// the one making the request. The API reports it as 404 so foreign ids
	// are indistinguishable from missing ones.
	ErrNotOwned = errors.New("resource is owned by another profile")
)

// ValidationFailedError is returned when input data breaks a domain rule.
// Issues use the same json paths as domain validation.
type ValidationFailedError struct {
	Entity string
	Issues []domain.Issue
}

// Error implements the error interface.
func (e *ValidationFailedError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = is.Path + ": " + is.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match domain.ErrValidation.
func (e *ValidationFailedError) Unwrap() error { return domain.ErrValidation }

func validationFailed(entity string, verr *domain.ValidationError) *ValidationFailedError {
	return &ValidationFailedError{Entity: entity, Issues: verr.Issues}
}

func invalidField(entity, path, code, message string) *ValidationFailedError {
	return &ValidationFailedError{
		Entity: entity,
		Issues: []domain.Issue{{Path: path, Code: code, Message: message}},
	}
}

// ServiceError wraps unexpected failures with the operation that hit them.
type ServiceError struct {
	// Service is the service that failed (e.g., "plan", "cycle")
	Service string
	// Operation is the operation that failed (e.g., "update_plan")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError. Expected conditions
// (ErrNotOwned and validation failures) are returned directly without
// wrapping.
func NewServiceError(service, operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotOwned) {
		return ErrNotOwned
	}
	var verr *ValidationFailedError
	if errors.As(err, &verr) {
		return verr
	}
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
