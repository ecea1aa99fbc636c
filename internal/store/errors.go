package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// The entity-specific errors below wrap it.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an insert collides with an existing row.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when a row cannot be turned back into a
	// domain value, for example a stored set configuration with an unknown type.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction cannot be
	// opened or committed.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrAppliedExerciseNotFound indicates that the requested applied exercise does not exist.
	ErrAppliedExerciseNotFound = fmt.Errorf("%w: applied exercise", ErrNotFound)

	// ErrExerciseGroupNotFound indicates that the requested exercise group does not exist.
	ErrExerciseGroupNotFound = fmt.Errorf("%w: exercise group", ErrNotFound)

	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)

	// ErrTrainingPlanNotFound indicates that the requested training plan does not exist.
	ErrTrainingPlanNotFound = fmt.Errorf("%w: training plan", ErrNotFound)

	// ErrTrainingCycleNotFound indicates that the requested training cycle does not exist.
	ErrTrainingCycleNotFound = fmt.Errorf("%w: training cycle", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
// Every entity-specific not found error wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "training plan", "session")
	Operation string // The operation that failed (e.g., "save", "delete")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
