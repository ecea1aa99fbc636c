package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is wrapped by *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrIndexOutOfRange is returned by reorder mutators given a position
	// outside the child list.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrNotInAggregate is returned when a child id is not owned by the
	// aggregate being changed.
	ErrNotInAggregate = errors.New("not found in aggregate")

	// ErrDuplicateID is returned when adding a child whose id is already present.
	ErrDuplicateID = errors.New("duplicate id")
)
