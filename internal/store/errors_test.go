package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{name: "wrapped ErrNotFound", err: fmt.Errorf("failed to do something: %w", ErrNotFound), expected: true},
		{name: "ErrAppliedExerciseNotFound", err: ErrAppliedExerciseNotFound, expected: true},
		{name: "ErrExerciseGroupNotFound", err: ErrExerciseGroupNotFound, expected: true},
		{name: "ErrSessionNotFound", err: ErrSessionNotFound, expected: true},
		{name: "wrapped ErrTrainingPlanNotFound", err: fmt.Errorf("plan p1: %w", ErrTrainingPlanNotFound), expected: true},
		{name: "ErrTrainingCycleNotFound", err: ErrTrainingCycleNotFound, expected: true},
		{name: "store error wrapping not found", err: NewStoreError("session", "find", "no row", ErrSessionNotFound), expected: true},
		{name: "ErrDuplicate", err: ErrDuplicate, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestEntityNotFoundErrorsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrSessionNotFound, ErrTrainingPlanNotFound))
	assert.Contains(t, ErrTrainingCycleNotFound.Error(), "training cycle")
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(fmt.Errorf("insert: %w", ErrDuplicate)))
	assert.False(t, IsDuplicateError(ErrNotFound))
	assert.False(t, IsDuplicateError(nil))
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection reset")

	withCause := NewStoreError("training plan", "save", "failed to upsert row", cause)
	assert.Equal(t, "save operation on training plan failed: failed to upsert row: connection reset", withCause.Error())
	assert.ErrorIs(t, withCause, cause)

	var target *StoreError
	assert.True(t, errors.As(fmt.Errorf("outer: %w", withCause), &target))
	assert.Equal(t, "training plan", target.Entity)

	noCause := NewStoreError("session", "delete", "refused", nil)
	assert.Equal(t, "delete operation on session failed: refused", noCause.Error())
	assert.Nil(t, noCause.Unwrap())
}
