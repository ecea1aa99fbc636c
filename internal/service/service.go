package service

import (
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/liftplan/internal/domain"
	"github.com/phrazzld/liftplan/internal/store"
)

// Stores bundles the stores the services coordinate. Plans and Cycles must
// cascade to the child stores the same way the persistence layer wires them.
type Stores struct {
	Exercises store.AppliedExerciseStore
	Groups    store.ExerciseGroupStore
	Sessions  store.SessionStore
	Plans     store.TrainingPlanStore
	Cycles    store.TrainingCycleStore
}

func (s Stores) validate(service string) error {
	const operation = "create_service"
	switch {
	case s.Exercises == nil:
		return &ServiceError{Service: service, Operation: operation, Message: "exercise store cannot be nil"}
	case s.Groups == nil:
		return &ServiceError{Service: service, Operation: operation, Message: "group store cannot be nil"}
	case s.Sessions == nil:
		return &ServiceError{Service: service, Operation: operation, Message: "session store cannot be nil"}
	case s.Plans == nil:
		return &ServiceError{Service: service, Operation: operation, Message: "plan store cannot be nil"}
	case s.Cycles == nil:
		return &ServiceError{Service: service, Operation: operation, Message: "cycle store cannot be nil"}
	}
	return nil
}

// Clock returns the current time. domain.Now is the default.
type Clock func() time.Time

// expected reports whether err is a caller mistake rather than a failure of
// the service.
func expected(err error) bool {
	return store.IsNotFoundError(err) ||
		errors.Is(err, ErrNotOwned) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrNotInAggregate)
}

// fail logs err at a level matching its kind and wraps it for the caller.
func fail(log *slog.Logger, service, operation, message string, err error, args ...any) error {
	args = append(args, slog.String("operation", operation), slog.String("error", err.Error()))
	if expected(err) {
		log.Debug(message, args...)
	} else {
		log.Error(message, args...)
	}
	return NewServiceError(service, operation, message, err)
}
