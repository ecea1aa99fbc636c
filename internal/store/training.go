package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/liftplan/internal/domain"
)

// AppliedExerciseStore persists applied exercises. Exercises are leaves of the
// aggregate tree and are normally saved through their group's store.
type AppliedExerciseStore interface {
	// Save upserts the exercise by id and returns it unchanged.
	Save(ctx context.Context, e *domain.AppliedExercise) (*domain.AppliedExercise, error)

	// FindByID returns ErrAppliedExerciseNotFound when no row exists.
	FindByID(ctx context.Context, id string) (*domain.AppliedExercise, error)

	// FindByIDs loads every requested exercise in one query. Missing ids are
	// omitted and the result follows the requested order.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.AppliedExercise, error)

	// FindAll returns every exercise of the profile.
	FindAll(ctx context.Context, profileID string) ([]*domain.AppliedExercise, error)

	// Delete removes the exercise. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error

	// WithTx returns a store bound to tx.
	WithTx(tx *sql.Tx) AppliedExerciseStore
}

// ExerciseGroupStore persists exercise groups together with their exercises.
type ExerciseGroupStore interface {
	// Save upserts the group and then every exercise it owns, atomically.
	Save(ctx context.Context, g *domain.ExerciseGroup) (*domain.ExerciseGroup, error)

	// FindByID returns ErrExerciseGroupNotFound when no row exists.
	FindByID(ctx context.Context, id string) (*domain.ExerciseGroup, error)

	// FindByIDs loads the groups in one query and all of their exercises in
	// one further batched call.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.ExerciseGroup, error)

	// FindAll returns every group of the profile, fully assembled.
	FindAll(ctx context.Context, profileID string) ([]*domain.ExerciseGroup, error)

	// Delete removes the group's exercises and then the group.
	Delete(ctx context.Context, id string) error

	// WithTx returns a store, and its child stores, bound to tx.
	WithTx(tx *sql.Tx) ExerciseGroupStore
}

// SessionStore persists sessions together with their groups.
type SessionStore interface {
	Save(ctx context.Context, s *domain.Session) (*domain.Session, error)
	// FindByID returns ErrSessionNotFound when no row exists.
	FindByID(ctx context.Context, id string) (*domain.Session, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Session, error)
	FindAll(ctx context.Context, profileID string) ([]*domain.Session, error)
	Delete(ctx context.Context, id string) error
	WithTx(tx *sql.Tx) SessionStore
}

// TrainingPlanStore persists training plans together with their sessions.
//
// Usage example:
//
//	saved, err := plans.Save(ctx, plan) // one transaction for the whole tree
//
//	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
//	    txPlans := plans.WithTx(tx)
//	    ...
//	})
type TrainingPlanStore interface {
	Save(ctx context.Context, p *domain.TrainingPlan) (*domain.TrainingPlan, error)
	// FindByID returns ErrTrainingPlanNotFound when no row exists.
	FindByID(ctx context.Context, id string) (*domain.TrainingPlan, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.TrainingPlan, error)
	// FindAll returns every plan of the profile, archived ones included,
	// ordered by order then creation time.
	FindAll(ctx context.Context, profileID string) ([]*domain.TrainingPlan, error)
	// FindActive returns the profile's plans that are not archived.
	FindActive(ctx context.Context, profileID string) ([]*domain.TrainingPlan, error)
	// FindByCycleID returns the plans that reference the cycle.
	FindByCycleID(ctx context.Context, cycleID string) ([]*domain.TrainingPlan, error)
	Delete(ctx context.Context, id string) error
	WithTx(tx *sql.Tx) TrainingPlanStore
}

// TrainingCycleStore persists training cycles. Deleting a cycle detaches the
// plans that reference it; plans are never deleted with their cycle.
type TrainingCycleStore interface {
	Save(ctx context.Context, c *domain.TrainingCycle) (*domain.TrainingCycle, error)
	// FindByID returns ErrTrainingCycleNotFound when no row exists.
	FindByID(ctx context.Context, id string) (*domain.TrainingCycle, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.TrainingCycle, error)
	FindAll(ctx context.Context, profileID string) ([]*domain.TrainingCycle, error)
	Delete(ctx context.Context, id string) error
	WithTx(tx *sql.Tx) TrainingCycleStore
}
