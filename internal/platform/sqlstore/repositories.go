package sqlstore

import (
	"log/slog"

	"github.com/phrazzld/liftplan/internal/store"
)

// Repositories is the wired repository tree for one database handle.
type Repositories struct {
	Exercises *AppliedExerciseRepository
	Groups    *ExerciseGroupRepository
	Sessions  *SessionRepository
	Plans     *TrainingPlanRepository
	Cycles    *TrainingCycleRepository
}

// NewRepositories builds every repository on db, each injected with the
// repository of the entities it owns.
func NewRepositories(db store.DBTX, logger *slog.Logger) Repositories {
	exercises := NewAppliedExerciseRepository(db, logger)
	groups := NewExerciseGroupRepository(db, exercises, logger)
	sessions := NewSessionRepository(db, groups, logger)
	plans := NewTrainingPlanRepository(db, sessions, logger)
	return Repositories{
		Exercises: exercises,
		Groups:    groups,
		Sessions:  sessions,
		Plans:     plans,
		Cycles:    NewTrainingCycleRepository(db, plans, logger),
	}
}
