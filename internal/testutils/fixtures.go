package testutils

import (
	"fmt"
	"testing"
	"time"

	"github.com/phrazzld/liftplan/internal/domain"
	"github.com/phrazzld/liftplan/internal/domain/setconfig"
	"github.com/stretchr/testify/require"
)

// ProfileID owns every fixture unless a test says otherwise.
const ProfileID = "profile-1"

// BaseTime is the creation time of every fixture.
var BaseTime = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// StandardConfig returns a straight-sets configuration.
func StandardConfig(sets, reps float64) setconfig.Data {
	counts := setconfig.Exactly(reps)
	return setconfig.Data{Type: setconfig.TypeStandard, Sets: setconfig.Exactly(sets), Counts: &counts}
}

// ExerciseData returns a valid applied exercise.
func ExerciseData(id, profileID string) domain.AppliedExerciseData {
	return domain.AppliedExerciseData{
		ID:               id,
		ProfileID:        profileID,
		ExerciseID:       "exercise-" + id,
		SetConfiguration: StandardConfig(3, 10),
		RestTimeSeconds:  Ptr(90),
		CreatedAt:        BaseTime,
		UpdatedAt:        BaseTime,
	}
}

// GroupData returns a valid group holding the given exercises. The group
// type follows the exercise count: single, superset, then circuit.
func GroupData(id, profileID string, exercises ...domain.AppliedExerciseData) domain.ExerciseGroupData {
	g := domain.ExerciseGroupData{
		ID:               id,
		ProfileID:        profileID,
		Type:             domain.GroupSingle,
		AppliedExercises: exercises,
		CreatedAt:        BaseTime,
		UpdatedAt:        BaseTime,
	}
	switch {
	case len(exercises) == 2:
		g.Type = domain.GroupSuperset
	case len(exercises) > 2:
		rounds := setconfig.Exactly(3)
		g.Type = domain.GroupCircuit
		g.Rounds = &rounds
		g.RestTimeSeconds = Ptr(60)
	}
	return g
}

// SessionData returns a valid session holding the given groups.
func SessionData(id, profileID string, groups ...domain.ExerciseGroupData) domain.SessionData {
	return domain.SessionData{
		ID:        id,
		ProfileID: profileID,
		Name:      "Session " + id,
		Groups:    groups,
		CreatedAt: BaseTime,
		UpdatedAt: BaseTime,
	}
}

// PlanData returns a valid plan with sessions × groups × exercises
// descendants. Child ids are derived from id so they stay unique across plans.
func PlanData(id, profileID string, sessions, groups, exercises int) domain.TrainingPlanData {
	sessionData := make([]domain.SessionData, sessions)
	for i := range sessionData {
		sessionID := fmt.Sprintf("%s-s%d", id, i)
		groupData := make([]domain.ExerciseGroupData, groups)
		for j := range groupData {
			groupID := fmt.Sprintf("%s-g%d", sessionID, j)
			exerciseData := make([]domain.AppliedExerciseData, exercises)
			for k := range exerciseData {
				exerciseData[k] = ExerciseData(fmt.Sprintf("%s-e%d", groupID, k), profileID)
			}
			groupData[j] = GroupData(groupID, profileID, exerciseData...)
		}
		sessionData[i] = SessionData(sessionID, profileID, groupData...)
	}
	return domain.TrainingPlanData{
		ID:        id,
		ProfileID: profileID,
		Name:      "Plan " + id,
		Sessions:  sessionData,
		CreatedAt: BaseTime,
		UpdatedAt: BaseTime,
	}
}

// Plan hydrates PlanData.
func Plan(t *testing.T, id, profileID string, sessions, groups, exercises int) *domain.TrainingPlan {
	t.Helper()

	p, err := domain.HydrateTrainingPlan(PlanData(id, profileID, sessions, groups, exercises))
	require.NoError(t, err, "failed to hydrate plan fixture")
	return p
}

// CycleData returns a valid four-week cycle.
func CycleData(id, profileID string) domain.TrainingCycleData {
	return domain.TrainingCycleData{
		ID:        id,
		ProfileID: profileID,
		Name:      "Cycle " + id,
		StartDate: BaseTime,
		EndDate:   BaseTime.AddDate(0, 0, 27),
		Goal:      domain.GoalHypertrophy,
		CreatedAt: BaseTime,
		UpdatedAt: BaseTime,
	}
}

// Cycle hydrates CycleData.
func Cycle(t *testing.T, id, profileID string) *domain.TrainingCycle {
	t.Helper()

	c, err := domain.HydrateTrainingCycle(CycleData(id, profileID))
	require.NoError(t, err, "failed to hydrate cycle fixture")
	return c
}
