package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/phrazzld/liftplan/internal/domain/setconfig"
	"github.com/stretchr/testify/require"
)

const testProfile = "profile-1"

var baseTime = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// freezeClock pins now to t for the duration of the test.
func freezeClock(t *testing.T, at time.Time) {
	t.Helper()
	original := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = original })
}

func ptr[T any](v T) *T { return &v }

func standardConfig(sets, reps float64) setconfig.Data {
	counts := setconfig.Exactly(reps)
	return setconfig.Data{Type: setconfig.TypeStandard, Sets: setconfig.Exactly(sets), Counts: &counts}
}

func exerciseData(id string) AppliedExerciseData {
	return AppliedExerciseData{
		ID:               id,
		ProfileID:        testProfile,
		ExerciseID:       "bench-press",
		SetConfiguration: standardConfig(3, 10),
		CreatedAt:        baseTime,
		UpdatedAt:        baseTime,
	}
}

func groupData(id string, exercises ...AppliedExerciseData) ExerciseGroupData {
	return ExerciseGroupData{
		ID:               id,
		ProfileID:        testProfile,
		Type:             GroupSingle,
		AppliedExercises: exercises,
		CreatedAt:        baseTime,
		UpdatedAt:        baseTime,
	}
}

func sessionData(id string, groups ...ExerciseGroupData) SessionData {
	return SessionData{
		ID:        id,
		ProfileID: testProfile,
		Name:      "Session " + id,
		Groups:    groups,
		CreatedAt: baseTime,
		UpdatedAt: baseTime,
	}
}

// planData builds a plan with n sessions of m single groups holding one exercise each.
func planData(id string, n, m int) TrainingPlanData {
	sessions := make([]SessionData, n)
	for i := range sessions {
		groups := make([]ExerciseGroupData, m)
		for j := range groups {
			gid := fmt.Sprintf("%s-s%d-g%d", id, i, j)
			groups[j] = groupData(gid, exerciseData(gid+"-e0"))
		}
		sessions[i] = sessionData(fmt.Sprintf("%s-s%d", id, i), groups...)
	}
	return TrainingPlanData{
		ID:        id,
		ProfileID: testProfile,
		Name:      "Plan " + id,
		Sessions:  sessions,
		CreatedAt: baseTime,
		UpdatedAt: baseTime,
	}
}

func mustPlan(t *testing.T, d TrainingPlanData) *TrainingPlan {
	t.Helper()
	p, err := HydrateTrainingPlan(d)
	require.NoError(t, err)
	return p
}

func mustSession(t *testing.T, d SessionData) *Session {
	t.Helper()
	s, err := HydrateSession(d)
	require.NoError(t, err)
	return s
}

func mustGroup(t *testing.T, d ExerciseGroupData) *ExerciseGroup {
	t.Helper()
	g, err := HydrateExerciseGroup(d)
	require.NoError(t, err)
	return g
}

func mustExercise(t *testing.T, d AppliedExerciseData) *AppliedExercise {
	t.Helper()
	e, err := HydrateAppliedExercise(d)
	require.NoError(t, err)
	return e
}

func issuePaths(r interface{ Err() error }) []string {
	err := r.Err()
	if err == nil {
		return nil
	}
	verr := err.(*ValidationError)
	paths := make([]string, len(verr.Issues))
	for i, is := range verr.Issues {
		paths[i] = is.Path
	}
	return paths
}
