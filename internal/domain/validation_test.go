package domain

import (
	"errors"
	"testing"

	"github.com/phrazzld/liftplan/internal/domain/setconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidPlanPasses(t *testing.T) {
	d := planData("p1", 2, 2)
	result := ValidateTrainingPlanData(d)

	require.True(t, result.Success, "unexpected issues: %v", result.Error)
	assert.Nil(t, result.Error)
	assert.Equal(t, d, result.Data)
	assert.NoError(t, mustPlan(t, d).Validate().Err())
}

func TestGroupArityAndRounds(t *testing.T) {
	tests := []struct {
		name  string
		build func() ExerciseGroupData
		paths []string
	}{
		{
			name: "single with two exercises",
			build: func() ExerciseGroupData {
				return groupData("g", exerciseData("a"), exerciseData("b"))
			},
			paths: []string{"appliedExercises"},
		},
		{
			name: "empty single is fine",
			build: func() ExerciseGroupData {
				return groupData("g")
			},
		},
		{
			name: "superset with one exercise",
			build: func() ExerciseGroupData {
				g := groupData("g", exerciseData("a"))
				g.Type = GroupSuperset
				return g
			},
			paths: []string{"appliedExercises"},
		},
		{
			name: "circuit without rounds",
			build: func() ExerciseGroupData {
				g := groupData("g", exerciseData("a"), exerciseData("b"), exerciseData("c"))
				g.Type = GroupCircuit
				return g
			},
			paths: []string{"rounds"},
		},
		{
			name: "amrap without duration",
			build: func() ExerciseGroupData {
				g := groupData("g", exerciseData("a"))
				g.Type = GroupAMRAP
				g.Rounds = ptr(setconfig.Exactly(1))
				return g
			},
			paths: []string{"durationMinutes"},
		},
		{
			name: "emom with zero duration",
			build: func() ExerciseGroupData {
				g := groupData("g", exerciseData("a"))
				g.Type = GroupEMOM
				g.Rounds = ptr(setconfig.Exactly(10))
				g.DurationMinutes = ptr(0)
				return g
			},
			paths: []string{"durationMinutes"},
		},
		{
			name: "unknown type",
			build: func() ExerciseGroupData {
				g := groupData("g")
				g.Type = "giantSet"
				return g
			},
			paths: []string{"type"},
		},
		{
			name: "circuit with too many rounds",
			build: func() ExerciseGroupData {
				g := groupData("g", exerciseData("a"), exerciseData("b"), exerciseData("c"))
				g.Type = GroupCircuit
				g.Rounds = ptr(setconfig.Exactly(1e20))
				return g
			},
			paths: []string{"rounds.min"},
		},
		{
			name: "duplicate exercise ids",
			build: func() ExerciseGroupData {
				g := groupData("g", exerciseData("a"), exerciseData("a"))
				g.Type = GroupSuperset
				return g
			},
			paths: []string{"appliedExercises[1].id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateExerciseGroupData(tt.build())
			assert.ElementsMatch(t, tt.paths, issuePaths(result))
			assert.Equal(t, len(tt.paths) == 0, result.Success)
		})
	}
}

func TestNestedIssuePaths(t *testing.T) {
	d := planData("p1", 2, 2)
	d.Sessions[1].Groups[0].AppliedExercises[0].SetConfiguration.Counts = nil
	d.Sessions[1].Groups[1].AppliedExercises[0].ExecutionCount = -1
	d.Sessions[0].Name = "   "
	d.Sessions[0].Groups[1].ID = d.Sessions[0].Groups[0].ID
	d.Sessions[1].Groups[0].AppliedExercises[0].ProfileID = "someone-else"

	result := ValidateTrainingPlanData(d)

	require.False(t, result.Success)
	assert.ElementsMatch(t, []string{
		"sessions[1].groups[0].appliedExercises[0].setConfiguration.counts",
		"sessions[1].groups[1].appliedExercises[0].executionCount",
		"sessions[0].name",
		"sessions[0].groups[1].id",
		"sessions[1].groups[0].appliedExercises[0].profileId",
	}, issuePaths(result))

	err := result.Err()
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "sessions[0].name: must not be blank")
}

func TestPlanLevelRules(t *testing.T) {
	d := planData("p1", 2, 1)
	d.Sessions[1].ID = d.Sessions[0].ID
	d.CurrentSessionIndex = 5
	d.Name = ""

	assert.ElementsMatch(t, []string{
		"sessions[1].id",
		"currentSessionIndex",
		"name",
	}, issuePaths(ValidateTrainingPlanData(d)))
}

func TestIDsAreUniqueAcrossThePlan(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *TrainingPlanData)
		paths  []string
	}{
		{
			name: "group shared by two sessions",
			mutate: func(d *TrainingPlanData) {
				shared := groupData("g-shared", exerciseData("e-a"))
				d.Sessions[0].Groups[0] = shared
				d.Sessions[1].Groups[0] = groupData("g-shared", exerciseData("e-b"))
			},
			paths: []string{"sessions[1].groups[0].id"},
		},
		{
			name: "exercise reused in another session",
			mutate: func(d *TrainingPlanData) {
				d.Sessions[1].Groups[1].AppliedExercises[0].ID = d.Sessions[0].Groups[0].AppliedExercises[0].ID
			},
			paths: []string{"sessions[1].groups[1].appliedExercises[0].id"},
		},
		{
			name: "exercise reused in a sibling group",
			mutate: func(d *TrainingPlanData) {
				d.Sessions[0].Groups[1].AppliedExercises[0].ID = d.Sessions[0].Groups[0].AppliedExercises[0].ID
			},
			paths: []string{"sessions[0].groups[1].appliedExercises[0].id"},
		},
		{
			name: "group moved to another session",
			mutate: func(d *TrainingPlanData) {
				moved := d.Sessions[0].Groups[1]
				d.Sessions[0].Groups = d.Sessions[0].Groups[:1]
				d.Sessions[1].Groups = append(d.Sessions[1].Groups, moved)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := planData("p1", 2, 2)
			tt.mutate(&d)

			result := ValidateTrainingPlanData(d)

			assert.ElementsMatch(t, tt.paths, issuePaths(result))
			if len(tt.paths) > 0 {
				verr := result.Error
				require.NotNil(t, verr)
				assert.Equal(t, "duplicate", verr.Issues[0].Code)
			}
		})
	}
}

func TestSessionRejectsExerciseUnderTwoGroups(t *testing.T) {
	d := sessionData("s1",
		groupData("g1", exerciseData("e1")),
		groupData("g2", exerciseData("e1")),
	)

	assert.Equal(t, []string{"groups[1].appliedExercises[0].id"}, issuePaths(ValidateSessionData(d)))
}

func TestSessionDayOfWeek(t *testing.T) {
	d := sessionData("s1")
	d.DayOfWeek = ptr(DayOfWeek("someday"))

	assert.Equal(t, []string{"dayOfWeek"}, issuePaths(ValidateSessionData(d)))
}

func TestCycleRules(t *testing.T) {
	valid := TrainingCycleData{
		ID: "c1", ProfileID: testProfile, Name: "Block", Goal: GoalStrength,
		StartDate: baseTime, EndDate: baseTime,
	}
	assert.True(t, ValidateTrainingCycleData(valid).Success, "a one-day cycle is allowed")

	backwards := valid
	backwards.EndDate = baseTime.AddDate(0, 0, -1)
	result := ValidateTrainingCycleData(backwards)
	require.False(t, result.Success)
	assert.Equal(t, []string{"endDate"}, issuePaths(result))
	assert.Equal(t, "invalid_date_range", result.Error.Issues[0].Code)

	badGoal := valid
	badGoal.Goal = "bulk"
	assert.Equal(t, []string{"goal"}, issuePaths(ValidateTrainingCycleData(badGoal)))

	c, err := HydrateTrainingCycle(backwards)
	require.NoError(t, err, "hydration does not validate")
	assert.False(t, c.Validate().Success)
}

func TestSetConfigurationIssues(t *testing.T) {
	d := exerciseData("e1")
	d.SetConfiguration = setconfig.Data{
		Type:        setconfig.TypePyramidal,
		StartCounts: ptr(setconfig.Exactly(8)),
		EndCounts:   ptr(setconfig.Exactly(12)),
		Step:        ptr(setconfig.Exactly(0)),
		Mode:        setconfig.ModeAscending,
		RPE:         ptr(setconfig.Range{Min: -1}),
	}

	assert.ElementsMatch(t, []string{
		"setConfiguration.step.min",
		"setConfiguration.rpe.min",
	}, issuePaths(ValidateAppliedExerciseData(d)))
}
