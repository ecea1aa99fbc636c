package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/phrazzld/liftplan/internal/domain/setconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	t.Run("applied exercise", func(t *testing.T) {
		d := exerciseData("e1")
		d.TemplateID = ptr("tpl-1")
		d.RestTimeSeconds = ptr(90)
		d.ExecutionCount = 4
		e := mustExercise(t, d)

		back, err := HydrateAppliedExercise(e.ToData())
		require.NoError(t, err)
		assert.Equal(t, e, back)
	})

	t.Run("exercise group", func(t *testing.T) {
		d := groupData("g1", exerciseData("e1"), exerciseData("e2"), exerciseData("e3"))
		d.Type = GroupCircuit
		d.Rounds = ptr(setconfig.Between(3, 4))
		d.RestTimeSeconds = ptr(120)
		g := mustGroup(t, d)

		back, err := HydrateExerciseGroup(g.ToData())
		require.NoError(t, err)
		assert.Equal(t, g, back)
	})

	t.Run("session", func(t *testing.T) {
		d := sessionData("s1", groupData("g1", exerciseData("e1")))
		d.Notes = ptr("heavy day")
		d.IsDeload = true
		d.DayOfWeek = ptr(Wednesday)
		s := mustSession(t, d)

		back, err := HydrateSession(s.ToData())
		require.NoError(t, err)
		assert.Equal(t, s, back)
	})

	t.Run("training plan", func(t *testing.T) {
		d := planData("p1", 2, 2)
		d.CycleID = ptr("c1")
		d.Order = ptr(3)
		d.Notes = ptr("upper/lower")
		d.LastUsed = ptr(baseTime.Add(48 * time.Hour))
		d.CurrentSessionIndex = 1
		p := mustPlan(t, d)

		back, err := HydrateTrainingPlan(p.ToData())
		require.NoError(t, err)
		assert.Equal(t, p, back)
	})

	t.Run("training plan through json", func(t *testing.T) {
		p := mustPlan(t, planData("p1", 2, 3))

		raw, err := json.Marshal(p.ToData())
		require.NoError(t, err)
		var decoded TrainingPlanData
		require.NoError(t, json.Unmarshal(raw, &decoded))

		back, err := HydrateTrainingPlan(decoded)
		require.NoError(t, err)
		assert.Equal(t, p, back)
	})

	t.Run("training cycle", func(t *testing.T) {
		c, err := HydrateTrainingCycle(TrainingCycleData{
			ID:        "c1",
			ProfileID: testProfile,
			Name:      "Spring block",
			StartDate: baseTime,
			EndDate:   baseTime.AddDate(0, 0, 27),
			Goal:      GoalStrength,
			Notes:     ptr("peak in April"),
			CreatedAt: baseTime,
			UpdatedAt: baseTime,
		})
		require.NoError(t, err)

		back, err := HydrateTrainingCycle(c.ToData())
		require.NoError(t, err)
		assert.Equal(t, c, back)
	})
}

func TestHydrateNormalizesTimes(t *testing.T) {
	local := time.FixedZone("CET", 3600)
	d := exerciseData("e1")
	d.CreatedAt = time.Date(2026, 3, 2, 10, 0, 0, 123456789, local)

	e := mustExercise(t, d)

	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 123000000, time.UTC), e.CreatedAt())
}

func TestHydrateRejectsUnknownSetConfiguration(t *testing.T) {
	d := planData("p1", 1, 1)
	d.Sessions[0].Groups[0].AppliedExercises[0].SetConfiguration.Type = "tempo"

	p, err := HydrateTrainingPlan(d)

	assert.Nil(t, p)
	assert.ErrorIs(t, err, setconfig.ErrUnknownType)
	assert.Contains(t, err.Error(), "p1-s0-g0-e0")
}
