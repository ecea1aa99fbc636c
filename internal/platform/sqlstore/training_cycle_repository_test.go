package sqlstore_test

import (
	"context"
	"testing"

	"github.com/phrazzld/liftplan/internal/domain"
	"github.com/phrazzld/liftplan/internal/store"
	"github.com/phrazzld/liftplan/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainingCycleRoundTrip(t *testing.T) {
	ctx := context.Background()
	_, repos := setup(t)

	data := testutils.CycleData("cycle-1", testutils.ProfileID)
	data.Notes = testutils.Ptr("peak for the meet")
	cycle, err := domain.HydrateTrainingCycle(data)
	require.NoError(t, err)

	_, err = repos.Cycles.Save(ctx, cycle)
	require.NoError(t, err)

	found, err := repos.Cycles.FindByID(ctx, "cycle-1")
	require.NoError(t, err)
	assert.Equal(t, cycle.ToData(), found.ToData())

	updated := found.CloneWithGoal(domain.GoalStrength)
	_, err = repos.Cycles.Save(ctx, updated)
	require.NoError(t, err)

	found, err = repos.Cycles.FindByID(ctx, "cycle-1")
	require.NoError(t, err)
	assert.Equal(t, domain.GoalStrength, found.Goal())
}

func TestTrainingCycleFindAllOrdersByStartDate(t *testing.T) {
	ctx := context.Background()
	_, repos := setup(t)

	later := testutils.CycleData("cycle-later", testutils.ProfileID)
	later.StartDate = testutils.BaseTime.AddDate(0, 1, 0)
	later.EndDate = testutils.BaseTime.AddDate(0, 2, 0)
	for _, d := range []domain.TrainingCycleData{later, testutils.CycleData("cycle-first", testutils.ProfileID)} {
		c, err := domain.HydrateTrainingCycle(d)
		require.NoError(t, err)
		_, err = repos.Cycles.Save(ctx, c)
		require.NoError(t, err)
	}

	all, err := repos.Cycles.FindAll(ctx, testutils.ProfileID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "cycle-first", all[0].ID())
	assert.Equal(t, "cycle-later", all[1].ID())

	byIDs, err := repos.Cycles.FindByIDs(ctx, []string{"cycle-later", "missing"})
	require.NoError(t, err)
	require.Len(t, byIDs, 1)
	assert.Equal(t, "cycle-later", byIDs[0].ID())
}

func TestDeleteCycleDetachesPlans(t *testing.T) {
	ctx := context.Background()
	db, repos := setup(t)

	_, err := repos.Cycles.Save(ctx, testutils.Cycle(t, "cycle-1", testutils.ProfileID))
	require.NoError(t, err)

	cycleID := testutils.Ptr("cycle-1")
	otherCycle := testutils.Ptr("cycle-2")
	planA := testutils.Plan(t, "plan-a", testutils.ProfileID, 1, 1, 1).CloneWithCycleID(cycleID)
	planB := testutils.Plan(t, "plan-b", testutils.ProfileID, 2, 1, 1).CloneWithCycleID(cycleID)
	planC := testutils.Plan(t, "plan-c", testutils.ProfileID, 1, 1, 1).CloneWithCycleID(otherCycle)
	for _, p := range []*domain.TrainingPlan{planA, planB, planC} {
		_, err := repos.Plans.Save(ctx, p)
		require.NoError(t, err)
	}

	linked, err := repos.Plans.FindByCycleID(ctx, "cycle-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"plan-a", "plan-b"}, planIDs(linked))

	require.NoError(t, repos.Cycles.Delete(ctx, "cycle-1"))

	_, err = repos.Cycles.FindByID(ctx, "cycle-1")
	assert.ErrorIs(t, err, store.ErrTrainingCycleNotFound)
	assert.Equal(t, 0, testutils.CountRows(t, db, "training_cycles"))
	assert.Equal(t, 3, testutils.CountRows(t, db, "training_plans"), "plans are never deleted with their cycle")

	for _, id := range []string{"plan-a", "plan-b"} {
		p, err := repos.Plans.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, p.CycleID(), "plan %s should be detached", id)
		assert.Positive(t, p.SessionCount(), "plan %s keeps its sessions", id)
	}

	c, err := repos.Plans.FindByID(ctx, "plan-c")
	require.NoError(t, err)
	require.NotNil(t, c.CycleID())
	assert.Equal(t, "cycle-2", *c.CycleID())

	linked, err = repos.Plans.FindByCycleID(ctx, "cycle-1")
	require.NoError(t, err)
	assert.Empty(t, linked)
}
