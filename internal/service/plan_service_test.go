package service_test

import (
	"testing"

	"github.com/phrazzld/liftplan/internal/domain"
	"github.com/phrazzld/liftplan/internal/domain/setconfig"
	"github.com/phrazzld/liftplan/internal/idgen"
	"github.com/phrazzld/liftplan/internal/platform/logger"
	"github.com/phrazzld/liftplan/internal/service"
	"github.com/phrazzld/liftplan/internal/store"
	"github.com/phrazzld/liftplan/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlanServiceRequiresDependencies(t *testing.T) {
	db := testutils.NewSQLiteDB(t)

	_, err := service.NewPlanService(db, service.Stores{}, idgen.ULID{}, nil, nil)
	var serr *service.ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "create_service", serr.Operation)

	_, err = service.NewPlanService(nil, service.Stores{}, idgen.ULID{}, nil, nil)
	require.Error(t, err)
}

func TestCreatePlanAssignsIDsAndOwner(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	data := withoutIDs(testutils.PlanData("ignored", testutils.ProfileID, 1, 1, 2))
	data.ProfileID = otherProfile

	plan, err := f.plans.CreatePlan(ctx, testutils.ProfileID, data)
	require.NoError(t, err)

	assert.Equal(t, "gen-1", plan.ID())
	assert.Equal(t, testutils.ProfileID, plan.ProfileID())
	assert.Equal(t, []string{"gen-2"}, plan.SessionIDs())
	group := plan.Sessions()[0].Groups()[0]
	assert.Equal(t, "gen-3", group.ID())
	assert.Equal(t, []string{"gen-4", "gen-5"}, group.ExerciseIDs())
	assert.Equal(t, testutils.ProfileID, group.AppliedExercises()[1].ProfileID())
	assert.Equal(t, testutils.BaseTime, plan.CreatedAt(), "a supplied creation time is kept")
	assert.Equal(t, fixedNow, plan.UpdatedAt())

	stored, err := f.plans.GetPlan(ctx, testutils.ProfileID, plan.ID())
	require.NoError(t, err)
	assert.Equal(t, plan.ToData(), stored.ToData())
	logger.AssertLogContains(t, f.logs, "training plan created")
}

func TestCreatePlanRejectsInvalidData(t *testing.T) {
	f := newFixture(t)

	data := testutils.PlanData("p", testutils.ProfileID, 2, 1, 1)
	data.Sessions[1].Name = ""

	_, err := f.plans.CreatePlan(t.Context(), testutils.ProfileID, data)

	requireValidation(t, err, "sessions[1].name", "required")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, testutils.TotalRows(t, f.db), "nothing is written for invalid input")
}

func TestCreatePlanRejectsClaimedIDs(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	f.createPlan(t, "p", 1, 1, 1)
	before := testutils.TotalRows(t, f.db)

	t.Run("plan id", func(t *testing.T) {
		_, err := f.plans.CreatePlan(ctx, testutils.ProfileID, testutils.PlanData("p", testutils.ProfileID, 1, 1, 1))
		requireValidation(t, err, "id", "id_taken")
	})

	t.Run("session id", func(t *testing.T) {
		data := testutils.PlanData("q", testutils.ProfileID, 1, 1, 1)
		data.Sessions[0].ID = "p-s0"
		_, err := f.plans.CreatePlan(ctx, testutils.ProfileID, data)
		requireValidation(t, err, "id", "id_taken")
	})

	t.Run("exercise id", func(t *testing.T) {
		data := testutils.PlanData("q", testutils.ProfileID, 1, 1, 1)
		data.Sessions[0].Groups[0].AppliedExercises[0].ID = "p-s0-g0-e0"
		_, err := f.plans.CreatePlan(ctx, testutils.ProfileID, data)
		requireValidation(t, err, "id", "id_taken")
	})

	assert.Equal(t, before, testutils.TotalRows(t, f.db))
}

func TestCreatePlanRejectsGroupSharedBetweenSessions(t *testing.T) {
	f := newFixture(t)

	data := testutils.PlanData("p", testutils.ProfileID, 2, 1, 0)
	data.Sessions[0].Groups[0] = testutils.GroupData("g-shared", testutils.ProfileID,
		testutils.ExerciseData("e-a", testutils.ProfileID))
	data.Sessions[1].Groups[0] = testutils.GroupData("g-shared", testutils.ProfileID,
		testutils.ExerciseData("e-b", testutils.ProfileID))

	_, err := f.plans.CreatePlan(t.Context(), testutils.ProfileID, data)

	requireValidation(t, err, "sessions[1].groups[0].id", "duplicate")
	assert.Zero(t, testutils.TotalRows(t, f.db), "nothing is written for a tree with a shared child")
}

func TestUpdatePlanRejectsExerciseSharedBetweenSessions(t *testing.T) {
	f := newFixture(t)
	plan := f.createPlan(t, "p", 2, 1, 1)
	before := testutils.TotalRows(t, f.db)

	data := plan.ToData()
	data.Sessions[1].Groups[0].AppliedExercises[0].ID = data.Sessions[0].Groups[0].AppliedExercises[0].ID

	_, err := f.plans.UpdatePlan(t.Context(), testutils.ProfileID, plan.ID(), data)

	requireValidation(t, err, "sessions[1].groups[0].appliedExercises[0].id", "duplicate")
	assert.Equal(t, before, testutils.TotalRows(t, f.db))

	stored, err := f.plans.GetPlan(t.Context(), testutils.ProfileID, plan.ID())
	require.NoError(t, err)
	assert.Equal(t, plan.ToData(), stored.ToData())
}

func TestCreatePlanChecksCycleOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	f.createCycle(t, otherProfile, "foreign")
	own := f.createCycle(t, testutils.ProfileID, "own")

	data := testutils.PlanData("p", testutils.ProfileID, 1, 1, 1)
	data.CycleID = testutils.Ptr("foreign")
	_, err := f.plans.CreatePlan(ctx, testutils.ProfileID, data)
	requireValidation(t, err, "cycleId", "not_found")

	data.CycleID = testutils.Ptr("missing")
	_, err = f.plans.CreatePlan(ctx, testutils.ProfileID, data)
	requireValidation(t, err, "cycleId", "not_found")

	data.CycleID = testutils.Ptr(own.ID())
	plan, err := f.plans.CreatePlan(ctx, testutils.ProfileID, data)
	require.NoError(t, err)
	assert.True(t, plan.InCycle(own.ID()))
}

func TestGetPlanOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	plan := f.createPlan(t, "p", 1, 1, 1)

	_, err := f.plans.GetPlan(ctx, otherProfile, plan.ID())
	assert.ErrorIs(t, err, service.ErrNotOwned)

	_, err = f.plans.GetPlan(ctx, testutils.ProfileID, "missing")
	assert.True(t, store.IsNotFoundError(err), "expected not found, got %v", err)
	assert.ErrorIs(t, err, store.ErrTrainingPlanNotFound)
}

func TestListPlans(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	a := f.createPlan(t, "a", 1, 1, 1)
	b := f.createPlan(t, "b", 1, 1, 1)
	_, err := f.plans.ArchivePlan(ctx, testutils.ProfileID, b.ID())
	require.NoError(t, err)

	active, err := f.plans.ListPlans(ctx, testutils.ProfileID, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, a.ID(), active[0].ID())

	all, err := f.plans.ListPlans(ctx, testutils.ProfileID, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := f.plans.ListPlans(ctx, otherProfile, true)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdatePlanPrunesRemovedEntities(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	plan := f.createPlan(t, "p", 2, 2, 1)
	require.Equal(t, 2, testutils.CountRows(t, f.db, "sessions"))
	require.Equal(t, 4, testutils.CountRows(t, f.db, "exercise_groups"))

	// keep p-s1-g0 by moving it into the first session, drop the rest of p-s1
	data := plan.ToData()
	moved := data.Sessions[1].Groups[0]
	data.Sessions[0].Groups = append(data.Sessions[0].Groups, moved)
	data.Sessions = data.Sessions[:1]
	data.Name = "Renamed"

	updated, err := f.plans.UpdatePlan(ctx, testutils.ProfileID, plan.ID(), data)
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Name())
	assert.Equal(t, []string{"p-s0"}, updated.SessionIDs())
	assert.Equal(t, []string{"p-s0-g0", "p-s0-g1", "p-s1-g0"}, updated.Sessions()[0].GroupIDs())
	assert.Equal(t, 1, testutils.CountRows(t, f.db, "sessions"))
	assert.Equal(t, 3, testutils.CountRows(t, f.db, "exercise_groups"))
	assert.Equal(t, 3, testutils.CountRows(t, f.db, "applied_exercises"))

	stored, err := f.plans.GetPlan(ctx, testutils.ProfileID, plan.ID())
	require.NoError(t, err)
	assert.Equal(t, updated.ToData(), stored.ToData())

	group, ok := stored.Sessions()[0].FindGroupByID("p-s1-g0")
	require.True(t, ok)
	assert.Equal(t, testutils.BaseTime, group.CreatedAt(), "moved rows keep their creation time")
	assert.Equal(t, fixedNow, group.UpdatedAt())
	logger.AssertLogField(t, f.logs, "pruned", float64(3))
}

func TestUpdatePlanAddsNewChildren(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	plan := f.createPlan(t, "p", 1, 1, 1)

	data := plan.ToData()
	extra := withoutIDs(testutils.PlanData("x", testutils.ProfileID, 1, 1, 1)).Sessions[0]
	data.Sessions = append(data.Sessions, extra)

	updated, err := f.plans.UpdatePlan(ctx, testutils.ProfileID, plan.ID(), data)
	require.NoError(t, err)

	require.Equal(t, 2, updated.SessionCount())
	assert.Equal(t, "gen-1", updated.Sessions()[1].ID())
	assert.Equal(t, 2, testutils.CountRows(t, f.db, "applied_exercises"))
}

func TestUpdatePlanLeavesStoredTreeOnFailure(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	plan := f.createPlan(t, "p", 2, 1, 1)
	other := f.createPlan(t, "q", 1, 1, 1)

	t.Run("invalid data", func(t *testing.T) {
		data := plan.ToData()
		data.Sessions = data.Sessions[:1]
		data.Sessions[0].Groups[0].Type = domain.GroupSuperset

		_, err := f.plans.UpdatePlan(ctx, testutils.ProfileID, plan.ID(), data)
		requireValidation(t, err, "sessions[0].groups[0].appliedExercises", "invalid_length")
	})

	t.Run("foreign child id", func(t *testing.T) {
		data := plan.ToData()
		data.Sessions[1].ID = other.SessionIDs()[0]

		_, err := f.plans.UpdatePlan(ctx, testutils.ProfileID, plan.ID(), data)
		requireValidation(t, err, "id", "id_taken")
	})

	t.Run("foreign profile", func(t *testing.T) {
		_, err := f.plans.UpdatePlan(ctx, otherProfile, plan.ID(), plan.ToData())
		assert.ErrorIs(t, err, service.ErrNotOwned)
	})

	stored, err := f.plans.GetPlan(ctx, testutils.ProfileID, plan.ID())
	require.NoError(t, err)
	assert.Equal(t, plan.ToData(), stored.ToData())
	storedOther, err := f.plans.GetPlan(ctx, testutils.ProfileID, other.ID())
	require.NoError(t, err)
	assert.Equal(t, other.ToData(), storedOther.ToData())
}

func TestDeletePlan(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	plan := f.createPlan(t, "p", 2, 2, 2)

	err := f.plans.DeletePlan(ctx, otherProfile, plan.ID())
	assert.ErrorIs(t, err, service.ErrNotOwned)
	assert.Equal(t, 1, testutils.CountRows(t, f.db, "training_plans"))

	require.NoError(t, f.plans.DeletePlan(ctx, testutils.ProfileID, plan.ID()))
	assert.Zero(t, testutils.TotalRows(t, f.db))

	err = f.plans.DeletePlan(ctx, testutils.ProfileID, plan.ID())
	assert.True(t, store.IsNotFoundError(err))
}

func TestArchiveAndRestorePlan(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	plan := f.createPlan(t, "p", 1, 1, 1)

	archived, err := f.plans.ArchivePlan(ctx, testutils.ProfileID, plan.ID())
	require.NoError(t, err)
	assert.True(t, archived.IsArchived())

	restored, err := f.plans.RestorePlan(ctx, testutils.ProfileID, plan.ID())
	require.NoError(t, err)
	assert.False(t, restored.IsArchived())

	_, err = f.plans.ArchivePlan(ctx, otherProfile, plan.ID())
	assert.ErrorIs(t, err, service.ErrNotOwned)
}

func TestAdvancePlanRecordsPerformedSession(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	plan := f.createPlan(t, "p", 2, 1, 1)

	advanced, err := f.plans.AdvancePlan(ctx, testutils.ProfileID, plan.ID())
	require.NoError(t, err)

	assert.Equal(t, 1, advanced.CurrentSessionIndex())
	require.NotNil(t, advanced.LastUsed())
	assert.Equal(t, fixedNow, *advanced.LastUsed())

	performed := advanced.Sessions()[0]
	assert.Equal(t, 1, performed.ExecutionCount())
	assert.Equal(t, 1, performed.Groups()[0].AppliedExercises()[0].ExecutionCount())
	assert.Zero(t, advanced.Sessions()[1].ExecutionCount())

	stored, err := f.plans.GetPlan(ctx, testutils.ProfileID, plan.ID())
	require.NoError(t, err)
	assert.Equal(t, advanced.ToData(), stored.ToData())

	wrapped, err := f.plans.AdvancePlan(ctx, testutils.ProfileID, plan.ID())
	require.NoError(t, err)
	assert.Zero(t, wrapped.CurrentSessionIndex(), "the rotation wraps around")
	assert.Equal(t, 1, wrapped.Sessions()[1].ExecutionCount())
}

func TestAssignCycle(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	plan := f.createPlan(t, "p", 1, 1, 1)
	cycle := f.createCycle(t, testutils.ProfileID, "c")
	f.createCycle(t, otherProfile, "foreign")

	assigned, err := f.plans.AssignCycle(ctx, testutils.ProfileID, plan.ID(), testutils.Ptr(cycle.ID()))
	require.NoError(t, err)
	assert.True(t, assigned.InCycle(cycle.ID()))

	_, err = f.plans.AssignCycle(ctx, testutils.ProfileID, plan.ID(), testutils.Ptr("foreign"))
	requireValidation(t, err, "cycleId", "not_found")

	detached, err := f.plans.AssignCycle(ctx, testutils.ProfileID, plan.ID(), nil)
	require.NoError(t, err)
	assert.Nil(t, detached.CycleID())
}

func TestStartSession(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	plan := f.createPlan(t, "p", 2, 2, 1)

	sets, err := f.plans.StartSession(ctx, testutils.ProfileID, plan.ID(), "p-s1", "")
	require.NoError(t, err)

	// two single groups of three straight sets
	require.Len(t, sets, 6)
	seen := map[string]bool{}
	for _, s := range sets {
		assert.Equal(t, setconfig.CounterReps, s.CounterType)
		assert.Equal(t, testutils.ProfileID, s.ProfileID)
		assert.False(t, s.Completed)
		assert.False(t, seen[s.ID], "set ids are unique")
		seen[s.ID] = true
	}
	assert.Equal(t, "p-s1-g0-e0", sets[0].AppliedExerciseID)
	assert.Equal(t, "p-s1-g1-e0", sets[5].AppliedExerciseID)

	current, err := f.plans.StartSession(ctx, testutils.ProfileID, plan.ID(), "", setconfig.CounterTime)
	require.NoError(t, err)
	require.Len(t, current, 6)
	assert.Equal(t, "p-s0-g0-e0", current[0].AppliedExerciseID)
	assert.Equal(t, setconfig.CounterTime, current[0].CounterType)

	_, err = f.plans.StartSession(ctx, testutils.ProfileID, plan.ID(), "missing", "")
	assert.ErrorIs(t, err, domain.ErrNotInAggregate)

	_, err = f.plans.StartSession(ctx, testutils.ProfileID, plan.ID(), "p-s0", "laps")
	requireValidation(t, err, "counterType", "oneof")

	_, err = f.plans.StartSession(ctx, otherProfile, plan.ID(), "p-s0", "")
	assert.ErrorIs(t, err, service.ErrNotOwned)
}
