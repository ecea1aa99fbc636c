package sqlstore_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/phrazzld/liftplan/internal/domain"
	"github.com/phrazzld/liftplan/internal/platform/sqlstore"
	"github.com/phrazzld/liftplan/internal/store"
	"github.com/phrazzld/liftplan/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The tests below repeat the core repository behaviour against PostgreSQL.
// They run only when LIFTPLAN_TEST_DATABASE_URL is set.

func TestPostgresPlanRoundTripAndCascade(t *testing.T) {
	db := testutils.NewPostgresDB(t)
	repos := sqlstore.NewRepositories(db, nil)
	ctx := context.Background()

	data := testutils.PlanData("plan-1", testutils.ProfileID, 2, 2, 3)
	data.Notes = testutils.Ptr("upper/lower")
	data.LastUsed = testutils.Ptr(testutils.BaseTime.AddDate(0, 0, 3))
	day := domain.Friday
	data.Sessions[1].DayOfWeek = &day
	plan, err := domain.HydrateTrainingPlan(data)
	require.NoError(t, err)

	_, err = repos.Plans.Save(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, 1+2+4+12, testutils.TotalRows(t, db))

	found, err := repos.Plans.FindByID(ctx, "plan-1")
	require.NoError(t, err)
	assert.Equal(t, plan.ToData(), found.ToData())

	require.NoError(t, repos.Plans.Delete(ctx, "plan-1"))
	assert.Zero(t, testutils.TotalRows(t, db))

	_, err = repos.Plans.FindByID(ctx, "plan-1")
	assert.ErrorIs(t, err, store.ErrTrainingPlanNotFound)
}

func TestPostgresTransactionRollsBack(t *testing.T) {
	db := testutils.NewPostgresDB(t)
	repos := sqlstore.NewRepositories(db, nil)
	ctx := context.Background()

	testutils.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		_, err := repos.Plans.WithTx(tx).Save(ctx, testutils.Plan(t, "plan-1", testutils.ProfileID, 1, 1, 1))
		require.NoError(t, err)
	})

	assert.Zero(t, testutils.TotalRows(t, db))
}

func TestPostgresDeleteCycleDetachesPlans(t *testing.T) {
	db := testutils.NewPostgresDB(t)
	repos := sqlstore.NewRepositories(db, nil)
	ctx := context.Background()

	_, err := repos.Cycles.Save(ctx, testutils.Cycle(t, "cycle-1", testutils.ProfileID))
	require.NoError(t, err)
	data := testutils.PlanData("plan-1", testutils.ProfileID, 1, 1, 1)
	data.CycleID = testutils.Ptr("cycle-1")
	plan, err := domain.HydrateTrainingPlan(data)
	require.NoError(t, err)
	_, err = repos.Plans.Save(ctx, plan)
	require.NoError(t, err)

	require.NoError(t, repos.Cycles.Delete(ctx, "cycle-1"))

	found, err := repos.Plans.FindByID(ctx, "plan-1")
	require.NoError(t, err)
	assert.Nil(t, found.CycleID())
}
