package service_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/phrazzld/liftplan/internal/domain"
	"github.com/phrazzld/liftplan/internal/idgen"
	"github.com/phrazzld/liftplan/internal/platform/logger"
	"github.com/phrazzld/liftplan/internal/platform/sqlstore"
	"github.com/phrazzld/liftplan/internal/service"
	"github.com/phrazzld/liftplan/internal/testutils"
	"github.com/stretchr/testify/require"
)

const otherProfile = "profile-2"

// fixedNow is the service clock in every test.
var fixedNow = testutils.BaseTime.Add(72 * time.Hour)

type fixture struct {
	db     *sql.DB
	plans  service.PlanService
	cycles service.CycleService
	logs   *logger.TestLogBuffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutils.NewSQLiteDB(t)
	log, logs := logger.NewTestLogger(t)
	repos := sqlstore.NewRepositories(db, log)
	stores := service.Stores{
		Exercises: repos.Exercises,
		Groups:    repos.Groups,
		Sessions:  repos.Sessions,
		Plans:     repos.Plans,
		Cycles:    repos.Cycles,
	}
	clock := func() time.Time { return fixedNow }

	plans, err := service.NewPlanService(db, stores, idgen.Sequence("gen"), clock, log)
	require.NoError(t, err)
	cycles, err := service.NewCycleService(db, stores, idgen.Sequence("cyc"), clock, log)
	require.NoError(t, err)

	return &fixture{db: db, plans: plans, cycles: cycles, logs: logs}
}

// withoutIDs clears every id in the tree so the service has to assign them.
func withoutIDs(d domain.TrainingPlanData) domain.TrainingPlanData {
	d.ID = ""
	for i := range d.Sessions {
		s := &d.Sessions[i]
		s.ID = ""
		for j := range s.Groups {
			g := &s.Groups[j]
			g.ID = ""
			for k := range g.AppliedExercises {
				g.AppliedExercises[k].ID = ""
			}
		}
	}
	return d
}

func (f *fixture) createPlan(t *testing.T, id string, sessions, groups, exercises int) *domain.TrainingPlan {
	t.Helper()

	plan, err := f.plans.CreatePlan(
		t.Context(),
		testutils.ProfileID,
		testutils.PlanData(id, testutils.ProfileID, sessions, groups, exercises),
	)
	require.NoError(t, err, "failed to create plan fixture")
	return plan
}

func (f *fixture) createCycle(t *testing.T, profileID, id string) *domain.TrainingCycle {
	t.Helper()

	cycle, err := f.cycles.CreateCycle(t.Context(), profileID, testutils.CycleData(id, profileID))
	require.NoError(t, err, "failed to create cycle fixture")
	return cycle
}

func requireValidation(t *testing.T, err error, path, code string) {
	t.Helper()

	var verr *service.ValidationFailedError
	require.ErrorAs(t, err, &verr)
	for _, is := range verr.Issues {
		if is.Path == path && is.Code == code {
			return
		}
	}
	t.Fatalf("no %s issue at %s in %v", code, path, verr.Issues)
}
