package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/liftplan/internal/domain"
	"github.com/phrazzld/liftplan/internal/domain/setconfig"
	"github.com/phrazzld/liftplan/internal/idgen"
	"github.com/phrazzld/liftplan/internal/platform/logger"
	"github.com/phrazzld/liftplan/internal/store"
)

const (
	planService = "plan"
	planEntity  = "training plan"
)

// PlanService provides training plan operations for one profile at a time.
// Plans of other profiles behave as if they did not exist.
type PlanService interface {
	// CreatePlan assigns ids and timestamps to data, validates it and saves
	// the whole tree.
	CreatePlan(ctx context.Context, profileID string, data domain.TrainingPlanData) (*domain.TrainingPlan, error)

	// GetPlan retrieves a plan with everything it owns.
	GetPlan(ctx context.Context, profileID, planID string) (*domain.TrainingPlan, error)

	// ListPlans returns the profile's plans, archived ones only when asked.
	ListPlans(ctx context.Context, profileID string, includeArchived bool) ([]*domain.TrainingPlan, error)

	// UpdatePlan replaces the stored plan with data. Sessions, groups and
	// exercises missing from data are deleted in the same transaction.
	UpdatePlan(ctx context.Context, profileID, planID string, data domain.TrainingPlanData) (*domain.TrainingPlan, error)

	// DeletePlan removes the plan and everything it owns.
	DeletePlan(ctx context.Context, profileID, planID string) error

	// ArchivePlan hides the plan from the active list.
	ArchivePlan(ctx context.Context, profileID, planID string) (*domain.TrainingPlan, error)

	// RestorePlan brings an archived plan back.
	RestorePlan(ctx context.Context, profileID, planID string) (*domain.TrainingPlan, error)

	// AdvancePlan records the current session as performed and moves the
	// rotation to the next one.
	AdvancePlan(ctx context.Context, profileID, planID string) (*domain.TrainingPlan, error)

	// AssignCycle attaches the plan to a cycle of the same profile; nil
	// detaches it.
	AssignCycle(ctx context.Context, profileID, planID string, cycleID *string) (*domain.TrainingPlan, error)

	// StartSession generates the empty performed sets for a session of the
	// plan. An empty sessionID selects the plan's current session.
	StartSession(
		ctx context.Context,
		profileID, planID, sessionID string,
		counter setconfig.CounterType,
	) ([]setconfig.PerformedSet, error)
}

// planServiceImpl implements the PlanService interface
type planServiceImpl struct {
	db     store.TxBeginner
	stores Stores
	ids    idgen.Generator
	now    Clock
	logger *slog.Logger
}

// NewPlanService creates a new PlanService.
// It returns an error if any of the required dependencies are nil.
func NewPlanService(
	db store.TxBeginner,
	stores Stores,
	ids idgen.Generator,
	now Clock,
	logger *slog.Logger,
) (PlanService, error) {
	if db == nil {
		return nil, &ServiceError{Service: planService, Operation: "create_service", Message: "db cannot be nil"}
	}
	if err := stores.validate(planService); err != nil {
		return nil, err
	}
	if ids == nil {
		return nil, &ServiceError{Service: planService, Operation: "create_service", Message: "ids cannot be nil"}
	}
	if now == nil {
		now = domain.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &planServiceImpl{
		db:     db,
		stores: stores,
		ids:    ids,
		now:    now,
		logger: logger.With(slog.String("component", "plan_service")),
	}, nil
}

// CreatePlan implements PlanService.
func (s *planServiceImpl) CreatePlan(
	ctx context.Context,
	profileID string,
	data domain.TrainingPlanData,
) (*domain.TrainingPlan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	stamper{ids: s.ids, profileID: profileID, now: s.now()}.plan(&data)
	log = log.With(slog.String("plan_id", data.ID), slog.String("profile_id", profileID))

	plan, err := buildPlan(data)
	if err != nil {
		return nil, fail(log, planService, "create_plan", "invalid training plan", err)
	}

	var saved *domain.TrainingPlan
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		plans := s.stores.Plans.WithTx(tx)
		if _, err := plans.FindByID(ctx, data.ID); err == nil {
			return invalidField(planEntity, "id", "id_taken", fmt.Sprintf("id %q is already in use", data.ID))
		} else if !store.IsNotFoundError(err) {
			return err
		}
		if err := s.checkCycle(ctx, s.stores.Cycles.WithTx(tx), profileID, data.CycleID); err != nil {
			return err
		}
		if err := s.checkUnclaimed(ctx, tx, treeOf(data)); err != nil {
			return err
		}
		var err error
		saved, err = plans.Save(ctx, plan)
		return err
	})
	if err != nil {
		return nil, fail(log, planService, "create_plan", "failed to create training plan", err)
	}

	log.Info("training plan created", slog.Int("session_count", saved.SessionCount()))
	return saved, nil
}

// GetPlan implements PlanService.
func (s *planServiceImpl) GetPlan(ctx context.Context, profileID, planID string) (*domain.TrainingPlan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("plan_id", planID),
		slog.String("profile_id", profileID),
	)

	plan, err := s.owned(ctx, s.stores.Plans, profileID, planID)
	if err != nil {
		return nil, fail(log, planService, "get_plan", "failed to get training plan", err)
	}
	return plan, nil
}

// ListPlans implements PlanService.
func (s *planServiceImpl) ListPlans(
	ctx context.Context,
	profileID string,
	includeArchived bool,
) ([]*domain.TrainingPlan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("profile_id", profileID))

	var (
		plans []*domain.TrainingPlan
		err   error
	)
	if includeArchived {
		plans, err = s.stores.Plans.FindAll(ctx, profileID)
	} else {
		plans, err = s.stores.Plans.FindActive(ctx, profileID)
	}
	if err != nil {
		return nil, fail(log, planService, "list_plans", "failed to list training plans", err)
	}

	log.Debug("listed training plans",
		slog.Int("count", len(plans)),
		slog.Bool("include_archived", includeArchived))
	return plans, nil
}

// UpdatePlan implements PlanService.
func (s *planServiceImpl) UpdatePlan(
	ctx context.Context,
	profileID, planID string,
	data domain.TrainingPlanData,
) (*domain.TrainingPlan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("plan_id", planID),
		slog.String("profile_id", profileID),
	)

	var (
		saved  *domain.TrainingPlan
		pruned int
	)
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		plans := s.stores.Plans.WithTx(tx)
		existing, err := s.owned(ctx, plans, profileID, planID)
		if err != nil {
			return err
		}
		before := existing.ToData()

		data.ID = planID
		stamper{ids: s.ids, profileID: profileID, now: s.now(), created: createdTimes(before)}.plan(&data)

		plan, err := buildPlan(data)
		if err != nil {
			return err
		}
		if err := s.checkCycle(ctx, s.stores.Cycles.WithTx(tx), profileID, data.CycleID); err != nil {
			return err
		}

		old, next := treeOf(before), treeOf(data)
		if err := s.checkUnclaimed(ctx, tx, planTree{
			sessions:  without(next.sessions, old.sessions),
			groups:    without(next.groups, old.groups),
			exercises: without(next.exercises, old.exercises),
		}); err != nil {
			return err
		}

		// Removed subtrees go first. Deleting a parent also deletes children
		// that moved elsewhere in the plan; saving the new tree re-inserts them.
		pruned, err = s.prune(ctx, tx, old, next)
		if err != nil {
			return err
		}

		saved, err = plans.Save(ctx, plan)
		return err
	})
	if err != nil {
		return nil, fail(log, planService, "update_plan", "failed to update training plan", err)
	}

	log.Info("training plan updated",
		slog.Int("session_count", saved.SessionCount()),
		slog.Int("pruned", pruned))
	return saved, nil
}

// DeletePlan implements PlanService.
func (s *planServiceImpl) DeletePlan(ctx context.Context, profileID, planID string) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("plan_id", planID),
		slog.String("profile_id", profileID),
	)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		plans := s.stores.Plans.WithTx(tx)
		if _, err := s.owned(ctx, plans, profileID, planID); err != nil {
			return err
		}
		return plans.Delete(ctx, planID)
	})
	if err != nil {
		return fail(log, planService, "delete_plan", "failed to delete training plan", err)
	}

	log.Info("training plan deleted")
	return nil
}

// ArchivePlan implements PlanService.
func (s *planServiceImpl) ArchivePlan(ctx context.Context, profileID, planID string) (*domain.TrainingPlan, error) {
	return s.modify(ctx, "archive_plan", profileID, planID,
		func(_ context.Context, _ *sql.Tx, p *domain.TrainingPlan) (*domain.TrainingPlan, error) {
			return p.CloneWithArchived(true), nil
		})
}

// RestorePlan implements PlanService.
func (s *planServiceImpl) RestorePlan(ctx context.Context, profileID, planID string) (*domain.TrainingPlan, error) {
	return s.modify(ctx, "restore_plan", profileID, planID,
		func(_ context.Context, _ *sql.Tx, p *domain.TrainingPlan) (*domain.TrainingPlan, error) {
			return p.CloneWithArchived(false), nil
		})
}

// AdvancePlan implements PlanService.
func (s *planServiceImpl) AdvancePlan(ctx context.Context, profileID, planID string) (*domain.TrainingPlan, error) {
	return s.modify(ctx, "advance_plan", profileID, planID,
		func(_ context.Context, _ *sql.Tx, p *domain.TrainingPlan) (*domain.TrainingPlan, error) {
			if current, ok := p.CurrentSession(); ok {
				performed, err := performedSession(current)
				if err != nil {
					return nil, err
				}
				if p, err = p.CloneWithReplacedSession(performed); err != nil {
					return nil, err
				}
			}
			return p.CloneWithAdvancedSession(s.now()), nil
		})
}

// AssignCycle implements PlanService.
func (s *planServiceImpl) AssignCycle(
	ctx context.Context,
	profileID, planID string,
	cycleID *string,
) (*domain.TrainingPlan, error) {
	return s.modify(ctx, "assign_cycle", profileID, planID,
		func(ctx context.Context, tx *sql.Tx, p *domain.TrainingPlan) (*domain.TrainingPlan, error) {
			if err := s.checkCycle(ctx, s.stores.Cycles.WithTx(tx), profileID, cycleID); err != nil {
				return nil, err
			}
			return p.CloneWithCycleID(cycleID), nil
		})
}

// StartSession implements PlanService.
func (s *planServiceImpl) StartSession(
	ctx context.Context,
	profileID, planID, sessionID string,
	counter setconfig.CounterType,
) ([]setconfig.PerformedSet, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("plan_id", planID),
		slog.String("profile_id", profileID),
	)

	if counter == "" {
		counter = setconfig.CounterReps
	}
	if !counter.Valid() {
		err := invalidField("session", "counterType", "oneof", "must be one of [reps time distance]")
		return nil, fail(log, planService, "start_session", "invalid counter type", err)
	}

	plan, err := s.owned(ctx, s.stores.Plans, profileID, planID)
	if err != nil {
		return nil, fail(log, planService, "start_session", "failed to load training plan", err)
	}

	var (
		session *domain.Session
		ok      bool
	)
	if sessionID == "" {
		session, ok = plan.CurrentSession()
	} else {
		session, ok = plan.FindSessionByID(sessionID)
	}
	if !ok {
		err := fmt.Errorf("session %q: %w", sessionID, domain.ErrNotInAggregate)
		return nil, fail(log, planService, "start_session", "session not found in plan", err)
	}

	sets := session.GenerateEmptySets(s.ids, counter)
	log.Debug("generated session sets",
		slog.String("session_id", session.ID()),
		slog.Int("set_count", len(sets)))
	return sets, nil
}

// modify loads an owned plan, applies change and saves the result in one
// transaction.
func (s *planServiceImpl) modify(
	ctx context.Context,
	operation, profileID, planID string,
	change func(ctx context.Context, tx *sql.Tx, p *domain.TrainingPlan) (*domain.TrainingPlan, error),
) (*domain.TrainingPlan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("plan_id", planID),
		slog.String("profile_id", profileID),
	)

	var saved *domain.TrainingPlan
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		plans := s.stores.Plans.WithTx(tx)
		plan, err := s.owned(ctx, plans, profileID, planID)
		if err != nil {
			return err
		}
		changed, err := change(ctx, tx, plan)
		if err != nil {
			return err
		}
		saved, err = plans.Save(ctx, changed)
		return err
	})
	if err != nil {
		return nil, fail(log, planService, operation, "failed to change training plan", err)
	}

	log.Info("training plan changed", slog.String("operation", operation))
	return saved, nil
}

// owned loads the plan and checks that it belongs to profileID.
func (s *planServiceImpl) owned(
	ctx context.Context,
	plans store.TrainingPlanStore,
	profileID, planID string,
) (*domain.TrainingPlan, error) {
	plan, err := plans.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.ProfileID() != profileID {
		return nil, ErrNotOwned
	}
	return plan, nil
}

// checkCycle verifies that a referenced cycle exists and belongs to
// profileID. Cycles of other profiles are reported as missing.
func (s *planServiceImpl) checkCycle(
	ctx context.Context,
	cycles store.TrainingCycleStore,
	profileID string,
	cycleID *string,
) error {
	if cycleID == nil {
		return nil
	}
	cycle, err := cycles.FindByID(ctx, *cycleID)
	if store.IsNotFoundError(err) || (err == nil && cycle.ProfileID() != profileID) {
		return invalidField(planEntity, "cycleId", "not_found",
			fmt.Sprintf("training cycle %q does not exist", *cycleID))
	}
	return err
}

// checkUnclaimed rejects ids that already belong to stored rows, which an
// upsert would otherwise take over.
func (s *planServiceImpl) checkUnclaimed(ctx context.Context, tx *sql.Tx, ids planTree) error {
	if len(ids.sessions) > 0 {
		found, err := s.stores.Sessions.WithTx(tx).FindByIDs(ctx, ids.sessions)
		if err != nil {
			return err
		}
		if len(found) > 0 {
			return idTaken(found[0].ID())
		}
	}
	if len(ids.groups) > 0 {
		found, err := s.stores.Groups.WithTx(tx).FindByIDs(ctx, ids.groups)
		if err != nil {
			return err
		}
		if len(found) > 0 {
			return idTaken(found[0].ID())
		}
	}
	if len(ids.exercises) > 0 {
		found, err := s.stores.Exercises.WithTx(tx).FindByIDs(ctx, ids.exercises)
		if err != nil {
			return err
		}
		if len(found) > 0 {
			return idTaken(found[0].ID())
		}
	}
	return nil
}

// prune deletes the entities of old that next no longer contains and
// returns how many were removed.
func (s *planServiceImpl) prune(ctx context.Context, tx *sql.Tx, old, next planTree) (int, error) {
	sessions := without(old.sessions, next.sessions)
	groups := without(old.groups, next.groups)
	exercises := without(old.exercises, next.exercises)

	for _, id := range sessions {
		if err := s.stores.Sessions.WithTx(tx).Delete(ctx, id); err != nil {
			return 0, err
		}
	}
	for _, id := range groups {
		if err := s.stores.Groups.WithTx(tx).Delete(ctx, id); err != nil {
			return 0, err
		}
	}
	for _, id := range exercises {
		if err := s.stores.Exercises.WithTx(tx).Delete(ctx, id); err != nil {
			return 0, err
		}
	}
	return len(sessions) + len(groups) + len(exercises), nil
}

func idTaken(id string) error {
	return invalidField(planEntity, "id", "id_taken", fmt.Sprintf("id %q is already in use", id))
}

// buildPlan validates data and hydrates it.
func buildPlan(data domain.TrainingPlanData) (*domain.TrainingPlan, error) {
	if res := domain.ValidateTrainingPlanData(data); !res.Success {
		return nil, validationFailed(planEntity, res.Error)
	}
	return domain.HydrateTrainingPlan(data)
}

// performedSession bumps the execution count of the session and of every
// exercise in it.
func performedSession(session *domain.Session) (*domain.Session, error) {
	out := session.CloneWithIncrementedExecutionCount()
	for _, g := range session.Groups() {
		group := g
		for _, e := range g.AppliedExercises() {
			var err error
			if group, err = group.CloneWithReplacedExercise(e.CloneWithIncrementedExecutionCount()); err != nil {
				return nil, err
			}
		}
		var err error
		if out, err = out.CloneWithReplacedGroup(group); err != nil {
			return nil, err
		}
	}
	return out, nil
}
