package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/liftplan/internal/domain"
	"github.com/phrazzld/liftplan/internal/idgen"
	"github.com/phrazzld/liftplan/internal/platform/logger"
	"github.com/phrazzld/liftplan/internal/store"
)

const (
	cycleService = "cycle"
	cycleEntity  = "training cycle"
)

// CycleSummary aggregates a cycle with the plans that reference it.
type CycleSummary struct {
	Cycle                  *domain.TrainingCycle
	Plans                  []*domain.TrainingPlan
	TotalSessions          int
	WeeklySessionFrequency float64
	DurationWeeks          int
	Active                 bool
}

// CycleService provides training cycle operations for one profile at a time.
type CycleService interface {
	// CreateCycle assigns an id and timestamps to data, validates it and
	// saves it.
	CreateCycle(ctx context.Context, profileID string, data domain.TrainingCycleData) (*domain.TrainingCycle, error)

	// GetCycle retrieves a cycle.
	GetCycle(ctx context.Context, profileID, cycleID string) (*domain.TrainingCycle, error)

	// ListCycles returns the profile's cycles ordered by start date.
	ListCycles(ctx context.Context, profileID string) ([]*domain.TrainingCycle, error)

	// UpdateCycle replaces the stored cycle with data.
	UpdateCycle(
		ctx context.Context,
		profileID, cycleID string,
		data domain.TrainingCycleData,
	) (*domain.TrainingCycle, error)

	// DeleteCycle removes the cycle and detaches its plans.
	DeleteCycle(ctx context.Context, profileID, cycleID string) error

	// CycleSummary reports the cycle's plans, session totals and whether
	// the cycle is running now.
	CycleSummary(ctx context.Context, profileID, cycleID string) (*CycleSummary, error)
}

type cycleServiceImpl struct {
	db     store.TxBeginner
	stores Stores
	ids    idgen.Generator
	now    Clock
	logger *slog.Logger
}

// NewCycleService creates a new CycleService.
// It returns an error if any of the required dependencies are nil.
func NewCycleService(
	db store.TxBeginner,
	stores Stores,
	ids idgen.Generator,
	now Clock,
	logger *slog.Logger,
) (CycleService, error) {
	if db == nil {
		return nil, &ServiceError{Service: cycleService, Operation: "create_service", Message: "db cannot be nil"}
	}
	if err := stores.validate(cycleService); err != nil {
		return nil, err
	}
	if ids == nil {
		return nil, &ServiceError{Service: cycleService, Operation: "create_service", Message: "ids cannot be nil"}
	}
	if now == nil {
		now = domain.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &cycleServiceImpl{
		db:     db,
		stores: stores,
		ids:    ids,
		now:    now,
		logger: logger.With(slog.String("component", "cycle_service")),
	}, nil
}

// CreateCycle implements CycleService.
func (s *cycleServiceImpl) CreateCycle(
	ctx context.Context,
	profileID string,
	data domain.TrainingCycleData,
) (*domain.TrainingCycle, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	stamper{ids: s.ids, profileID: profileID, now: s.now()}.cycle(&data)
	log = log.With(slog.String("cycle_id", data.ID), slog.String("profile_id", profileID))

	cycle, err := buildCycle(data)
	if err != nil {
		return nil, fail(log, cycleService, "create_cycle", "invalid training cycle", err)
	}

	var saved *domain.TrainingCycle
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		cycles := s.stores.Cycles.WithTx(tx)
		if _, err := cycles.FindByID(ctx, data.ID); err == nil {
			return invalidField(cycleEntity, "id", "id_taken", fmt.Sprintf("id %q is already in use", data.ID))
		} else if !store.IsNotFoundError(err) {
			return err
		}
		var err error
		saved, err = cycles.Save(ctx, cycle)
		return err
	})
	if err != nil {
		return nil, fail(log, cycleService, "create_cycle", "failed to create training cycle", err)
	}

	log.Info("training cycle created")
	return saved, nil
}

// GetCycle implements CycleService.
func (s *cycleServiceImpl) GetCycle(ctx context.Context, profileID, cycleID string) (*domain.TrainingCycle, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("cycle_id", cycleID),
		slog.String("profile_id", profileID),
	)

	cycle, err := s.owned(ctx, s.stores.Cycles, profileID, cycleID)
	if err != nil {
		return nil, fail(log, cycleService, "get_cycle", "failed to get training cycle", err)
	}
	return cycle, nil
}

// ListCycles implements CycleService.
func (s *cycleServiceImpl) ListCycles(ctx context.Context, profileID string) ([]*domain.TrainingCycle, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("profile_id", profileID))

	cycles, err := s.stores.Cycles.FindAll(ctx, profileID)
	if err != nil {
		return nil, fail(log, cycleService, "list_cycles", "failed to list training cycles", err)
	}

	log.Debug("listed training cycles", slog.Int("count", len(cycles)))
	return cycles, nil
}

// UpdateCycle implements CycleService.
func (s *cycleServiceImpl) UpdateCycle(
	ctx context.Context,
	profileID, cycleID string,
	data domain.TrainingCycleData,
) (*domain.TrainingCycle, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("cycle_id", cycleID),
		slog.String("profile_id", profileID),
	)

	var saved *domain.TrainingCycle
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		cycles := s.stores.Cycles.WithTx(tx)
		existing, err := s.owned(ctx, cycles, profileID, cycleID)
		if err != nil {
			return err
		}

		data.ID = cycleID
		stamper{
			ids:       s.ids,
			profileID: profileID,
			now:       s.now(),
			created:   map[string]time.Time{cycleID: existing.CreatedAt()},
		}.cycle(&data)

		cycle, err := buildCycle(data)
		if err != nil {
			return err
		}
		saved, err = cycles.Save(ctx, cycle)
		return err
	})
	if err != nil {
		return nil, fail(log, cycleService, "update_cycle", "failed to update training cycle", err)
	}

	log.Info("training cycle updated")
	return saved, nil
}

// DeleteCycle implements CycleService.
func (s *cycleServiceImpl) DeleteCycle(ctx context.Context, profileID, cycleID string) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("cycle_id", cycleID),
		slog.String("profile_id", profileID),
	)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		cycles := s.stores.Cycles.WithTx(tx)
		if _, err := s.owned(ctx, cycles, profileID, cycleID); err != nil {
			return err
		}
		return cycles.Delete(ctx, cycleID)
	})
	if err != nil {
		return fail(log, cycleService, "delete_cycle", "failed to delete training cycle", err)
	}

	log.Info("training cycle deleted")
	return nil
}

// CycleSummary implements CycleService.
func (s *cycleServiceImpl) CycleSummary(ctx context.Context, profileID, cycleID string) (*CycleSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("cycle_id", cycleID),
		slog.String("profile_id", profileID),
	)

	cycle, err := s.owned(ctx, s.stores.Cycles, profileID, cycleID)
	if err != nil {
		return nil, fail(log, cycleService, "cycle_summary", "failed to get training cycle", err)
	}
	plans, err := s.stores.Plans.FindByCycleID(ctx, cycleID)
	if err != nil {
		return nil, fail(log, cycleService, "cycle_summary", "failed to load cycle plans", err)
	}

	associated := cycle.GetAssociatedPlans(plans)
	return &CycleSummary{
		Cycle:                  cycle,
		Plans:                  associated,
		TotalSessions:          cycle.GetTotalSessionCount(associated),
		WeeklySessionFrequency: cycle.GetWeeklySessionFrequency(associated),
		DurationWeeks:          cycle.DurationWeeks(),
		Active:                 cycle.IsActiveAt(s.now()),
	}, nil
}

func (s *cycleServiceImpl) owned(
	ctx context.Context,
	cycles store.TrainingCycleStore,
	profileID, cycleID string,
) (*domain.TrainingCycle, error) {
	cycle, err := cycles.FindByID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if cycle.ProfileID() != profileID {
		return nil, ErrNotOwned
	}
	return cycle, nil
}

// buildCycle validates data and hydrates it.
func buildCycle(data domain.TrainingCycleData) (*domain.TrainingCycle, error) {
	if res := domain.ValidateTrainingCycleData(data); !res.Success {
		return nil, validationFailed(cycleEntity, res.Error)
	}
	return domain.HydrateTrainingCycle(data)
}
