package rediscache

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/liftplan/internal/domain"
	"github.com/phrazzld/liftplan/internal/platform/logger"
	"github.com/phrazzld/liftplan/internal/store"
)

const planKeyPrefix = "plan:id:"

// PlanKey is the cache key of a training plan.
func PlanKey(id string) string {
	return planKeyPrefix + id
}

// TrainingPlanStore caches whole plan aggregates by id in front of another
// TrainingPlanStore. Only FindByID is served from the cache; list queries
// always reach the inner store.
type TrainingPlanStore struct {
	inner  store.TrainingPlanStore
	cache  *Cache
	logger *slog.Logger

	// inTx disables cache reads and fills: the transaction may not commit.
	inTx bool
}

// NewTrainingPlanStore wraps inner with cache.
func NewTrainingPlanStore(inner store.TrainingPlanStore, cache *Cache, logger *slog.Logger) *TrainingPlanStore {
	if inner == nil {
		panic("inner store cannot be nil")
	}
	if cache == nil {
		panic("cache cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TrainingPlanStore{
		inner:  inner,
		cache:  cache,
		logger: logger.With(slog.String("component", "training_plan_cache")),
	}
}

var _ store.TrainingPlanStore = (*TrainingPlanStore)(nil)

// WithTx returns a store bound to tx that still invalidates on writes.
func (s *TrainingPlanStore) WithTx(tx *sql.Tx) store.TrainingPlanStore {
	return &TrainingPlanStore{
		inner:  s.inner.WithTx(tx),
		cache:  s.cache,
		logger: s.logger,
		inTx:   true,
	}
}

// FindByID serves the plan from the cache when present and fills the cache
// on a miss. Not found results are not cached.
func (s *TrainingPlanStore) FindByID(ctx context.Context, id string) (*domain.TrainingPlan, error) {
	if s.inTx {
		return s.inner.FindByID(ctx, id)
	}
	log := logger.FromContextOrDefault(ctx, s.logger)
	key := PlanKey(id)

	var data domain.TrainingPlanData
	err := s.cache.Get(ctx, key, &data)
	switch {
	case err == nil:
		plan, hydrateErr := domain.HydrateTrainingPlan(data)
		if hydrateErr == nil {
			log.Debug("training plan cache hit", slog.String("plan_id", id))
			return plan, nil
		}
		log.Warn("discarding undecodable cached plan",
			slog.String("plan_id", id),
			slog.String("error", hydrateErr.Error()))
	case errors.Is(err, ErrCacheMiss):
		log.Debug("training plan cache miss", slog.String("plan_id", id))
	default:
		log.Warn("training plan cache read failed",
			slog.String("plan_id", id),
			slog.String("error", err.Error()))
	}

	plan, err := s.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, plan.ToData()); err != nil {
		log.Warn("training plan cache write failed",
			slog.String("plan_id", id),
			slog.String("error", err.Error()))
	}
	return plan, nil
}

// Save writes through and then drops the cached copy.
func (s *TrainingPlanStore) Save(ctx context.Context, p *domain.TrainingPlan) (*domain.TrainingPlan, error) {
	saved, err := s.inner.Save(ctx, p)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, p.ID())
	return saved, nil
}

// Delete deletes through and then drops the cached copy.
func (s *TrainingPlanStore) Delete(ctx context.Context, id string) error {
	if err := s.inner.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *TrainingPlanStore) FindByIDs(ctx context.Context, ids []string) ([]*domain.TrainingPlan, error) {
	return s.inner.FindByIDs(ctx, ids)
}

func (s *TrainingPlanStore) FindAll(ctx context.Context, profileID string) ([]*domain.TrainingPlan, error) {
	return s.inner.FindAll(ctx, profileID)
}

func (s *TrainingPlanStore) FindActive(ctx context.Context, profileID string) ([]*domain.TrainingPlan, error) {
	return s.inner.FindActive(ctx, profileID)
}

func (s *TrainingPlanStore) FindByCycleID(ctx context.Context, cycleID string) ([]*domain.TrainingPlan, error) {
	return s.inner.FindByCycleID(ctx, cycleID)
}

func (s *TrainingPlanStore) invalidate(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, PlanKey(id)); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("training plan cache invalidation failed",
			slog.String("plan_id", id),
			slog.String("error", err.Error()))
	}
}
