package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/liftplan/internal/domain"
	"github.com/phrazzld/liftplan/internal/platform/logger"
	"github.com/phrazzld/liftplan/internal/store"
)

const trainingCycleColumns = `id, profile_id, name, start_date, end_date, goal, notes, created_at, updated_at`

// TrainingCycleRepository implements store.TrainingCycleStore. Cycles own no
// rows; the plan store is only used to detach plans on delete.
type TrainingCycleRepository struct {
	db     store.DBTX
	plans  store.TrainingPlanStore
	logger *slog.Logger
}

// NewTrainingCycleRepository creates a repository on db.
func NewTrainingCycleRepository(
	db store.DBTX,
	plans store.TrainingPlanStore,
	logger *slog.Logger,
) *TrainingCycleRepository {
	if db == nil {
		panic("db cannot be nil")
	}
	if plans == nil {
		panic("plans cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TrainingCycleRepository{
		db:     db,
		plans:  plans,
		logger: logger.With(slog.String("component", "training_cycle_repository")),
	}
}

var _ store.TrainingCycleStore = (*TrainingCycleRepository)(nil)

// WithTx implements store.TrainingCycleStore.
func (r *TrainingCycleRepository) WithTx(tx *sql.Tx) store.TrainingCycleStore {
	return &TrainingCycleRepository{
		db:     tx,
		plans:  r.plans.WithTx(tx),
		logger: r.logger,
	}
}

// Save implements store.TrainingCycleStore.
func (r *TrainingCycleRepository) Save(ctx context.Context, c *domain.TrainingCycle) (*domain.TrainingCycle, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	err := store.WithinTransaction(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		err := upsert(ctx, tx,
			`UPDATE training_cycles
			SET profile_id = $2, name = $3, start_date = $4, end_date = $5, goal = $6,
				notes = $7, created_at = $8, updated_at = $9
			WHERE id = $1`,
			`INSERT INTO training_cycles (`+trainingCycleColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			c.ID(),
			c.ProfileID(),
			c.Name(),
			toMillis(c.StartDate()),
			toMillis(c.EndDate()),
			string(c.Goal()),
			nullString(c.Notes()),
			toMillis(c.CreatedAt()),
			toMillis(c.UpdatedAt()),
		)
		if err != nil {
			return storeError("training cycle", "save", c.ID(), err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to save training cycle",
			slog.String("error", err.Error()),
			slog.String("cycle_id", c.ID()))
		return nil, err
	}

	log.Info("training cycle saved",
		slog.String("cycle_id", c.ID()),
		slog.String("profile_id", c.ProfileID()))
	return c, nil
}

// FindByID implements store.TrainingCycleStore.
func (r *TrainingCycleRepository) FindByID(ctx context.Context, id string) (*domain.TrainingCycle, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)
	log.Debug("retrieving training cycle", slog.String("cycle_id", id))

	c, err := scanTrainingCycle(r.db.QueryRowContext(ctx,
		`SELECT `+trainingCycleColumns+` FROM training_cycles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("training cycle not found", slog.String("cycle_id", id))
			return nil, store.ErrTrainingCycleNotFound
		}
		log.Error("failed to retrieve training cycle",
			slog.String("error", err.Error()),
			slog.String("cycle_id", id))
		return nil, storeError("training cycle", "find", id, err)
	}
	return c, nil
}

// FindByIDs implements store.TrainingCycleStore.
func (r *TrainingCycleRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.TrainingCycle, error) {
	if len(ids) == 0 {
		return []*domain.TrainingCycle{}, nil
	}
	log := logger.FromContextOrDefault(ctx, r.logger)

	unique := uniqueIDs(ids)
	found, err := queryAll(ctx, r.db, scanTrainingCycle,
		`SELECT `+trainingCycleColumns+` FROM training_cycles WHERE id IN (`+placeholders(len(unique))+`)`,
		anyIDs(unique)...)
	if err != nil {
		log.Error("failed to retrieve training cycles",
			slog.String("error", err.Error()),
			slog.Int("requested", len(unique)))
		return nil, storeError("training cycle", "find", "batch", err)
	}

	byID := make(map[string]*domain.TrainingCycle, len(found))
	for _, c := range found {
		byID[c.ID()] = c
	}
	return inOrder(ids, byID), nil
}

// FindAll implements store.TrainingCycleStore. Cycles are ordered by start date.
func (r *TrainingCycleRepository) FindAll(ctx context.Context, profileID string) ([]*domain.TrainingCycle, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	found, err := queryAll(ctx, r.db, scanTrainingCycle,
		`SELECT `+trainingCycleColumns+` FROM training_cycles
		WHERE profile_id = $1 ORDER BY start_date, created_at, id`, profileID)
	if err != nil {
		log.Error("failed to list training cycles",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID))
		return nil, storeError("training cycle", "list", profileID, err)
	}
	if found == nil {
		found = []*domain.TrainingCycle{}
	}
	return found, nil
}

// Delete implements store.TrainingCycleStore. Every plan referencing the
// cycle is saved with its cycle cleared before the cycle row is removed.
func (r *TrainingCycleRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, r.logger)

	detached := 0
	err := store.WithinTransaction(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		plans := r.plans.WithTx(tx)
		linked, err := plans.FindByCycleID(ctx, id)
		if err != nil {
			return err
		}
		for _, p := range linked {
			if _, err := plans.Save(ctx, p.CloneWithCycleID(nil)); err != nil {
				return err
			}
		}
		detached = len(linked)

		if _, err := tx.ExecContext(ctx, `DELETE FROM training_cycles WHERE id = $1`, id); err != nil {
			return storeError("training cycle", "delete", id, err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to delete training cycle",
			slog.String("error", err.Error()),
			slog.String("cycle_id", id))
		return err
	}

	log.Info("training cycle deleted",
		slog.String("cycle_id", id),
		slog.Int("detached_plans", detached))
	return nil
}

func scanTrainingCycle(row scanner) (*domain.TrainingCycle, error) {
	var (
		d       domain.TrainingCycleData
		start   int64
		end     int64
		goal    string
		notes   sql.NullString
		created int64
		updated int64
	)
	if err := row.Scan(
		&d.ID,
		&d.ProfileID,
		&d.Name,
		&start,
		&end,
		&goal,
		&notes,
		&created,
		&updated,
	); err != nil {
		return nil, err
	}

	d.StartDate = fromMillis(start)
	d.EndDate = fromMillis(end)
	d.Goal = domain.Goal(goal)
	d.Notes = stringPtr[string](notes)
	d.CreatedAt = fromMillis(created)
	d.UpdatedAt = fromMillis(updated)

	c, err := domain.HydrateTrainingCycle(d)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	return c, nil
}
