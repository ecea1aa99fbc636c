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

const trainingPlanColumns = `id, profile_id, name, session_ids, is_archived, current_session_index,
	cycle_id, sort_order, notes, last_used, created_at, updated_at`

// plans without an explicit order sort after ordered ones
const trainingPlanOrder = ` ORDER BY CASE WHEN sort_order IS NULL THEN 1 ELSE 0 END, sort_order, created_at, id`

// TrainingPlanRepository implements store.TrainingPlanStore. It is the root
// of the plan aggregate: saving or deleting a plan cascades to its sessions,
// their groups and their exercises in one transaction.
type TrainingPlanRepository struct {
	db       store.DBTX
	sessions store.SessionStore
	logger   *slog.Logger
}

// NewTrainingPlanRepository creates a repository on db that cascades to
// sessions.
func NewTrainingPlanRepository(
	db store.DBTX,
	sessions store.SessionStore,
	logger *slog.Logger,
) *TrainingPlanRepository {
	if db == nil {
		panic("db cannot be nil")
	}
	if sessions == nil {
		panic("sessions cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TrainingPlanRepository{
		db:       db,
		sessions: sessions,
		logger:   logger.With(slog.String("component", "training_plan_repository")),
	}
}

var _ store.TrainingPlanStore = (*TrainingPlanRepository)(nil)

// WithTx implements store.TrainingPlanStore.
func (r *TrainingPlanRepository) WithTx(tx *sql.Tx) store.TrainingPlanStore {
	return &TrainingPlanRepository{
		db:       tx,
		sessions: r.sessions.WithTx(tx),
		logger:   r.logger,
	}
}

type planRow struct {
	data       domain.TrainingPlanData
	sessionIDs []string
}

// Save implements store.TrainingPlanStore.
func (r *TrainingPlanRepository) Save(ctx context.Context, p *domain.TrainingPlan) (*domain.TrainingPlan, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	sessionIDs, err := encodeIDs(p.SessionIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to encode session ids: %w", err)
	}

	err = store.WithinTransaction(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		err := upsert(ctx, tx,
			`UPDATE training_plans
			SET profile_id = $2, name = $3, session_ids = $4, is_archived = $5,
				current_session_index = $6, cycle_id = $7, sort_order = $8, notes = $9,
				last_used = $10, created_at = $11, updated_at = $12
			WHERE id = $1`,
			`INSERT INTO training_plans (`+trainingPlanColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			p.ID(),
			p.ProfileID(),
			p.Name(),
			sessionIDs,
			p.IsArchived(),
			p.CurrentSessionIndex(),
			nullString(p.CycleID()),
			nullInt(p.Order()),
			nullString(p.Notes()),
			nullMillis(p.LastUsed()),
			toMillis(p.CreatedAt()),
			toMillis(p.UpdatedAt()),
		)
		if err != nil {
			return storeError("training plan", "save", p.ID(), err)
		}

		sessions := r.sessions.WithTx(tx)
		for _, s := range p.Sessions() {
			if _, err := sessions.Save(ctx, s); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to save training plan",
			slog.String("error", err.Error()),
			slog.String("plan_id", p.ID()),
			slog.String("profile_id", p.ProfileID()))
		return nil, err
	}

	log.Info("training plan saved",
		slog.String("plan_id", p.ID()),
		slog.String("profile_id", p.ProfileID()),
		slog.Int("sessions", p.SessionCount()))
	return p, nil
}

// FindByID implements store.TrainingPlanStore.
func (r *TrainingPlanRepository) FindByID(ctx context.Context, id string) (*domain.TrainingPlan, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)
	log.Debug("retrieving training plan", slog.String("plan_id", id))

	row, err := scanPlanRow(r.db.QueryRowContext(ctx,
		`SELECT `+trainingPlanColumns+` FROM training_plans WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("training plan not found", slog.String("plan_id", id))
			return nil, store.ErrTrainingPlanNotFound
		}
		log.Error("failed to retrieve training plan",
			slog.String("error", err.Error()),
			slog.String("plan_id", id))
		return nil, storeError("training plan", "find", id, err)
	}

	plans, err := r.assemble(ctx, []planRow{row})
	if err != nil {
		return nil, err
	}
	return plans[0], nil
}

// FindByIDs implements store.TrainingPlanStore.
func (r *TrainingPlanRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.TrainingPlan, error) {
	if len(ids) == 0 {
		return []*domain.TrainingPlan{}, nil
	}
	log := logger.FromContextOrDefault(ctx, r.logger)

	unique := uniqueIDs(ids)
	rows, err := queryAll(ctx, r.db, scanPlanRow,
		`SELECT `+trainingPlanColumns+` FROM training_plans WHERE id IN (`+placeholders(len(unique))+`)`,
		anyIDs(unique)...)
	if err != nil {
		log.Error("failed to retrieve training plans",
			slog.String("error", err.Error()),
			slog.Int("requested", len(unique)))
		return nil, storeError("training plan", "find", "batch", err)
	}

	plans, err := r.assemble(ctx, rows)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.TrainingPlan, len(plans))
	for _, p := range plans {
		byID[p.ID()] = p
	}
	return inOrder(ids, byID), nil
}

// FindAll implements store.TrainingPlanStore.
func (r *TrainingPlanRepository) FindAll(ctx context.Context, profileID string) ([]*domain.TrainingPlan, error) {
	return r.list(ctx, "list", profileID,
		`SELECT `+trainingPlanColumns+` FROM training_plans WHERE profile_id = $1`+trainingPlanOrder)
}

// FindActive implements store.TrainingPlanStore.
func (r *TrainingPlanRepository) FindActive(ctx context.Context, profileID string) ([]*domain.TrainingPlan, error) {
	return r.list(ctx, "list active", profileID,
		`SELECT `+trainingPlanColumns+` FROM training_plans
		WHERE profile_id = $1 AND is_archived = $2`+trainingPlanOrder, false)
}

// FindByCycleID implements store.TrainingPlanStore.
func (r *TrainingPlanRepository) FindByCycleID(ctx context.Context, cycleID string) ([]*domain.TrainingPlan, error) {
	return r.list(ctx, "list by cycle", cycleID,
		`SELECT `+trainingPlanColumns+` FROM training_plans WHERE cycle_id = $1`+trainingPlanOrder)
}

func (r *TrainingPlanRepository) list(
	ctx context.Context,
	operation, key, query string,
	args ...any,
) ([]*domain.TrainingPlan, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	rows, err := queryAll(ctx, r.db, scanPlanRow, query, append([]any{key}, args...)...)
	if err != nil {
		log.Error("failed to list training plans",
			slog.String("error", err.Error()),
			slog.String("operation", operation),
			slog.String("key", key))
		return nil, storeError("training plan", operation, key, err)
	}

	plans, err := r.assemble(ctx, rows)
	if err != nil {
		return nil, err
	}
	log.Debug("listed training plans",
		slog.String("operation", operation),
		slog.Int("count", len(plans)))
	return plans, nil
}

// Delete implements store.TrainingPlanStore.
func (r *TrainingPlanRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, r.logger)

	err := store.WithinTransaction(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		sessionIDs, err := storedChildIDs(ctx, tx, `SELECT session_ids FROM training_plans WHERE id = $1`, id)
		if err != nil {
			return storeError("training plan", "delete", id, err)
		}

		sessions := r.sessions.WithTx(tx)
		for _, sessionID := range sessionIDs {
			if err := sessions.Delete(ctx, sessionID); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM training_plans WHERE id = $1`, id); err != nil {
			return storeError("training plan", "delete", id, err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to delete training plan",
			slog.String("error", err.Error()),
			slog.String("plan_id", id))
		return err
	}

	log.Info("training plan deleted", slog.String("plan_id", id))
	return nil
}

func (r *TrainingPlanRepository) assemble(ctx context.Context, rows []planRow) ([]*domain.TrainingPlan, error) {
	var childIDs []string
	for _, row := range rows {
		childIDs = append(childIDs, row.sessionIDs...)
	}
	sessions, err := r.sessions.FindByIDs(ctx, uniqueIDs(childIDs))
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Session, len(sessions))
	for _, s := range sessions {
		byID[s.ID()] = s
	}

	plans := make([]*domain.TrainingPlan, 0, len(rows))
	for _, row := range rows {
		data := row.data
		for _, s := range inOrder(row.sessionIDs, byID) {
			data.Sessions = append(data.Sessions, s.ToData())
		}
		p, err := domain.HydrateTrainingPlan(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
		plans = append(plans, p)
	}
	return plans, nil
}

func scanPlanRow(row scanner) (planRow, error) {
	var (
		out      planRow
		ids      string
		cycleID  sql.NullString
		order    sql.NullInt64
		notes    sql.NullString
		lastUsed sql.NullInt64
		created  int64
		updated  int64
	)
	if err := row.Scan(
		&out.data.ID,
		&out.data.ProfileID,
		&out.data.Name,
		&ids,
		&out.data.IsArchived,
		&out.data.CurrentSessionIndex,
		&cycleID,
		&order,
		&notes,
		&lastUsed,
		&created,
		&updated,
	); err != nil {
		return planRow{}, err
	}

	sessionIDs, err := decodeIDs(ids)
	if err != nil {
		return planRow{}, err
	}
	out.sessionIDs = sessionIDs
	out.data.Sessions = []domain.SessionData{}
	out.data.CycleID = stringPtr[string](cycleID)
	out.data.Order = intPtr(order)
	out.data.Notes = stringPtr[string](notes)
	out.data.LastUsed = millisPtr(lastUsed)
	out.data.CreatedAt = fromMillis(created)
	out.data.UpdatedAt = fromMillis(updated)
	return out, nil
}
