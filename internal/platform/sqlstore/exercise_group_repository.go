package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/liftplan/internal/domain"
	"github.com/phrazzld/liftplan/internal/platform/logger"
	"github.com/phrazzld/liftplan/internal/store"
)

const exerciseGroupColumns = `id, profile_id, group_type, applied_exercise_ids, rounds,
	duration_minutes, rest_time_seconds, created_at, updated_at`

// ExerciseGroupRepository implements store.ExerciseGroupStore. Exercises are
// read and written through the injected AppliedExerciseStore.
type ExerciseGroupRepository struct {
	db        store.DBTX
	exercises store.AppliedExerciseStore
	logger    *slog.Logger
}

// NewExerciseGroupRepository creates a repository on db that cascades to
// exercises.
func NewExerciseGroupRepository(
	db store.DBTX,
	exercises store.AppliedExerciseStore,
	logger *slog.Logger,
) *ExerciseGroupRepository {
	if db == nil {
		panic("db cannot be nil")
	}
	if exercises == nil {
		panic("exercises cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExerciseGroupRepository{
		db:        db,
		exercises: exercises,
		logger:    logger.With(slog.String("component", "exercise_group_repository")),
	}
}

var _ store.ExerciseGroupStore = (*ExerciseGroupRepository)(nil)

// WithTx implements store.ExerciseGroupStore.
func (r *ExerciseGroupRepository) WithTx(tx *sql.Tx) store.ExerciseGroupStore {
	return &ExerciseGroupRepository{
		db:        tx,
		exercises: r.exercises.WithTx(tx),
		logger:    r.logger,
	}
}

// groupRow is a stored group before its exercises are attached.
type groupRow struct {
	data        domain.ExerciseGroupData
	exerciseIDs []string
}

// Save implements store.ExerciseGroupStore.
func (r *ExerciseGroupRepository) Save(ctx context.Context, g *domain.ExerciseGroup) (*domain.ExerciseGroup, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	exerciseIDs, err := encodeIDs(g.ExerciseIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to encode exercise ids: %w", err)
	}
	var rounds sql.NullString
	if rr := g.Rounds(); rr != nil {
		b, err := json.Marshal(rr)
		if err != nil {
			return nil, fmt.Errorf("failed to encode rounds: %w", err)
		}
		rounds = sql.NullString{String: string(b), Valid: true}
	}

	err = store.WithinTransaction(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		err := upsert(ctx, tx,
			`UPDATE exercise_groups
			SET profile_id = $2, group_type = $3, applied_exercise_ids = $4, rounds = $5,
				duration_minutes = $6, rest_time_seconds = $7, created_at = $8, updated_at = $9
			WHERE id = $1`,
			`INSERT INTO exercise_groups (`+exerciseGroupColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			g.ID(),
			g.ProfileID(),
			string(g.Type()),
			exerciseIDs,
			rounds,
			nullInt(g.DurationMinutes()),
			nullInt(g.RestTimeSeconds()),
			toMillis(g.CreatedAt()),
			toMillis(g.UpdatedAt()),
		)
		if err != nil {
			return storeError("exercise group", "save", g.ID(), err)
		}

		exercises := r.exercises.WithTx(tx)
		for _, e := range g.AppliedExercises() {
			if _, err := exercises.Save(ctx, e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to save exercise group",
			slog.String("error", err.Error()),
			slog.String("exercise_group_id", g.ID()))
		return nil, err
	}

	log.Debug("exercise group saved",
		slog.String("exercise_group_id", g.ID()),
		slog.Int("exercises", g.ExerciseCount()))
	return g, nil
}

// FindByID implements store.ExerciseGroupStore.
func (r *ExerciseGroupRepository) FindByID(ctx context.Context, id string) (*domain.ExerciseGroup, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)
	log.Debug("retrieving exercise group", slog.String("exercise_group_id", id))

	row, err := scanGroupRow(r.db.QueryRowContext(ctx,
		`SELECT `+exerciseGroupColumns+` FROM exercise_groups WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("exercise group not found", slog.String("exercise_group_id", id))
			return nil, store.ErrExerciseGroupNotFound
		}
		log.Error("failed to retrieve exercise group",
			slog.String("error", err.Error()),
			slog.String("exercise_group_id", id))
		return nil, storeError("exercise group", "find", id, err)
	}

	groups, err := r.assemble(ctx, []groupRow{row})
	if err != nil {
		return nil, err
	}
	return groups[0], nil
}

// FindByIDs implements store.ExerciseGroupStore.
func (r *ExerciseGroupRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.ExerciseGroup, error) {
	if len(ids) == 0 {
		return []*domain.ExerciseGroup{}, nil
	}
	log := logger.FromContextOrDefault(ctx, r.logger)

	unique := uniqueIDs(ids)
	rows, err := queryAll(ctx, r.db, scanGroupRow,
		`SELECT `+exerciseGroupColumns+` FROM exercise_groups WHERE id IN (`+placeholders(len(unique))+`)`,
		anyIDs(unique)...)
	if err != nil {
		log.Error("failed to retrieve exercise groups",
			slog.String("error", err.Error()),
			slog.Int("requested", len(unique)))
		return nil, storeError("exercise group", "find", "batch", err)
	}

	groups, err := r.assemble(ctx, rows)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.ExerciseGroup, len(groups))
	for _, g := range groups {
		byID[g.ID()] = g
	}
	return inOrder(ids, byID), nil
}

// FindAll implements store.ExerciseGroupStore.
func (r *ExerciseGroupRepository) FindAll(ctx context.Context, profileID string) ([]*domain.ExerciseGroup, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	rows, err := queryAll(ctx, r.db, scanGroupRow,
		`SELECT `+exerciseGroupColumns+` FROM exercise_groups
		WHERE profile_id = $1 ORDER BY created_at, id`, profileID)
	if err != nil {
		log.Error("failed to list exercise groups",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID))
		return nil, storeError("exercise group", "list", profileID, err)
	}
	return r.assemble(ctx, rows)
}

// Delete implements store.ExerciseGroupStore.
func (r *ExerciseGroupRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, r.logger)

	err := store.WithinTransaction(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		exerciseIDs, err := storedChildIDs(ctx, tx,
			`SELECT applied_exercise_ids FROM exercise_groups WHERE id = $1`, id)
		if err != nil {
			return storeError("exercise group", "delete", id, err)
		}

		exercises := r.exercises.WithTx(tx)
		for _, exerciseID := range exerciseIDs {
			if err := exercises.Delete(ctx, exerciseID); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM exercise_groups WHERE id = $1`, id); err != nil {
			return storeError("exercise group", "delete", id, err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to delete exercise group",
			slog.String("error", err.Error()),
			slog.String("exercise_group_id", id))
		return err
	}

	log.Debug("exercise group deleted", slog.String("exercise_group_id", id))
	return nil
}

// assemble fetches the exercises of every row in one batched call and
// hydrates the groups in row order.
func (r *ExerciseGroupRepository) assemble(ctx context.Context, rows []groupRow) ([]*domain.ExerciseGroup, error) {
	var childIDs []string
	for _, row := range rows {
		childIDs = append(childIDs, row.exerciseIDs...)
	}
	exercises, err := r.exercises.FindByIDs(ctx, uniqueIDs(childIDs))
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.AppliedExercise, len(exercises))
	for _, e := range exercises {
		byID[e.ID()] = e
	}

	groups := make([]*domain.ExerciseGroup, 0, len(rows))
	for _, row := range rows {
		data := row.data
		for _, e := range inOrder(row.exerciseIDs, byID) {
			data.AppliedExercises = append(data.AppliedExercises, e.ToData())
		}
		g, err := domain.HydrateExerciseGroup(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func scanGroupRow(row scanner) (groupRow, error) {
	var (
		out       groupRow
		groupType string
		ids       string
		rounds    sql.NullString
		duration  sql.NullInt64
		rest      sql.NullInt64
		created   int64
		updated   int64
	)
	if err := row.Scan(
		&out.data.ID,
		&out.data.ProfileID,
		&groupType,
		&ids,
		&rounds,
		&duration,
		&rest,
		&created,
		&updated,
	); err != nil {
		return groupRow{}, err
	}

	exerciseIDs, err := decodeIDs(ids)
	if err != nil {
		return groupRow{}, err
	}
	if rounds.Valid {
		if err := json.Unmarshal([]byte(rounds.String), &out.data.Rounds); err != nil {
			return groupRow{}, fmt.Errorf("%w: exercise group %s rounds: %v",
				store.ErrInvalidEntity, out.data.ID, err)
		}
	}
	out.exerciseIDs = exerciseIDs
	out.data.Type = domain.GroupType(groupType)
	out.data.AppliedExercises = []domain.AppliedExerciseData{}
	out.data.DurationMinutes = intPtr(duration)
	out.data.RestTimeSeconds = intPtr(rest)
	out.data.CreatedAt = fromMillis(created)
	out.data.UpdatedAt = fromMillis(updated)
	return out, nil
}
