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

const appliedExerciseColumns = `id, profile_id, exercise_id, template_id, set_configuration,
	rest_time_seconds, execution_count, created_at, updated_at`

// AppliedExerciseRepository implements store.AppliedExerciseStore.
type AppliedExerciseRepository struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewAppliedExerciseRepository creates a repository on db, which may be a
// pool or an open transaction. If logger is nil, slog.Default is used.
func NewAppliedExerciseRepository(db store.DBTX, logger *slog.Logger) *AppliedExerciseRepository {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AppliedExerciseRepository{
		db:     db,
		logger: logger.With(slog.String("component", "applied_exercise_repository")),
	}
}

var _ store.AppliedExerciseStore = (*AppliedExerciseRepository)(nil)

// WithTx implements store.AppliedExerciseStore.
func (r *AppliedExerciseRepository) WithTx(tx *sql.Tx) store.AppliedExerciseStore {
	return &AppliedExerciseRepository{db: tx, logger: r.logger}
}

// Save implements store.AppliedExerciseStore.
func (r *AppliedExerciseRepository) Save(
	ctx context.Context,
	e *domain.AppliedExercise,
) (*domain.AppliedExercise, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	cfg, err := json.Marshal(e.SetConfiguration().ToData())
	if err != nil {
		return nil, fmt.Errorf("failed to encode set configuration: %w", err)
	}

	err = store.WithinTransaction(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		err := upsert(ctx, tx,
			`UPDATE applied_exercises
			SET profile_id = $2, exercise_id = $3, template_id = $4, set_configuration = $5,
				rest_time_seconds = $6, execution_count = $7, created_at = $8, updated_at = $9
			WHERE id = $1`,
			`INSERT INTO applied_exercises (`+appliedExerciseColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			e.ID(),
			e.ProfileID(),
			e.ExerciseID(),
			nullString(e.TemplateID()),
			string(cfg),
			nullInt(e.RestTimeSeconds()),
			e.ExecutionCount(),
			toMillis(e.CreatedAt()),
			toMillis(e.UpdatedAt()),
		)
		if err != nil {
			return storeError("applied exercise", "save", e.ID(), err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to save applied exercise",
			slog.String("error", err.Error()),
			slog.String("applied_exercise_id", e.ID()))
		return nil, err
	}

	log.Debug("applied exercise saved", slog.String("applied_exercise_id", e.ID()))
	return e, nil
}

// FindByID implements store.AppliedExerciseStore.
func (r *AppliedExerciseRepository) FindByID(ctx context.Context, id string) (*domain.AppliedExercise, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)
	log.Debug("retrieving applied exercise", slog.String("applied_exercise_id", id))

	row := r.db.QueryRowContext(ctx,
		`SELECT `+appliedExerciseColumns+` FROM applied_exercises WHERE id = $1`, id)
	e, err := scanAppliedExercise(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("applied exercise not found", slog.String("applied_exercise_id", id))
			return nil, store.ErrAppliedExerciseNotFound
		}
		log.Error("failed to retrieve applied exercise",
			slog.String("error", err.Error()),
			slog.String("applied_exercise_id", id))
		return nil, storeError("applied exercise", "find", id, err)
	}
	return e, nil
}

// FindByIDs implements store.AppliedExerciseStore.
func (r *AppliedExerciseRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.AppliedExercise, error) {
	if len(ids) == 0 {
		return []*domain.AppliedExercise{}, nil
	}
	log := logger.FromContextOrDefault(ctx, r.logger)

	unique := uniqueIDs(ids)
	found, err := queryAll(ctx, r.db, scanAppliedExercise,
		`SELECT `+appliedExerciseColumns+` FROM applied_exercises WHERE id IN (`+placeholders(len(unique))+`)`,
		anyIDs(unique)...)
	if err != nil {
		log.Error("failed to retrieve applied exercises",
			slog.String("error", err.Error()),
			slog.Int("requested", len(unique)))
		return nil, storeError("applied exercise", "find", "batch", err)
	}

	byID := make(map[string]*domain.AppliedExercise, len(found))
	for _, e := range found {
		byID[e.ID()] = e
	}
	log.Debug("retrieved applied exercises",
		slog.Int("requested", len(unique)),
		slog.Int("found", len(found)))
	return inOrder(ids, byID), nil
}

// FindAll implements store.AppliedExerciseStore.
func (r *AppliedExerciseRepository) FindAll(ctx context.Context, profileID string) ([]*domain.AppliedExercise, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	found, err := queryAll(ctx, r.db, scanAppliedExercise,
		`SELECT `+appliedExerciseColumns+` FROM applied_exercises
		WHERE profile_id = $1 ORDER BY created_at, id`, profileID)
	if err != nil {
		log.Error("failed to list applied exercises",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID))
		return nil, storeError("applied exercise", "list", profileID, err)
	}
	if found == nil {
		found = []*domain.AppliedExercise{}
	}
	return found, nil
}

// Delete implements store.AppliedExerciseStore.
func (r *AppliedExerciseRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, r.logger)

	if _, err := r.db.ExecContext(ctx, `DELETE FROM applied_exercises WHERE id = $1`, id); err != nil {
		log.Error("failed to delete applied exercise",
			slog.String("error", err.Error()),
			slog.String("applied_exercise_id", id))
		return storeError("applied exercise", "delete", id, err)
	}

	log.Debug("applied exercise deleted", slog.String("applied_exercise_id", id))
	return nil
}

func scanAppliedExercise(row scanner) (*domain.AppliedExercise, error) {
	var (
		d          domain.AppliedExerciseData
		templateID sql.NullString
		cfg        string
		rest       sql.NullInt64
		created    int64
		updated    int64
	)
	if err := row.Scan(
		&d.ID,
		&d.ProfileID,
		&d.ExerciseID,
		&templateID,
		&cfg,
		&rest,
		&d.ExecutionCount,
		&created,
		&updated,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(cfg), &d.SetConfiguration); err != nil {
		return nil, fmt.Errorf("%w: applied exercise %s: %v", store.ErrInvalidEntity, d.ID, err)
	}
	d.TemplateID = stringPtr[string](templateID)
	d.RestTimeSeconds = intPtr(rest)
	d.CreatedAt = fromMillis(created)
	d.UpdatedAt = fromMillis(updated)

	e, err := domain.HydrateAppliedExercise(d)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	return e, nil
}
