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

const sessionColumns = `id, profile_id, name, group_ids, notes, execution_count,
	is_deload, day_of_week, created_at, updated_at`

// SessionRepository implements store.SessionStore on top of an
// ExerciseGroupStore.
type SessionRepository struct {
	db     store.DBTX
	groups store.ExerciseGroupStore
	logger *slog.Logger
}

// NewSessionRepository creates a repository on db that cascades to groups.
func NewSessionRepository(db store.DBTX, groups store.ExerciseGroupStore, logger *slog.Logger) *SessionRepository {
	if db == nil {
		panic("db cannot be nil")
	}
	if groups == nil {
		panic("groups cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionRepository{
		db:     db,
		groups: groups,
		logger: logger.With(slog.String("component", "session_repository")),
	}
}

var _ store.SessionStore = (*SessionRepository)(nil)

// WithTx implements store.SessionStore.
func (r *SessionRepository) WithTx(tx *sql.Tx) store.SessionStore {
	return &SessionRepository{
		db:     tx,
		groups: r.groups.WithTx(tx),
		logger: r.logger,
	}
}

type sessionRow struct {
	data     domain.SessionData
	groupIDs []string
}

// Save implements store.SessionStore.
func (r *SessionRepository) Save(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	groupIDs, err := encodeIDs(s.GroupIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to encode group ids: %w", err)
	}

	err = store.WithinTransaction(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		err := upsert(ctx, tx,
			`UPDATE sessions
			SET profile_id = $2, name = $3, group_ids = $4, notes = $5, execution_count = $6,
				is_deload = $7, day_of_week = $8, created_at = $9, updated_at = $10
			WHERE id = $1`,
			`INSERT INTO sessions (`+sessionColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			s.ID(),
			s.ProfileID(),
			s.Name(),
			groupIDs,
			nullString(s.Notes()),
			s.ExecutionCount(),
			s.IsDeload(),
			nullString(s.DayOfWeek()),
			toMillis(s.CreatedAt()),
			toMillis(s.UpdatedAt()),
		)
		if err != nil {
			return storeError("session", "save", s.ID(), err)
		}

		groups := r.groups.WithTx(tx)
		for _, g := range s.Groups() {
			if _, err := groups.Save(ctx, g); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to save session",
			slog.String("error", err.Error()),
			slog.String("session_id", s.ID()))
		return nil, err
	}

	log.Debug("session saved",
		slog.String("session_id", s.ID()),
		slog.Int("groups", len(s.Groups())))
	return s, nil
}

// FindByID implements store.SessionStore.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)
	log.Debug("retrieving session", slog.String("session_id", id))

	row, err := scanSessionRow(r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("session not found", slog.String("session_id", id))
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to retrieve session",
			slog.String("error", err.Error()),
			slog.String("session_id", id))
		return nil, storeError("session", "find", id, err)
	}

	sessions, err := r.assemble(ctx, []sessionRow{row})
	if err != nil {
		return nil, err
	}
	return sessions[0], nil
}

// FindByIDs implements store.SessionStore.
func (r *SessionRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Session, error) {
	if len(ids) == 0 {
		return []*domain.Session{}, nil
	}
	log := logger.FromContextOrDefault(ctx, r.logger)

	unique := uniqueIDs(ids)
	rows, err := queryAll(ctx, r.db, scanSessionRow,
		`SELECT `+sessionColumns+` FROM sessions WHERE id IN (`+placeholders(len(unique))+`)`,
		anyIDs(unique)...)
	if err != nil {
		log.Error("failed to retrieve sessions",
			slog.String("error", err.Error()),
			slog.Int("requested", len(unique)))
		return nil, storeError("session", "find", "batch", err)
	}

	sessions, err := r.assemble(ctx, rows)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Session, len(sessions))
	for _, s := range sessions {
		byID[s.ID()] = s
	}
	return inOrder(ids, byID), nil
}

// FindAll implements store.SessionStore.
func (r *SessionRepository) FindAll(ctx context.Context, profileID string) ([]*domain.Session, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	rows, err := queryAll(ctx, r.db, scanSessionRow,
		`SELECT `+sessionColumns+` FROM sessions
		WHERE profile_id = $1 ORDER BY created_at, id`, profileID)
	if err != nil {
		log.Error("failed to list sessions",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID))
		return nil, storeError("session", "list", profileID, err)
	}
	return r.assemble(ctx, rows)
}

// Delete implements store.SessionStore.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, r.logger)

	err := store.WithinTransaction(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		groupIDs, err := storedChildIDs(ctx, tx, `SELECT group_ids FROM sessions WHERE id = $1`, id)
		if err != nil {
			return storeError("session", "delete", id, err)
		}

		groups := r.groups.WithTx(tx)
		for _, groupID := range groupIDs {
			if err := groups.Delete(ctx, groupID); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
			return storeError("session", "delete", id, err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to delete session",
			slog.String("error", err.Error()),
			slog.String("session_id", id))
		return err
	}

	log.Debug("session deleted", slog.String("session_id", id))
	return nil
}

func (r *SessionRepository) assemble(ctx context.Context, rows []sessionRow) ([]*domain.Session, error) {
	var childIDs []string
	for _, row := range rows {
		childIDs = append(childIDs, row.groupIDs...)
	}
	groups, err := r.groups.FindByIDs(ctx, uniqueIDs(childIDs))
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.ExerciseGroup, len(groups))
	for _, g := range groups {
		byID[g.ID()] = g
	}

	sessions := make([]*domain.Session, 0, len(rows))
	for _, row := range rows {
		data := row.data
		for _, g := range inOrder(row.groupIDs, byID) {
			data.Groups = append(data.Groups, g.ToData())
		}
		s, err := domain.HydrateSession(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func scanSessionRow(row scanner) (sessionRow, error) {
	var (
		out     sessionRow
		ids     string
		notes   sql.NullString
		day     sql.NullString
		created int64
		updated int64
	)
	if err := row.Scan(
		&out.data.ID,
		&out.data.ProfileID,
		&out.data.Name,
		&ids,
		&notes,
		&out.data.ExecutionCount,
		&out.data.IsDeload,
		&day,
		&created,
		&updated,
	); err != nil {
		return sessionRow{}, err
	}

	groupIDs, err := decodeIDs(ids)
	if err != nil {
		return sessionRow{}, err
	}
	out.groupIDs = groupIDs
	out.data.Groups = []domain.ExerciseGroupData{}
	out.data.Notes = stringPtr[string](notes)
	out.data.DayOfWeek = stringPtr[domain.DayOfWeek](day)
	out.data.CreatedAt = fromMillis(created)
	out.data.UpdatedAt = fromMillis(updated)
	return out, nil
}
