package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/liftplan/internal/platform/logger"
)

// TxFn is the unit of work run by RunInTransaction. Returning nil commits.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction opens a transaction on db, runs fn on it and commits when
// fn returns nil. An error from fn rolls the transaction back and is returned
// as is; a panic in fn rolls back and is re-raised. Failures to begin or
// commit match both ErrTransactionFailed and the driver error.
func RunInTransaction(ctx context.Context, db TxBeginner, fn TxFn) error {
	log := logger.FromContext(ctx).With(slog.String("component", "transaction"))

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", slog.String("error", err.Error()))
		return fmt.Errorf("%w: failed to begin transaction: %w", ErrTransactionFailed, err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		p := recover()
		if p == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("failed to roll back transaction after panic",
				slog.String("error", rbErr.Error()),
				slog.Any("panic", p))
		} else {
			log.Error("rolled back transaction after panic", slog.Any("panic", p))
		}
		// ALLOW-PANIC: re-raise after the rollback
		panic(p)
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rbErr.Error()),
				slog.String("original_error", err.Error()))
			return fmt.Errorf("error rolling back transaction: %v (original error: %w)", rbErr, err)
		}
		log.Debug("transaction rolled back", slog.String("error", err.Error()))
		return err
	}

	committed = true
	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction", slog.String("error", err.Error()))
		return fmt.Errorf("%w: failed to commit transaction: %w", ErrTransactionFailed, err)
	}
	log.Debug("transaction committed")
	return nil
}

// WithinTransaction runs fn inside the transaction db is bound to. When db is
// already a *sql.Tx, fn runs on it directly and the caller that opened it
// decides the outcome; otherwise db must be able to begin a transaction and
// fn runs through RunInTransaction.
func WithinTransaction(ctx context.Context, db DBTX, fn TxFn) error {
	switch conn := db.(type) {
	case *sql.Tx:
		return fn(ctx, conn)
	case TxBeginner:
		return RunInTransaction(ctx, conn, fn)
	default:
		return fmt.Errorf("%w: %T cannot begin a transaction", ErrTransactionFailed, db)
	}
}
