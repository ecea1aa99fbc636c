package testutils

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/liftplan/internal/config"
	"github.com/phrazzld/liftplan/internal/platform/logger"
	"github.com/phrazzld/liftplan/internal/platform/sqlstore"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds database setup in tests.
const TestTimeout = 10 * time.Second

// NewSQLiteDB opens a fresh SQLite database file in a temporary directory and
// applies every migration. The database is closed when the test ends.
func NewSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	log, _ := logger.NewTestLogger(t)
	cfg := config.DatabaseConfig{
		Driver: sqlstore.DriverSQLite,
		URL:    filepath.Join(t.TempDir(), "liftplan.db"),
	}

	db, err := sqlstore.Open(ctx, cfg, log)
	require.NoError(t, err, "failed to open sqlite database")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	err = sqlstore.Migrate(ctx, db, cfg.Driver, "up", log)
	require.NoError(t, err, "failed to migrate test database")
	return db
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var n int
	err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n)
	require.NoError(t, err, "failed to count rows in %s", table)
	return n
}

// TotalRows sums the rows of every aggregate table.
func TotalRows(t *testing.T, db *sql.DB) int {
	t.Helper()

	total := 0
	for _, table := range []string{
		"training_cycles",
		"training_plans",
		"sessions",
		"exercise_groups",
		"applied_exercises",
	} {
		total += CountRows(t, db, table)
	}
	return total
}

// WithTx runs fn inside a transaction that is rolled back afterwards.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "failed to begin transaction")

	defer func() {
		err := tx.Rollback()
		if err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}
