package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/phrazzld/liftplan/internal/config"
	"github.com/phrazzld/liftplan/internal/platform/logger"
	"github.com/phrazzld/liftplan/internal/platform/sqlstore"
	"github.com/stretchr/testify/require"
)

// EnvTestDatabaseURL names the PostgreSQL server used by integration tests.
// Tests that need it are skipped when it is unset.
const EnvTestDatabaseURL = "LIFTPLAN_TEST_DATABASE_URL"

// NewPostgresDB opens a connection pool confined to a fresh schema on the
// server named by LIFTPLAN_TEST_DATABASE_URL and applies every migration.
// The schema is dropped when the test ends.
func NewPostgresDB(t *testing.T) *sql.DB {
	t.Helper()

	baseURL := os.Getenv(EnvTestDatabaseURL)
	if baseURL == "" {
		t.Skipf("%s not set; skipping PostgreSQL test", EnvTestDatabaseURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	log, _ := logger.NewTestLogger(t)
	admin, err := sqlstore.Open(ctx, config.DatabaseConfig{Driver: sqlstore.DriverPostgres, URL: baseURL}, log)
	require.NoError(t, err, "failed to open admin connection")

	schema := "test_" + strings.ToLower(ulid.Make().String())
	_, err = admin.ExecContext(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err, "failed to create schema")
	t.Cleanup(func() {
		if _, err := admin.Exec("DROP SCHEMA " + schema + " CASCADE"); err != nil {
			t.Logf("failed to drop schema %s: %v", schema, err)
		}
		_ = admin.Close()
	})

	schemaURL, err := withSearchPath(baseURL, schema)
	require.NoError(t, err)

	cfg := config.DatabaseConfig{Driver: sqlstore.DriverPostgres, URL: schemaURL, MaxOpenConns: 4}
	db, err := sqlstore.Open(ctx, cfg, log)
	require.NoError(t, err, "failed to open schema connection")
	t.Cleanup(func() { _ = db.Close() })

	err = sqlstore.Migrate(ctx, db, cfg.Driver, "up", log)
	require.NoError(t, err, "failed to migrate test schema")
	return db
}

// withSearchPath pins every connection of the pool to schema. pgx sends
// unrecognized URL parameters as run-time parameters.
func withSearchPath(rawURL, schema string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid %s: %w", EnvTestDatabaseURL, err)
	}
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
