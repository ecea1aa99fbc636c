package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/phrazzld/liftplan/internal/config"
	"github.com/phrazzld/liftplan/internal/redact"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Supported database/sql driver names.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// sqlitePragmas are appended to every SQLite DSN. The busy timeout lets a
// second connection wait for a writer instead of failing with SQLITE_BUSY.
const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// Open opens a connection pool for cfg and verifies it with a ping.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dsn, err := dataSourceName(cfg.Driver, cfg.URL)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns / 2)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %s", redact.Error(err))
	}

	logger.Info("database connection established",
		slog.String("driver", cfg.Driver),
		slog.String("url", redact.String(cfg.URL)))
	return db, nil
}

func dataSourceName(driver, url string) (string, error) {
	switch driver {
	case DriverPostgres:
		return url, nil
	case DriverSQLite:
		sep := "?"
		if strings.Contains(url, "?") {
			sep = "&"
		}
		return url + sep + sqlitePragmas, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Dialect returns the goose dialect for a driver name.
func Dialect(driver string) (string, error) {
	switch driver {
	case DriverPostgres:
		return "postgres", nil
	case DriverSQLite:
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}
