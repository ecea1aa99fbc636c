// Package main implements the entry point for the liftplan API server, which
// stores and serves training plans and training cycles.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/liftplan/internal/config"
	"github.com/phrazzld/liftplan/internal/platform/logger"
	"github.com/phrazzld/liftplan/internal/platform/sqlstore"
	"github.com/phrazzld/liftplan/internal/service/auth"
)

// options are the command line flags.
type options struct {
	configPath string
	migrate    string
	issueToken string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to a YAML config file (overrides LIFTPLAN_CONFIG)")
	flag.StringVar(&opts.migrate, "migrate", "", "run a migration command (up, down, reset, status, version) and exit")
	flag.StringVar(&opts.issueToken, "issue-token", "", "print a bearer token for the given profile id and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		log.Fatalf("liftplan: %v", err)
	}
}

// run loads configuration and performs the action the flags select: issue a
// token, run a migration command, or serve HTTP until ctx is canceled.
func run(ctx context.Context, opts options, out io.Writer) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	l.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver,
		"id_strategy", cfg.IDs.Strategy,
		"redis_enabled", cfg.Redis.Enabled())

	if opts.issueToken != "" {
		return issueToken(ctx, cfg.Auth, opts.issueToken, out)
	}

	db, err := sqlstore.Open(ctx, cfg.Database, l)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if opts.migrate != "" {
		defer func() { _ = db.Close() }()
		return sqlstore.Migrate(ctx, db, cfg.Database.Driver, opts.migrate, l)
	}

	app, err := newApplication(ctx, cfg, l, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// issueToken writes a signed bearer token for profileID to out. There is no
// login endpoint; operators mint tokens with this.
func issueToken(ctx context.Context, cfg config.AuthConfig, profileID string, out io.Writer) error {
	tokens, err := auth.NewTokenService(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}
	token, err := tokens.GenerateToken(ctx, profileID)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
