package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/liftplan/internal/config"
	"github.com/phrazzld/liftplan/internal/idgen"
	"github.com/phrazzld/liftplan/internal/platform/rediscache"
	"github.com/phrazzld/liftplan/internal/platform/sqlstore"
	"github.com/phrazzld/liftplan/internal/service"
	"github.com/phrazzld/liftplan/internal/service/auth"
	"github.com/redis/go-redis/v9"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config

	logger *slog.Logger
	db     *sql.DB
	redis  *redis.Client // nil when the plan cache is disabled

	tokens auth.TokenService
	plans  service.PlanService
	cycles service.CycleService
}

// newApplication creates a new application instance with all dependencies initialized.
// The database must already be open and migrated.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.tokens, err = auth.NewTokenService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	logger.Info("token service initialized", "token_lifetime", cfg.Auth.TokenLifetime.String())

	ids, err := idgen.New(cfg.IDs.Strategy)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize id generator: %w", err)
	}

	stores, err := app.buildStores(ctx)
	if err != nil {
		return nil, err
	}

	app.plans, err = service.NewPlanService(db, stores, ids, nil, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create plan service: %w", err)
	}
	app.cycles, err = service.NewCycleService(db, stores, ids, nil, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create cycle service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// buildStores wires the repositories, putting the redis plan cache in front
// of the plan repository when it is configured. The cycle repository detaches
// plans through the same store so cached plans are invalidated.
func (app *application) buildStores(ctx context.Context) (service.Stores, error) {
	repos := sqlstore.NewRepositories(app.db, app.logger)
	stores := service.Stores{
		Exercises: repos.Exercises,
		Groups:    repos.Groups,
		Sessions:  repos.Sessions,
		Plans:     repos.Plans,
		Cycles:    repos.Cycles,
	}
	if !app.config.Redis.Enabled() {
		app.logger.Info("plan cache disabled")
		return stores, nil
	}

	client, err := rediscache.NewClient(ctx, app.config.Redis)
	if err != nil {
		return service.Stores{}, fmt.Errorf("failed to initialize plan cache: %w", err)
	}
	app.redis = client

	cached := rediscache.NewTrainingPlanStore(
		repos.Plans,
		rediscache.NewCache(client, app.config.Redis.TTL),
		app.logger,
	)
	stores.Plans = cached
	stores.Cycles = sqlstore.NewTrainingCycleRepository(app.db, cached, app.logger)
	app.logger.Info("plan cache enabled",
		"addr", app.config.Redis.Addr,
		"ttl", app.config.Redis.TTL.String())
	return stores, nil
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
