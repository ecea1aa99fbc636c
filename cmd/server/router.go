package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/liftplan/internal/api"
	apiMiddleware "github.com/phrazzld/liftplan/internal/api/middleware"
	"github.com/phrazzld/liftplan/internal/api/shared"
	"github.com/phrazzld/liftplan/internal/platform/logger"
)

// healthTimeout bounds the database ping behind /health.
const healthTimeout = 2 * time.Second

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.tokens)
	planHandler := api.NewPlanHandler(app.plans, app.logger)
	cycleHandler := api.NewCycleHandler(app.cycles, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		api.RegisterRoutes(r, planHandler, cycleHandler)
	})

	r.Get("/health", app.health)

	return r
}

// health reports whether the database answers a ping.
func (app *application) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := app.db.PingContext(ctx); err != nil {
		logger.FromContext(r.Context()).Error("health check failed", "error", err)
		shared.RespondWithJSON(w, r, http.StatusServiceUnavailable, api.HealthResponse{Status: "unavailable"})
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, api.HealthResponse{Status: "ok"})
}
