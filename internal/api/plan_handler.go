package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/liftplan/internal/api/shared"
	"github.com/phrazzld/liftplan/internal/domain"
	"github.com/phrazzld/liftplan/internal/domain/setconfig"
	"github.com/phrazzld/liftplan/internal/platform/logger"
	"github.com/phrazzld/liftplan/internal/service"
)

const planResource = "Training plan"

// PlanHandler handles training plan HTTP requests.
type PlanHandler struct {
	plans  service.PlanService
	logger *slog.Logger
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(plans service.PlanService, logger *slog.Logger) *PlanHandler {
	if plans == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("plan service cannot be nil for PlanHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for PlanHandler")
	}
	return &PlanHandler{
		plans:  plans,
		logger: logger.With(slog.String("component", "plan_handler")),
	}
}

// CreatePlan handles POST /plans.
func (h *PlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	profileID, ok := profileIDFromRequest(w, r, log)
	if !ok {
		return
	}

	var data domain.TrainingPlanData
	if !decodeBody(w, r, &data, log) {
		return
	}

	plan, err := h.plans.CreatePlan(r.Context(), profileID, data)
	if err != nil {
		HandleAPIError(w, r, err, planResource, "Failed to create training plan")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, plan.ToData())
}

// ListPlans handles GET /plans. ?archived=true includes archived plans.
func (h *PlanHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	profileID, ok := profileIDFromRequest(w, r, log)
	if !ok {
		return
	}

	includeArchived := false
	if raw := r.URL.Query().Get("archived"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid archived parameter")
			return
		}
		includeArchived = v
	}

	plans, err := h.plans.ListPlans(r.Context(), profileID, includeArchived)
	if err != nil {
		HandleAPIError(w, r, err, planResource, "Failed to list training plans")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, PlanListResponse{Plans: plansToData(plans)})
}

// GetPlan handles GET /plans/{id}.
func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	profileID, planID, ok := h.target(w, r, log)
	if !ok {
		return
	}

	plan, err := h.plans.GetPlan(r.Context(), profileID, planID)
	if err != nil {
		HandleAPIError(w, r, err, planResource, "Failed to get training plan")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, plan.ToData())
}

// UpdatePlan handles PUT /plans/{id}. The body replaces the whole tree.
func (h *PlanHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	profileID, planID, ok := h.target(w, r, log)
	if !ok {
		return
	}

	var data domain.TrainingPlanData
	if !decodeBody(w, r, &data, log) {
		return
	}

	plan, err := h.plans.UpdatePlan(r.Context(), profileID, planID, data)
	if err != nil {
		HandleAPIError(w, r, err, planResource, "Failed to update training plan")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, plan.ToData())
}

// DeletePlan handles DELETE /plans/{id}.
func (h *PlanHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	profileID, planID, ok := h.target(w, r, log)
	if !ok {
		return
	}

	if err := h.plans.DeletePlan(r.Context(), profileID, planID); err != nil {
		HandleAPIError(w, r, err, planResource, "Failed to delete training plan")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ArchivePlan handles POST /plans/{id}/archive.
func (h *PlanHandler) ArchivePlan(w http.ResponseWriter, r *http.Request) {
	h.change(w, r, "Failed to archive training plan", h.plans.ArchivePlan)
}

// RestorePlan handles POST /plans/{id}/restore.
func (h *PlanHandler) RestorePlan(w http.ResponseWriter, r *http.Request) {
	h.change(w, r, "Failed to restore training plan", h.plans.RestorePlan)
}

// AdvancePlan handles POST /plans/{id}/advance.
func (h *PlanHandler) AdvancePlan(w http.ResponseWriter, r *http.Request) {
	h.change(w, r, "Failed to advance training plan", h.plans.AdvancePlan)
}

// AssignCycle handles PUT /plans/{id}/cycle.
func (h *PlanHandler) AssignCycle(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	profileID, planID, ok := h.target(w, r, log)
	if !ok {
		return
	}

	var req AssignCycleRequest
	if !decodeRequest(w, r, &req, log) {
		return
	}

	plan, err := h.plans.AssignCycle(r.Context(), profileID, planID, req.CycleID)
	if err != nil {
		HandleAPIError(w, r, err, planResource, "Failed to assign training cycle")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, plan.ToData())
}

// StartSession handles POST /plans/{id}/start and
// POST /plans/{id}/sessions/{sessionID}/start. Without a session id the
// plan's current session is used; ?counter= selects the set unit.
func (h *PlanHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	profileID, planID, ok := h.target(w, r, log)
	if !ok {
		return
	}
	sessionID := chi.URLParam(r, "sessionID")
	counter := setconfig.CounterType(r.URL.Query().Get("counter"))

	sets, err := h.plans.StartSession(r.Context(), profileID, planID, sessionID, counter)
	if err != nil {
		HandleAPIError(w, r, err, planResource, "Failed to start session")
		return
	}

	log.Debug("session started",
		slog.String("plan_id", planID),
		slog.String("session_id", sessionID),
		slog.Int("set_count", len(sets)))
	shared.RespondWithJSON(w, r, http.StatusOK, StartSessionResponse{
		PlanID:    planID,
		SessionID: sessionID,
		Sets:      sets,
	})
}

type planChange func(ctx context.Context, profileID, planID string) (*domain.TrainingPlan, error)

func (h *PlanHandler) change(w http.ResponseWriter, r *http.Request, fallback string, fn planChange) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	profileID, planID, ok := h.target(w, r, log)
	if !ok {
		return
	}

	plan, err := fn(r.Context(), profileID, planID)
	if err != nil {
		HandleAPIError(w, r, err, planResource, fallback)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, plan.ToData())
}

func (h *PlanHandler) target(w http.ResponseWriter, r *http.Request, log *slog.Logger) (string, string, bool) {
	profileID, ok := profileIDFromRequest(w, r, log)
	if !ok {
		return "", "", false
	}
	planID, ok := pathParam(w, r, "id", log)
	if !ok {
		return "", "", false
	}
	return profileID, planID, true
}
