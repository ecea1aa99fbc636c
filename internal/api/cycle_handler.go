package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/liftplan/internal/api/shared"
	"github.com/phrazzld/liftplan/internal/domain"
	"github.com/phrazzld/liftplan/internal/platform/logger"
	"github.com/phrazzld/liftplan/internal/service"
)

const cycleResource = "Training cycle"

// CycleHandler handles training cycle HTTP requests.
type CycleHandler struct {
	cycles service.CycleService
	logger *slog.Logger
}

// NewCycleHandler creates a new CycleHandler.
func NewCycleHandler(cycles service.CycleService, logger *slog.Logger) *CycleHandler {
	if cycles == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cycle service cannot be nil for CycleHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CycleHandler")
	}
	return &CycleHandler{
		cycles: cycles,
		logger: logger.With(slog.String("component", "cycle_handler")),
	}
}

// CreateCycle handles POST /cycles.
func (h *CycleHandler) CreateCycle(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	profileID, ok := profileIDFromRequest(w, r, log)
	if !ok {
		return
	}

	var data domain.TrainingCycleData
	if !decodeBody(w, r, &data, log) {
		return
	}

	cycle, err := h.cycles.CreateCycle(r.Context(), profileID, data)
	if err != nil {
		HandleAPIError(w, r, err, cycleResource, "Failed to create training cycle")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, cycle.ToData())
}

// ListCycles handles GET /cycles.
func (h *CycleHandler) ListCycles(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	profileID, ok := profileIDFromRequest(w, r, log)
	if !ok {
		return
	}

	cycles, err := h.cycles.ListCycles(r.Context(), profileID)
	if err != nil {
		HandleAPIError(w, r, err, cycleResource, "Failed to list training cycles")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CycleListResponse{Cycles: cyclesToData(cycles)})
}

// GetCycle handles GET /cycles/{id}.
func (h *CycleHandler) GetCycle(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	profileID, cycleID, ok := h.target(w, r, log)
	if !ok {
		return
	}

	cycle, err := h.cycles.GetCycle(r.Context(), profileID, cycleID)
	if err != nil {
		HandleAPIError(w, r, err, cycleResource, "Failed to get training cycle")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cycle.ToData())
}

// UpdateCycle handles PUT /cycles/{id}.
func (h *CycleHandler) UpdateCycle(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	profileID, cycleID, ok := h.target(w, r, log)
	if !ok {
		return
	}

	var data domain.TrainingCycleData
	if !decodeBody(w, r, &data, log) {
		return
	}

	cycle, err := h.cycles.UpdateCycle(r.Context(), profileID, cycleID, data)
	if err != nil {
		HandleAPIError(w, r, err, cycleResource, "Failed to update training cycle")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cycle.ToData())
}

// DeleteCycle handles DELETE /cycles/{id}. Plans in the cycle are kept and
// detached.
func (h *CycleHandler) DeleteCycle(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	profileID, cycleID, ok := h.target(w, r, log)
	if !ok {
		return
	}

	if err := h.cycles.DeleteCycle(r.Context(), profileID, cycleID); err != nil {
		HandleAPIError(w, r, err, cycleResource, "Failed to delete training cycle")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CycleSummary handles GET /cycles/{id}/summary.
func (h *CycleHandler) CycleSummary(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	profileID, cycleID, ok := h.target(w, r, log)
	if !ok {
		return
	}

	summary, err := h.cycles.CycleSummary(r.Context(), profileID, cycleID)
	if err != nil {
		HandleAPIError(w, r, err, cycleResource, "Failed to summarize training cycle")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, summaryToResponse(summary))
}

func (h *CycleHandler) target(w http.ResponseWriter, r *http.Request, log *slog.Logger) (string, string, bool) {
	profileID, ok := profileIDFromRequest(w, r, log)
	if !ok {
		return "", "", false
	}
	cycleID, ok := pathParam(w, r, "id", log)
	if !ok {
		return "", "", false
	}
	return profileID, cycleID, true
}
