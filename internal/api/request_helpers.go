package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/liftplan/internal/api/shared"
)

// profileIDFromRequest returns the profile placed in the context by the
// auth middleware, writing a 401 when it is absent.
func profileIDFromRequest(w http.ResponseWriter, r *http.Request, log *slog.Logger) (string, bool) {
	profileID, ok := shared.ProfileID(r.Context())
	if !ok {
		log.Warn("profile id not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Profile not found in request")
		return "", false
	}
	return profileID, true
}

// pathParam extracts a required chi path parameter, writing a 400 when it
// is empty.
func pathParam(w http.ResponseWriter, r *http.Request, name string, log *slog.Logger) (string, bool) {
	value := chi.URLParam(r, name)
	if value == "" {
		log.Warn("missing path parameter", slog.String("param_name", name))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing path parameter "+name)
		return "", false
	}
	return value, true
}

// decodeRequest reads and validates a JSON body into dst. It writes the
// error response itself and reports whether the handler may continue.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst interface{}, log *slog.Logger) bool {
	if !decodeBody(w, r, dst, log) {
		return false
	}
	if err := shared.ValidateRequest(dst); err != nil {
		shared.RespondWithValidationError(w, r, "Invalid request", shared.RequestIssues(err))
		return false
	}
	return true
}

// decodeBody reads a JSON body into dst without struct validation. Plan and
// cycle documents arrive without ids and are validated by the services once
// the ids are assigned.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}, log *slog.Logger) bool {
	if err := shared.DecodeJSON(r, dst); err != nil {
		log.Debug("failed to decode request body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}
	return true
}
