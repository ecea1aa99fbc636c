package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/liftplan/internal/api/shared"
	"github.com/phrazzld/liftplan/internal/domain"
	"github.com/phrazzld/liftplan/internal/service"
	"github.com/phrazzld/liftplan/internal/service/auth"
	"github.com/phrazzld/liftplan/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. A plan or cycle owned by another profile is
// reported exactly like a missing one.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingSubject):
		return http.StatusUnauthorized

	case store.IsNotFoundError(err),
		errors.Is(err, service.ErrNotOwned),
		errors.Is(err, domain.ErrNotInAggregate):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrIndexOutOfRange),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingSubject):
		return "Invalid token"

	case errors.Is(err, store.ErrTrainingPlanNotFound):
		return "Training plan not found"
	case errors.Is(err, store.ErrTrainingCycleNotFound):
		return "Training cycle not found"
	case errors.Is(err, store.ErrSessionNotFound),
		errors.Is(err, domain.ErrNotInAggregate):
		return "Session not found"
	case store.IsNotFoundError(err), errors.Is(err, service.ErrNotOwned):
		return "Resource not found"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"
	case errors.Is(err, domain.ErrIndexOutOfRange):
		return "Index out of range"

	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the error response for a failed service call.
// resource names what the route addresses ("Training plan") so that a
// foreign resource reads the same as a missing one; fallback replaces the
// generic message on internal errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, resource, fallback string) {
	var verr *service.ValidationFailedError
	if errors.As(err, &verr) {
		shared.RespondWithValidationError(w, r, "Invalid "+verr.Entity, verr.Issues)
		return
	}

	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	switch {
	case errors.Is(err, service.ErrNotOwned):
		message = resource + " not found"
	case status == http.StatusInternalServerError && fallback != "":
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
