package handler

import (
	"errors"
	"net/http"

	"github.com/fieldserve/appointments/internal/api/response"
	"github.com/fieldserve/appointments/internal/domain"
)

// writeServiceError maps domain sentinel errors onto HTTP statuses. Anything
// unrecognized is a 500 with a generic message.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(w, "appointment not found")
	case errors.Is(err, domain.ErrSessionNotFound):
		response.NotFound(w, "session not found")
	case errors.Is(err, domain.ErrNoPendingDirective):
		response.Conflict(w, "no pending reschedule to confirm")
	case errors.Is(err, domain.ErrNotConfirmable):
		response.Conflict(w, "appointment cannot be confirmed in its current status")
	case errors.Is(err, domain.ErrFeatureDisabled):
		response.ServiceUnavailable(w, "feature is not configured")
	default:
		response.InternalError(w, "internal error")
	}
}
