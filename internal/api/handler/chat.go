package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fieldserve/appointments/internal/api/response"
	"github.com/fieldserve/appointments/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ChatHandler serves the turns of an open reschedule negotiation.
type ChatHandler struct {
	negotiation *service.NegotiationService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(negotiation *service.NegotiationService) *ChatHandler {
	return &ChatHandler{negotiation: negotiation}
}

// Get returns the current session state
func (h *ChatHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	session, err := h.negotiation.GetSession(sessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, session)
}

// Message sends one customer message through the assistant. An assistant
// outage is reported in-band on the result, not as an HTTP error.
func (h *ChatHandler) Message(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	var input struct {
		Message string `json:"message" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	result, err := h.negotiation.Turn(r.Context(), sessionID, input.Message)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, result)
}

// Confirm commits the pending reschedule proposal
func (h *ChatHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	directive, err := h.negotiation.Confirm(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, directive)
}

// Reset clears the conversation for a fresh start
func (h *ChatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	if err := h.negotiation.Reset(r.Context(), sessionID); err != nil {
		writeServiceError(w, err)
		return
	}

	response.NoContent(w)
}

// End tears the session down
func (h *ChatHandler) End(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	if err := h.negotiation.End(sessionID); err != nil {
		writeServiceError(w, err)
		return
	}

	response.NoContent(w)
}

func sessionIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return uuid.Nil, false
	}
	return sessionID, true
}
