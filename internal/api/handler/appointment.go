package handler

import (
	"net/http"

	"github.com/fieldserve/appointments/internal/api/response"
	"github.com/fieldserve/appointments/internal/domain"
	"github.com/fieldserve/appointments/internal/service"
	"github.com/go-chi/chi/v5"
)

// AppointmentHandler serves the customer-facing appointment endpoints:
// lookup by work order, quick confirm, and opening a reschedule chat.
type AppointmentHandler struct {
	repo        domain.AppointmentRepository
	dashboard   *service.DashboardService
	negotiation *service.NegotiationService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(repo domain.AppointmentRepository, dashboard *service.DashboardService, negotiation *service.NegotiationService) *AppointmentHandler {
	return &AppointmentHandler{repo: repo, dashboard: dashboard, negotiation: negotiation}
}

// Get returns the appointment for a work order
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	workOrder := chi.URLParam(r, "workOrder")

	appt, err := h.repo.GetByWorkOrder(r.Context(), workOrder)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, appt)
}

// Confirm is the customer quick-confirm: the appointment keeps its slot and
// becomes Confirmed.
func (h *AppointmentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	workOrder := chi.URLParam(r, "workOrder")

	if err := h.dashboard.ConfirmAppointment(r.Context(), workOrder); err != nil {
		writeServiceError(w, err)
		return
	}

	appt, err := h.repo.GetByWorkOrder(r.Context(), workOrder)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, appt)
}

// StartChat opens a reschedule negotiation session for the work order
func (h *AppointmentHandler) StartChat(w http.ResponseWriter, r *http.Request) {
	workOrder := chi.URLParam(r, "workOrder")

	session, err := h.negotiation.Start(r.Context(), workOrder)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, session)
}
