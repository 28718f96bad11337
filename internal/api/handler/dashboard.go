package handler

import (
	"net/http"

	"github.com/fieldserve/appointments/internal/api/response"
	"github.com/fieldserve/appointments/internal/domain"
	"github.com/fieldserve/appointments/internal/llm"
	"github.com/fieldserve/appointments/internal/service"
	"github.com/go-chi/chi/v5"
)

// DashboardHandler serves the technician dashboard endpoints.
type DashboardHandler struct {
	dashboard *service.DashboardService
	llmRouter *llm.Router
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboard *service.DashboardService, llmRouter *llm.Router) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, llmRouter: llmRouter}
}

// List returns the appointment table, filtered by the query parameters.
// status and tech repeat for multi-select; q searches work order and
// customer name case-insensitively.
func (h *DashboardHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var statuses []domain.Status
	for _, s := range query["status"] {
		statuses = append(statuses, domain.Status(s))
	}

	appts, err := h.dashboard.List(r.Context(), statuses, query["tech"], query.Get("q"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"appointments": appts,
		"count":        len(appts),
	})
}

// Summary returns the headline metrics
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.dashboard.Summarize(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, sum)
}

// Providers returns the configured chat assistant backends
func (h *DashboardHandler) Providers(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]any{
		"providers":        h.llmRouter.GetProvidersInfo(),
		"default_provider": h.llmRouter.DefaultProvider(),
	})
}

// Complete marks an appointment as done
func (h *DashboardHandler) Complete(w http.ResponseWriter, r *http.Request) {
	workOrder := chi.URLParam(r, "workOrder")

	if err := h.dashboard.MarkComplete(r.Context(), workOrder); err != nil {
		writeServiceError(w, err)
		return
	}

	response.NoContent(w)
}

// LateAlert emails the customer that the technician is running behind
func (h *DashboardHandler) LateAlert(w http.ResponseWriter, r *http.Request) {
	workOrder := chi.URLParam(r, "workOrder")

	if err := h.dashboard.SendLateAlert(r.Context(), workOrder); err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, map[string]string{
		"message": "late alert sent",
	})
}
