package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fieldserve/appointments/internal/api/handler"
	"github.com/fieldserve/appointments/internal/api/middleware"
	"github.com/fieldserve/appointments/internal/config"
	"github.com/fieldserve/appointments/internal/domain"
	"github.com/fieldserve/appointments/internal/llm"
	"github.com/fieldserve/appointments/internal/security"
	"github.com/fieldserve/appointments/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory appointment table for handler tests.
type fakeRepo struct {
	rows []domain.Appointment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: []domain.Appointment{
		{WorkOrder: "WO-001", CustomerName: "Alice Ng", CustomerEmail: "alice@example.com", AppointmentDate: "2026-02-14", AppointmentTime: "9:00 AM", Status: domain.StatusPending, TechID: "TECH-1"},
		{WorkOrder: "WO-002", CustomerName: "Bob Tan", CustomerEmail: "bob@example.com", AppointmentDate: "2026-02-15", AppointmentTime: "2:00 PM", Status: domain.StatusCompleted, TechID: "TECH-2"},
	}}
}

func (f *fakeRepo) ReadAll(ctx context.Context) ([]domain.Appointment, error) {
	return append([]domain.Appointment(nil), f.rows...), nil
}

func (f *fakeRepo) GetByWorkOrder(ctx context.Context, workOrder string) (*domain.Appointment, error) {
	for _, a := range f.rows {
		if a.WorkOrder == workOrder {
			row := a
			return &row, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRepo) UpdateSchedule(ctx context.Context, workOrder, date, timeOfDay string, status domain.Status) error {
	for i := range f.rows {
		if f.rows[i].WorkOrder == workOrder {
			f.rows[i].AppointmentDate = date
			f.rows[i].AppointmentTime = timeOfDay
			f.rows[i].Status = status
			return nil
		}
	}
	return domain.ErrNotFound
}

func makeJSONRequest(method, path string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()

	handler.HealthCheck(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "ok", body["data"].(map[string]any)["status"])
}

func TestAuthHandler_Login(t *testing.T) {
	tokens := security.NewTokenManager("test-secret", time.Hour)

	t.Run("not configured", func(t *testing.T) {
		h := handler.NewAuthHandler(config.DashboardConfig{}, tokens)
		rec := httptest.NewRecorder()

		h.Login(rec, makeJSONRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{"password": "anything"}))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	cfg := config.DashboardConfig{Password: "fieldpass"}

	t.Run("wrong password", func(t *testing.T) {
		h := handler.NewAuthHandler(cfg, tokens)
		rec := httptest.NewRecorder()

		h.Login(rec, makeJSONRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{"password": "nope"}))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing password", func(t *testing.T) {
		h := handler.NewAuthHandler(cfg, tokens)
		rec := httptest.NewRecorder()

		h.Login(rec, makeJSONRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("success issues token", func(t *testing.T) {
		h := handler.NewAuthHandler(cfg, tokens)
		rec := httptest.NewRecorder()

		h.Login(rec, makeJSONRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{"password": "fieldpass"}))

		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeBody(t, rec)["data"].(map[string]any)
		tokenString, ok := data["token"].(string)
		require.True(t, ok)

		_, err := tokens.ValidateToken(tokenString)
		assert.NoError(t, err)
	})
}

func newAppointmentRouter(repo *fakeRepo, llmRouter *llm.Router) chi.Router {
	dashboard := service.NewDashboardService(repo, nil)
	negotiation := service.NewNegotiationService(repo, llmRouter, true)
	h := handler.NewAppointmentHandler(repo, dashboard, negotiation)

	r := chi.NewRouter()
	r.Route("/appointments/{workOrder}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/confirm", h.Confirm)
		r.Post("/chat", h.StartChat)
	})
	return r
}

func TestAppointmentHandler_Get(t *testing.T) {
	r := newAppointmentRouter(newFakeRepo(), llm.NewRouter("gemini"))

	t.Run("found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/appointments/WO-001", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeBody(t, rec)["data"].(map[string]any)
		assert.Equal(t, "Alice Ng", data["customer_name"])
		assert.Equal(t, "Pending", data["status"])
	})

	t.Run("unknown work order", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/appointments/WO-404", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAppointmentHandler_Confirm(t *testing.T) {
	repo := newFakeRepo()
	r := newAppointmentRouter(repo, llm.NewRouter("gemini"))

	t.Run("pending confirms", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments/WO-001/confirm", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeBody(t, rec)["data"].(map[string]any)
		assert.Equal(t, "Confirmed", data["status"])
	})

	t.Run("completed rejects", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments/WO-002/confirm", nil))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestAppointmentHandler_StartChat_NoProvider(t *testing.T) {
	// No configured chat provider means the feature reports 503 up front.
	r := newAppointmentRouter(newFakeRepo(), llm.NewRouter("gemini"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments/WO-001/chat", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestChatHandler_SessionIDValidation(t *testing.T) {
	negotiation := service.NewNegotiationService(newFakeRepo(), llm.NewRouter("gemini"), true)
	h := handler.NewChatHandler(negotiation)

	r := chi.NewRouter()
	r.Route("/chat/{sessionID}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/confirm", h.Confirm)
	})

	t.Run("malformed session ID", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat/not-a-uuid", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat/6f1c63cf-98a4-4b60-9a05-6a8f3f9f3b42", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("confirm without pending directive", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat/6f1c63cf-98a4-4b60-9a05-6a8f3f9f3b42/confirm", nil))

		// Session does not exist, so not-found wins over no-pending.
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func newDashboardRouter(repo *fakeRepo) chi.Router {
	dashboard := service.NewDashboardService(repo, nil)
	h := handler.NewDashboardHandler(dashboard, llm.NewRouter("gemini"))

	r := chi.NewRouter()
	r.Get("/dashboard/appointments", h.List)
	r.Get("/dashboard/summary", h.Summary)
	r.Get("/dashboard/providers", h.Providers)
	r.Post("/dashboard/appointments/{workOrder}/complete", h.Complete)
	r.Post("/dashboard/appointments/{workOrder}/late-alert", h.LateAlert)
	return r
}

func TestDashboardHandler_List(t *testing.T) {
	r := newDashboardRouter(newFakeRepo())

	t.Run("unfiltered", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/appointments", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeBody(t, rec)["data"].(map[string]any)
		assert.Equal(t, float64(2), data["count"])
	})

	t.Run("filtered by status and search", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/appointments?status=Pending&q=alice", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeBody(t, rec)["data"].(map[string]any)
		assert.Equal(t, float64(1), data["count"])
	})

	t.Run("status excluding every row", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/appointments?status=Rescheduled", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeBody(t, rec)["data"].(map[string]any)
		assert.Equal(t, float64(0), data["count"])
	})
}

func TestDashboardHandler_Summary(t *testing.T) {
	r := newDashboardRouter(newFakeRepo())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/summary", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]any)
	assert.Equal(t, float64(2), data["total"])
	assert.Equal(t, float64(1), data["pending"])
	assert.Equal(t, float64(1), data["completed"])
}

func TestDashboardHandler_Complete(t *testing.T) {
	repo := newFakeRepo()
	r := newDashboardRouter(repo)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/dashboard/appointments/WO-001/complete", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	appt, err := repo.GetByWorkOrder(context.Background(), "WO-001")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, appt.Status)
	assert.Equal(t, "2026-02-14", appt.AppointmentDate)
}

func TestDashboardHandler_LateAlert_NoMailer(t *testing.T) {
	r := newDashboardRouter(newFakeRepo())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/dashboard/appointments/WO-001/late-alert", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAuthMiddleware(t *testing.T) {
	tokens := security.NewTokenManager("test-secret", time.Hour)
	mw := middleware.NewAuthMiddleware(tokens)

	protected := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/summary", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard/summary", nil)
		req.Header.Set("Authorization", "Basic abc123")
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token passes", func(t *testing.T) {
		token, _, err := tokens.GenerateToken()
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/dashboard/summary", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
