package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fieldserve/appointments/internal/api/response"
	"github.com/fieldserve/appointments/internal/config"
	"github.com/fieldserve/appointments/internal/security"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// AuthHandler issues dashboard tokens against the shared technician password.
type AuthHandler struct {
	cfg    config.DashboardConfig
	tokens *security.TokenManager
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg config.DashboardConfig, tokens *security.TokenManager) *AuthHandler {
	return &AuthHandler{cfg: cfg, tokens: tokens}
}

// Login exchanges the technician password for a bearer token. When no
// password is configured the dashboard is disabled outright.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.cfg.Configured() {
		response.ServiceUnavailable(w, "dashboard login is not configured")
		return
	}

	var input struct {
		Password string `json:"password" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	if !security.CheckDashboardPassword(input.Password, h.cfg.Password, h.cfg.PasswordHash) {
		response.Unauthorized(w, "incorrect password")
		return
	}

	token, expiresAt, err := h.tokens.GenerateToken()
	if err != nil {
		response.InternalError(w, "could not issue token")
		return
	}

	response.OK(w, map[string]any{
		"token":      token,
		"expires_at": expiresAt,
	})
}
