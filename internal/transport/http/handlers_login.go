package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	dErrors "timeclock/pkg/domain-errors"
)

// LoginService defines the session operations the handler needs.
type LoginService interface {
	Authenticate(ctx context.Context, email, credential string) (string, error)
	Refresh(oldToken string) (string, error)
}

type LoginHandler struct {
	login LoginService
}

func NewLoginHandler(login LoginService) *LoginHandler {
	return &LoginHandler{login: login}
}

func (h *LoginHandler) Register(r chi.Router) {
	r.Post("/api/login", h.handleLogin)
	r.Post("/api/refresh", h.handleRefresh)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *LoginHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if !govalidator.IsEmail(req.Email) || req.Password == "" {
		writeError(w, dErrors.New(dErrors.CodeValidation, "email and password are required"))
		return
	}

	signed, err := h.login.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: signed})
}

// handleRefresh re-issues a token from the bearer token on the request. The
// old token's signature must verify; an elapsed expiry does not block the
// refresh, so it bypasses the auth middleware on purpose.
func (h *LoginHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	const bearerPrefix = "Bearer "
	old, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
	if !ok {
		writeError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
		return
	}

	signed, err := h.login.Refresh(old)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: signed})
}
