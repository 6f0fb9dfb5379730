package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/deskview/deskview/internal/service/auth"
	"github.com/deskview/deskview/internal/usecase"
	"github.com/deskview/deskview/pkg/apperror"
)

// AdminHandler handles admin login and the JWT-protected dataset reload.
type AdminHandler struct {
	authService *auth.Service
	dashboard   *usecase.DashboardUseCase
}

// NewAdminHandler creates the handler.
func NewAdminHandler(authService *auth.Service, dashboard *usecase.DashboardUseCase) *AdminHandler {
	return &AdminHandler{authService: authService, dashboard: dashboard}
}

// RegisterRoutes registers auth and admin routes.
func (h *AdminHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/auth/login", h.Login).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/admin/reload", requireAdmin(h.authService, h.Reload)).Methods(http.MethodPost)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login verifies the admin credential and returns a bearer token.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeBadRequest(w, "username and password are required")
		return
	}

	token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, auth.ErrNotConfigured) {
			writeError(w, apperror.NewUnauthorized("invalid username or password"))
			return
		}
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Login successful", loginResponse{Token: token})
}

// Reload re-reads the ticket dataset from its source.
func (h *AdminHandler) Reload(w http.ResponseWriter, r *http.Request) {
	count, err := h.dashboard.Reload(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Dataset reloaded", map[string]int{"tickets": count})
}
