package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskview/deskview/internal/logger"
	"github.com/deskview/deskview/internal/query"
	"github.com/deskview/deskview/internal/service/auth"
	"github.com/deskview/deskview/internal/usecase"
)

func newAdminRouter(t *testing.T) (*mux.Router, *auth.Service) {
	t.Helper()

	hash, err := auth.HashPassword("operations")
	require.NoError(t, err)
	svc := auth.NewService(auth.Config{
		Username:     "admin",
		PasswordHash: hash,
		JWTSecret:    "test-secret",
		TokenTTL:     time.Hour,
	})

	src := &stubSource{}
	uc := usecase.NewDashboardUseCase(src, query.NewEngine(nil), logger.Nop())
	require.NoError(t, uc.Load(context.Background()))

	router := mux.NewRouter()
	NewAdminHandler(svc, uc).RegisterRoutes(router)
	return router, svc
}

func TestLogin(t *testing.T) {
	router, _ := newAdminRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"username":"admin","password":"operations"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	data, _ := json.Marshal(env.Data)
	var resp loginResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.NotEmpty(t, resp.Token)
}

func TestLoginRejected(t *testing.T) {
	router, _ := newAdminRouter(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"wrong password", `{"username":"admin","password":"nope"}`, http.StatusUnauthorized},
		{"missing fields", `{"username":"admin"}`, http.StatusBadRequest},
		{"broken body", `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestReloadRequiresToken(t *testing.T) {
	router, svc := newAdminRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/reload", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/reload", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := svc.Login("admin", "operations")
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/reload", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
