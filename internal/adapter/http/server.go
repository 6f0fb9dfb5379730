// Package http is the presentation-layer host: it serves the query
// engine's outputs as JSON and owns the session view state.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/deskview/deskview/internal/logger"
	"github.com/deskview/deskview/internal/service/auth"
	"github.com/deskview/deskview/internal/service/ratelimit"
	"github.com/deskview/deskview/internal/usecase"
)

// ServerConfig holds the listener settings.
type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string
}

// Server is the dashboard HTTP server.
type Server struct {
	server *http.Server
	log    logger.Logger
}

// NewServer assembles the router, handlers and middleware chain.
func NewServer(
	cfg ServerConfig,
	dashboard *usecase.DashboardUseCase,
	authService *auth.Service,
	limiter ratelimit.Limiter,
	log logger.Logger,
) *Server {
	router := mux.NewRouter()

	NewDashboardHandler(dashboard).RegisterRoutes(router)
	NewSessionHandler(NewSessionStore()).RegisterRoutes(router)
	NewAdminHandler(authService, dashboard).RegisterRoutes(router)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	router.Use(correlationMiddleware)
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware(cfg.CORSOrigins))
	router.Use(recoveryMiddleware(log))
	router.Use(rateLimitMiddleware(limiter, log))

	addr := cfg.Host + ":" + cfg.Port
	return &Server{
		server: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		log: log,
	}
}

// Start blocks serving requests until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	s.log.Info(context.Background(), "HTTP server listening", logger.Fields{"addr": s.server.Addr})
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info(ctx, "HTTP server shutting down", nil)
	return s.server.Shutdown(ctx)
}
