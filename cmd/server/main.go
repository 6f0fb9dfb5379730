package main

import (
	"context"
	"database/sql"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	httpadapter "github.com/deskview/deskview/internal/adapter/http"
	"github.com/deskview/deskview/internal/adapter/persistence"
	"github.com/deskview/deskview/internal/config"
	"github.com/deskview/deskview/internal/logger"
	"github.com/deskview/deskview/internal/ports"
	"github.com/deskview/deskview/internal/query"
	"github.com/deskview/deskview/internal/service/auth"
	"github.com/deskview/deskview/internal/service/ratelimit"
	"github.com/deskview/deskview/internal/store"
	"github.com/deskview/deskview/internal/usecase"
)

func main() {
	// A missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		ServiceName: "deskview",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLog.Info(ctx, "Application starting", logger.Fields{
		"env":    cfg.Server.Environment,
		"source": cfg.Source.Kind,
	})

	source, cleanup, err := buildSource(ctx, cfg, appLog)
	if err != nil {
		appLog.Error(ctx, "Failed to initialize ticket source", err, nil)
		log.Fatalf("Failed to initialize ticket source: %v", err)
	}
	defer cleanup()

	dashboard := usecase.NewDashboardUseCase(source, query.NewEngine(nil), appLog)
	if err := dashboard.Load(ctx); err != nil {
		appLog.Error(ctx, "Failed to load ticket dataset", err, nil)
		log.Fatalf("Failed to load ticket dataset: %v", err)
	}

	authService := auth.NewService(auth.Config{
		Username:     cfg.Auth.AdminUser,
		PasswordHash: cfg.Auth.AdminPasswordHash,
		JWTSecret:    cfg.Auth.JWTSecret,
		TokenTTL:     cfg.Auth.TokenTTL,
	})

	limiter, err := ratelimit.New(ratelimit.Config{
		Enabled:  cfg.RateLimit.Enabled,
		RedisURL: cfg.Redis.URL,
		Requests: cfg.RateLimit.Requests,
		Window:   cfg.RateLimit.Window,
	}, appLog)
	if err != nil {
		appLog.Error(ctx, "Failed to initialize rate limiter", err, nil)
		log.Fatalf("Failed to initialize rate limiter: %v", err)
	}
	defer limiter.Close()

	server := httpadapter.NewServer(httpadapter.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		CORSOrigins:  cfg.CORS.Origins,
	}, dashboard, authService, limiter, appLog)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		appLog.Error(ctx, "HTTP server failed", err, nil)
		log.Fatalf("HTTP server failed: %v", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.Error(shutdownCtx, "Shutdown did not complete cleanly", err, nil)
	}
}

// buildSource picks the configured ticket source. The returned cleanup
// closes whatever the source holds open.
func buildSource(ctx context.Context, cfg *config.Config, appLog logger.Logger) (ports.TicketSource, func(), error) {
	switch cfg.Source.Kind {
	case "postgres":
		db, err := sql.Open("postgres", cfg.DatabaseURL())
		if err != nil {
			return nil, nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			db.Close()
			return nil, nil, err
		}
		appLog.Info(ctx, "Database connection established", logger.Fields{
			"host": cfg.Database.Host,
			"db":   cfg.Database.DBName,
		})
		return persistence.NewPostgresTicketSource(db), func() { db.Close() }, nil
	default:
		return store.NewCSVStore(cfg.Source.CSVPath), func() {}, nil
	}
}
