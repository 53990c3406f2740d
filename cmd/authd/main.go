// authd issues access tokens: it checks passwords against the user store,
// mints signed tokens, and reports every attempt to the audit sink.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fides/internal/audit/relay"
	"fides/internal/auth"
	authhandler "fides/internal/auth/handler"
	authstore "fides/internal/auth/store"
	"fides/internal/platform/config"
	"fides/internal/platform/cors"
	"fides/internal/platform/httpserver"
	"fides/internal/platform/logger"
	"fides/internal/platform/metrics"
	"fides/internal/platform/middleware"
	"fides/internal/platform/postgres"
	"fides/internal/platform/secrets"
	"fides/internal/policy"
	"fides/internal/token"
)

const serviceName = "auth-service"

func main() {
	log := logger.New(serviceName)
	if err := run(context.Background(), log); err != nil {
		log.Error("service failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	cfg, err := config.Load[config.Auth]()
	if err != nil {
		return err
	}
	if err := secrets.RequireAll(cfg.Secrets()); err != nil {
		return fmt.Errorf("secret integrity gate: %w", err)
	}

	origins, err := cors.ParseAllowedOrigins(cfg.AllowedOrigins)
	if err != nil {
		return fmt.Errorf("cors configuration: %w", err)
	}

	var users authstore.Store
	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		users = authstore.NewPostgresStore(pool)
		log.Info("using postgres user store")
	} else {
		users = authstore.NewMemoryStore()
		log.Info("using in-memory user store")
	}

	if err := auth.Seed(ctx, users, cfg.DemoEmail, cfg.DemoPassword, cfg.DemoRole); err != nil {
		return err
	}

	m := metrics.New(serviceName)
	tokens := token.NewService(cfg.JWTSecret, cfg.JWTLifetimeSeconds)
	auditor := relay.NewHTTP(cfg.AuditURL, cfg.AuditKey, serviceName,
		time.Duration(cfg.AuditTimeoutMS)*time.Millisecond)
	service := auth.NewService(users, tokens, auditor, m, log)
	handler := authhandler.New(service, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(cors.Middleware(origins))
	r.Use(middleware.Latency(m))
	r.Use(policy.Enforce(authhandler.Policy(), log))
	handler.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	log.Info("starting", "addr", cfg.Addr)
	return httpserver.Run(ctx, httpserver.New(cfg.Addr, r), log)
}
