// auditd is the append-only audit sink: key-gated ingestion for the other
// services and a token-gated read of recent events.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fides/internal/audit"
	audithandler "fides/internal/audit/handler"
	auditstore "fides/internal/audit/store"
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

const serviceName = "audit-service"

func main() {
	log := logger.New(serviceName)
	if err := run(context.Background(), log); err != nil {
		log.Error("service failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	cfg, err := config.Load[config.Audit]()
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

	var events auditstore.Store
	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		events = auditstore.NewPostgresStore(pool)
		log.Info("using postgres event store")
	} else {
		events = auditstore.NewMemoryStore()
		log.Info("using in-memory event store")
	}

	m := metrics.New(serviceName)
	verifier := token.NewService(cfg.JWTSecret, 0)
	handler := audithandler.New(audit.NewService(events), log, m)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(cors.Middleware(origins))
	r.Use(middleware.Latency(m))
	r.Use(token.Authenticate(verifier, log))
	r.Use(policy.Enforce(audithandler.Policy(cfg.AuditKey), log))
	handler.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	log.Info("starting", "addr", cfg.Addr)
	return httpserver.Run(ctx, httpserver.New(cfg.Addr, r), log)
}
