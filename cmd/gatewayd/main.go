// gatewayd is the API front: an authenticated message endpoint and test
// sends fanning out to the mailer and notification services, auditing each
// outcome at the sink.
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
	"fides/internal/gateway"
	gatewayhandler "fides/internal/gateway/handler"
	"fides/internal/platform/config"
	"fides/internal/platform/cors"
	"fides/internal/platform/httpserver"
	"fides/internal/platform/logger"
	"fides/internal/platform/metrics"
	"fides/internal/platform/middleware"
	"fides/internal/platform/secrets"
	"fides/internal/policy"
	"fides/internal/token"
)

const serviceName = "api-service"

func main() {
	log := logger.New(serviceName)
	if err := run(context.Background(), log); err != nil {
		log.Error("service failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	cfg, err := config.Load[config.Gateway]()
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

	m := metrics.New(serviceName)
	verifier := token.NewService(cfg.JWTSecret, 0)
	mailerClient := gateway.NewClient(cfg.MailerURL, "x-mailer-key", cfg.MailerKey,
		time.Duration(cfg.MailerTimeoutMS)*time.Millisecond)
	notifierClient := gateway.NewClient(cfg.NotifyURL, "x-notify-key", cfg.NotifyKey,
		time.Duration(cfg.NotifyTimeoutMS)*time.Millisecond)
	auditor := relay.NewHTTP(cfg.AuditURL, cfg.AuditKey, serviceName,
		time.Duration(cfg.AuditTimeoutMS)*time.Millisecond)
	handler := gatewayhandler.New(mailerClient, notifierClient, auditor, m, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(cors.Middleware(origins))
	r.Use(middleware.Latency(m))
	r.Use(token.Authenticate(verifier, log))
	r.Use(policy.Enforce(gatewayhandler.Policy(), log))
	handler.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	log.Info("starting", "addr", cfg.Addr)
	return httpserver.Run(ctx, httpserver.New(cfg.Addr, r), log)
}
