// notifyd delivers SMS notifications through the provider, gated by a shared
// API key, and receives signed delivery-status callbacks.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fides/internal/notify"
	notifyhandler "fides/internal/notify/handler"
	"fides/internal/platform/config"
	"fides/internal/platform/httpserver"
	"fides/internal/platform/logger"
	"fides/internal/platform/metrics"
	"fides/internal/platform/middleware"
	"fides/internal/platform/secrets"
	"fides/internal/policy"
)

const serviceName = "notification-service"

func main() {
	log := logger.New(serviceName)
	if err := run(context.Background(), log); err != nil {
		log.Error("service failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	cfg, err := config.Load[config.Notify]()
	if err != nil {
		return err
	}
	if err := secrets.RequireAll(cfg.Secrets()); err != nil {
		return fmt.Errorf("secret integrity gate: %w", err)
	}

	m := metrics.New(serviceName)
	sender := notify.NewTwilioSender(notify.TwilioConfig{
		AccountSID:  cfg.TwilioAccountSID,
		AuthToken:   cfg.TwilioAuthToken,
		From:        cfg.TwilioFromNumber,
		TimeoutMS:   cfg.TwilioTimeoutMS,
		CallbackURL: cfg.TwilioCallbackURL,
	})
	handler := notifyhandler.New(sender, cfg.TwilioAuthToken, cfg.TwilioCallbackURL, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.Latency(m))
	r.Use(policy.Enforce(notifyhandler.Policy(cfg.NotifyKey), log))
	handler.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	log.Info("starting", "addr", cfg.Addr)
	return httpserver.Run(ctx, httpserver.New(cfg.Addr, r), log)
}
