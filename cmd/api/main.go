package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tripmate-app/tripmate-backend/api/routes"
	"github.com/tripmate-app/tripmate-backend/internal/invites"
	"github.com/tripmate-app/tripmate-backend/internal/items"
	"github.com/tripmate-app/tripmate-backend/internal/participants"
	"github.com/tripmate-app/tripmate-backend/internal/plans"
	"github.com/tripmate-app/tripmate-backend/internal/snapshot"
	"github.com/tripmate-app/tripmate-backend/internal/store"
	"github.com/tripmate-app/tripmate-backend/pkg/config"
	"github.com/tripmate-app/tripmate-backend/pkg/logger"
	"github.com/tripmate-app/tripmate-backend/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	st := store.New()

	var writer *snapshot.Writer
	if cfg.Snapshot.Enabled() {
		snap, found, err := snapshot.Load(cfg.Snapshot.Path)
		if err != nil {
			logg.Error(context.Background(), "failed to load snapshot", err)
			os.Exit(1)
		}
		if found {
			if err := st.Restore(snap); err != nil {
				logg.Error(context.Background(), "failed to restore snapshot", err)
				os.Exit(1)
			}
			logg.Info(logg.WithField(context.Background(), "snapshot_path", cfg.Snapshot.Path), "restored state from snapshot")
		}
		writer = snapshot.NewWriter(cfg.Snapshot.Path, logg)
		defer writer.Flush()
	}

	planService, err := plans.NewService(st, writer)
	if err != nil {
		logg.Error(context.Background(), "failed to create plan service", err)
		os.Exit(1)
	}
	participantService, err := participants.NewService(st, writer)
	if err != nil {
		logg.Error(context.Background(), "failed to create participant service", err)
		os.Exit(1)
	}
	itemService, err := items.NewService(st, writer)
	if err != nil {
		logg.Error(context.Background(), "failed to create item service", err)
		os.Exit(1)
	}
	inviteService, err := invites.NewService(st, writer)
	if err != nil {
		logg.Error(context.Background(), "failed to create invite service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, registry, httpMetrics, routes.Services{
			Plans:        planService,
			Participants: participantService,
			Items:        itemService,
			Invites:      inviteService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
