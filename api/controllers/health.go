package controllers

import (
	"net/http"

	"github.com/tripmate-app/tripmate-backend/api/responses"
	"github.com/tripmate-app/tripmate-backend/pkg/config"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Tripmate-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Tripmate-Env", cfg.App.Env)
		snapshot := "disabled"
		if cfg.Snapshot.Enabled() {
			snapshot = "enabled"
		}
		responses.WriteSuccess(w, map[string]string{
			"status":   "ready",
			"snapshot": snapshot,
		})
	}
}
