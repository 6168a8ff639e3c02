package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/educart-ph/educart-backend/api/responses"
	"github.com/educart-ph/educart-backend/pkg/config"
	pkgerrors "github.com/educart-ph/educart-backend/pkg/errors"
	"github.com/educart-ph/educart-backend/pkg/logger"
)

// Pinger is the readiness contract shared by db, redis, gcs, and bigquery
// clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-EduCart-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the dependencies the API cannot serve without.
// Nil pingers are skipped so partial wiring in tests stays green.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-EduCart-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		statuses := map[string]string{}
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				if logg != nil {
					logg.Error(ctx, "health."+name, err)
				}
				statuses[name] = "unavailable"
				continue
			}
			statuses[name] = "ok"
		}

		for _, status := range statuses {
			if status != "ok" {
				err := pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(statuses)
				responses.WriteError(r.Context(), nil, w, err)
				return
			}
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": statuses})
	}
}

// HealthDeps builds the dependency map for HealthReady.
func HealthDeps(db, redis, gcs, bigquery Pinger) map[string]Pinger {
	return map[string]Pinger{
		"db":       db,
		"redis":    redis,
		"gcs":      gcs,
		"bigquery": bigquery,
	}
}
