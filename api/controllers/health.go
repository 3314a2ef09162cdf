package controllers

import (
	"net/http"

	"go.uber.org/multierr"

	"github.com/garzamfg/shopfloor-backend/api/responses"
	"github.com/garzamfg/shopfloor-backend/pkg/config"
	"github.com/garzamfg/shopfloor-backend/pkg/db"
	pkgerrors "github.com/garzamfg/shopfloor-backend/pkg/errors"
	"github.com/garzamfg/shopfloor-backend/pkg/logger"
	"github.com/garzamfg/shopfloor-backend/pkg/redis"
)

const envHeader = "X-Shopfloor-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the backing stores so orchestration can gate traffic.
// Both stores are pinged even when the first fails, so one probe reports
// the full picture.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		var combined error
		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				combined = multierr.Append(combined, err)
			}
		}
		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				combined = multierr.Append(combined, err)
			}
		}
		if combined != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "backing store unreachable"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
