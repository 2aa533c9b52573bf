package controllers

import (
	"net/http"

	"github.com/queuedesk/queuedesk-backend/api/responses"
	"github.com/queuedesk/queuedesk-backend/pkg/config"
	"github.com/queuedesk/queuedesk-backend/pkg/db"
	"github.com/queuedesk/queuedesk-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-QueueDesk-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the backing stores and reports each one. Any failed
// dependency turns the whole response into a 503.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP db.Pinger) http.HandlerFunc {
	type check struct {
		name   string
		pinger db.Pinger
	}
	checks := []check{{"database", dbP}, {"redis", redisP}}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-QueueDesk-Env", cfg.App.Env)

		ready := true
		statuses := make(map[string]string, len(checks))
		for _, c := range checks {
			if c.pinger == nil {
				statuses[c.name] = "not configured"
				continue
			}
			if err := c.pinger.Ping(r.Context()); err != nil {
				ready = false
				statuses[c.name] = "unreachable"
				if logg != nil {
					logg.Error(r.Context(), "readiness check failed for "+c.name, err)
				}
				continue
			}
			statuses[c.name] = "ok"
		}

		status := http.StatusOK
		label := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			label = "degraded"
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": label,
			"checks": statuses,
		})
	}
}
