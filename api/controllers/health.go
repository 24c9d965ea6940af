package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/officesnack/snackcycle/api/responses"
	"github.com/officesnack/snackcycle/pkg/db"
	pkgerrors "github.com/officesnack/snackcycle/pkg/errors"
	"github.com/officesnack/snackcycle/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Dependency is one backing service the readiness probe pings.
type Dependency struct {
	Name   string
	Pinger db.Pinger
}

func HealthLive(env string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Snackcycle-Env", env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings each dependency in order and answers 503 naming the
// first that fails.
func HealthReady(env string, logg *logger.Logger, deps ...Dependency) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Snackcycle-Env", env)
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()
		for _, dep := range deps {
			if dep.Pinger == nil {
				continue
			}
			if err := dep.Pinger.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, dep.Name+" unavailable").
					WithDetails(map[string]string{"dependency": dep.Name}))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
