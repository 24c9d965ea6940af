package controllers

import (
	"net/http"
	"time"

	"github.com/officesnack/snackcycle/api/responses"
	"github.com/officesnack/snackcycle/api/validators"
	"github.com/officesnack/snackcycle/internal/dashboard"
	pkgerrors "github.com/officesnack/snackcycle/pkg/errors"
	"github.com/officesnack/snackcycle/pkg/logger"
)

// Dashboard always answers 200; failed sections come back empty.
func Dashboard(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Summary(r.Context(), time.Now()))
	}
}

func RecentActivities(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}
		since, err := validators.ParseQueryTime(r, "since")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.RecentActivities(r.Context(), since))
	}
}
