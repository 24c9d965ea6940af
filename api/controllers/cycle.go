package controllers

import (
	"net/http"

	"github.com/officesnack/snackcycle/api/responses"
	"github.com/officesnack/snackcycle/internal/cycle"
	"github.com/officesnack/snackcycle/pkg/auth"
	pkgerrors "github.com/officesnack/snackcycle/pkg/errors"
	"github.com/officesnack/snackcycle/pkg/logger"
)

// WeeklyReset closes the current cycle. Admin only.
func WeeklyReset(svc cycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cycle service unavailable"))
			return
		}
		result, err := svc.WeeklyReset(r.Context(), auth.AdminFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
