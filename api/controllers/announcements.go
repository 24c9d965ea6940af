package controllers

import (
	"net/http"

	"github.com/officesnack/snackcycle/api/responses"
	"github.com/officesnack/snackcycle/api/validators"
	"github.com/officesnack/snackcycle/internal/announcements"
	"github.com/officesnack/snackcycle/pkg/auth"
	pkgerrors "github.com/officesnack/snackcycle/pkg/errors"
	"github.com/officesnack/snackcycle/pkg/logger"
)

type publishAnnouncementRequest struct {
	Message string `json:"message" validate:"max=2000"`
}

// AnnouncementGet returns the active announcement, or null.
func AnnouncementGet(svc announcements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "announcement service unavailable"))
			return
		}
		active, err := svc.GetActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, active)
	}
}

func AnnouncementPublish(svc announcements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "announcement service unavailable"))
			return
		}
		admin := auth.AdminFromContext(r.Context())
		if err := auth.RequireAdmin(admin); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req publishAnnouncementRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		announcement, err := svc.Publish(r.Context(), admin, req.Message)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, announcement)
	}
}

func AnnouncementClear(svc announcements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "announcement service unavailable"))
			return
		}
		cleared, err := svc.Clear(r.Context(), auth.AdminFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"cleared": cleared})
	}
}
