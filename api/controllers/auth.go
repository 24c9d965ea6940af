package controllers

import (
	"net/http"

	"github.com/officesnack/snackcycle/api/middleware"
	"github.com/officesnack/snackcycle/api/responses"
	"github.com/officesnack/snackcycle/api/validators"
	"github.com/officesnack/snackcycle/internal/admin"
	pkgerrors "github.com/officesnack/snackcycle/pkg/errors"
	"github.com/officesnack/snackcycle/pkg/logger"
)

type loginRequest struct {
	Password string `json:"password"`
}

// AuthLogin checks the shared admin password and sets the admin session cookie.
func AuthLogin(svc admin.Service, cookies CookieOptions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}
		var req loginRequest
		if err := validators.DecodeOptionalJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Login(r.Context(), req.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeAdminCookie(w, cookies, result.Token, result.ExpiresAt)
		responses.WriteSuccess(w, map[string]any{"success": true, "expiresAt": result.ExpiresAt})
	}
}

// AuthLogout always clears the cookie, even if the session was already gone.
func AuthLogout(svc admin.Service, cookies CookieOptions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}
		if err := svc.Logout(r.Context(), middleware.AdminToken(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		clearAdminCookie(w, cookies)
		responses.WriteSuccess(w, map[string]bool{"success": true})
	}
}

func AuthCheck(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]bool{"isAdmin": svc.Check(r.Context(), middleware.AdminToken(r))})
	}
}
