package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/officesnack/snackcycle/pkg/auth"
	"github.com/officesnack/snackcycle/pkg/logger"
)

// AdminCookieName carries the signed admin session token.
const AdminCookieName = "admin_session"

type adminResolver interface {
	Resolve(ctx context.Context, token string) (*auth.AdminCapability, error)
}

// AdminToken returns the raw admin session cookie value, or "".
func AdminToken(r *http.Request) string {
	cookie, err := r.Cookie(AdminCookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}

// AdminSession resolves the admin cookie into an auth.AdminCapability on the
// request context. Requests without a valid session continue anonymously;
// admin-gated operations reject them downstream.
func AdminSession(resolver adminResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if resolver == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := AdminToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			capability, err := resolver.Resolve(ctx, token)
			if err != nil {
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "error", err.Error()), "admin.session.unresolved")
				}
				next.ServeHTTP(w, r)
				return
			}
			if capability == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx = auth.WithAdmin(ctx, capability)
			if logg != nil {
				ctx = logg.WithAdminSession(ctx, capability.SessionID())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
