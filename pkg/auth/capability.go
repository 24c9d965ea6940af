package auth

import (
	"context"
	"time"

	pkgerrors "github.com/officesnack/snackcycle/pkg/errors"
)

// AdminCapability proves the caller holds a live admin session. Admin-gated
// operations take it as an argument instead of reading cookies themselves.
type AdminCapability struct {
	sessionID string
	grantedAt time.Time
}

// GrantAdmin mints a capability for a verified session.
func GrantAdmin(sessionID string, grantedAt time.Time) *AdminCapability {
	return &AdminCapability{sessionID: sessionID, grantedAt: grantedAt}
}

func (c *AdminCapability) SessionID() string {
	if c == nil {
		return ""
	}
	return c.sessionID
}

func (c *AdminCapability) GrantedAt() time.Time {
	if c == nil {
		return time.Time{}
	}
	return c.grantedAt
}

// RequireAdmin rejects a missing capability with a forbidden error.
func RequireAdmin(c *AdminCapability) error {
	if c == nil || c.sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin privileges required")
	}
	return nil
}

type capabilityKey struct{}

// WithAdmin stores the capability on the request context.
func WithAdmin(ctx context.Context, c *AdminCapability) context.Context {
	if c == nil {
		return ctx
	}
	return context.WithValue(ctx, capabilityKey{}, c)
}

// AdminFromContext returns the capability resolved by middleware, or nil.
func AdminFromContext(ctx context.Context) *AdminCapability {
	if ctx == nil {
		return nil
	}
	c, _ := ctx.Value(capabilityKey{}).(*AdminCapability)
	return c
}
