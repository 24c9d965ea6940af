package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// ScopeAdmin is the only scope the service issues.
const ScopeAdmin = "admin"

// AdminClaims represents the typed JWT stored in the admin_session cookie.
// The registered ID (jti) doubles as the Redis session key.
type AdminClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}
