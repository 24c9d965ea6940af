package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/officesnack/snackcycle/pkg/config"
)

var (
	signingMethod = jwt.SigningMethodHS256

	errNoSecret  = errors.New("jwt secret is required")
	errNoSession = errors.New("session id is required")
)

func checkSigningConfig(cfg config.JWTConfig) error {
	switch {
	case cfg.Secret == "":
		return errNoSecret
	case cfg.Issuer == "":
		return errors.New("jwt issuer is required")
	case cfg.TTL() <= 0:
		return errors.New("jwt expiration minutes must be positive")
	}
	return nil
}

// MintAdminToken signs the admin_session cookie value. The session id becomes
// the jti and the expiry follows the configured TTL.
func MintAdminToken(cfg config.JWTConfig, now time.Time, sessionID string) (string, error) {
	if err := checkSigningConfig(cfg); err != nil {
		return "", err
	}
	if sessionID = strings.TrimSpace(sessionID); sessionID == "" {
		return "", errNoSession
	}

	registered := jwt.RegisteredClaims{
		ID:        sessionID,
		Issuer:    cfg.Issuer,
		Subject:   ScopeAdmin,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL())),
	}
	signed, err := jwt.NewWithClaims(signingMethod, AdminClaims{Scope: ScopeAdmin, RegisteredClaims: registered}).
		SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign admin token: %w", err)
	}
	return signed, nil
}

// ParseAdminToken verifies signature, issuer and expiry, then requires the
// admin scope and a session id.
func ParseAdminToken(cfg config.JWTConfig, raw string) (*AdminClaims, error) {
	if cfg.Secret == "" {
		return nil, errNoSecret
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
	)

	claims := &AdminClaims{}
	if _, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(cfg.Secret), nil
	}); err != nil {
		return nil, fmt.Errorf("admin token: %w", err)
	}

	if claims.Scope != ScopeAdmin {
		return nil, fmt.Errorf("admin token: scope %q not accepted", claims.Scope)
	}
	if strings.TrimSpace(claims.ID) == "" {
		return nil, fmt.Errorf("admin token: %w", errNoSession)
	}
	return claims, nil
}
