package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/officesnack/snackcycle/pkg/config"
)

func testJWTConfig(minutes int) config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "snackcycle",
		ExpirationMinutes: minutes,
	}
}

func TestMintAndParseAdminToken(t *testing.T) {
	cfg := testJWTConfig(30)
	now := time.Now().UTC()

	token, err := MintAdminToken(cfg, now, "session-1")
	if err != nil {
		t.Fatalf("mint admin token: %v", err)
	}

	claims, err := ParseAdminToken(cfg, token)
	if err != nil {
		t.Fatalf("parse admin token: %v", err)
	}
	if claims.ID != "session-1" {
		t.Fatalf("expected jti session-1, got %s", claims.ID)
	}
	if claims.Scope != ScopeAdmin {
		t.Fatalf("unexpected scope %s", claims.Scope)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}

	exp := now.Add(30 * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v (diff %v)", exp, claims.ExpiresAt.UTC(), diff)
	}
}

func TestParseAdminTokenInvalidSignature(t *testing.T) {
	cfg := testJWTConfig(10)
	token, err := MintAdminToken(cfg, time.Now(), "session-1")
	if err != nil {
		t.Fatalf("mint admin token: %v", err)
	}

	if _, err := ParseAdminToken(cfg, token+"x"); err == nil {
		t.Fatal("expected invalid signature error")
	}
}

func TestParseAdminTokenExpired(t *testing.T) {
	cfg := testJWTConfig(15)
	token, err := MintAdminToken(cfg, time.Now().Add(-time.Hour), "session-1")
	if err != nil {
		t.Fatalf("mint admin token: %v", err)
	}

	_, err = ParseAdminToken(cfg, token)
	if err == nil {
		t.Fatal("expected expiration error")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseAdminTokenRejectsForeignScope(t *testing.T) {
	cfg := testJWTConfig(15)
	claims := AdminClaims{
		Scope: "viewer",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			ID:        "session-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ParseAdminToken(cfg, token); err == nil {
		t.Fatal("expected scope mismatch to fail")
	}
}

func TestMintAdminTokenRequiresSession(t *testing.T) {
	if _, err := MintAdminToken(testJWTConfig(5), time.Now(), " "); err == nil {
		t.Fatal("expected missing session id to fail")
	}
	if _, err := MintAdminToken(testJWTConfig(0), time.Now(), "session-1"); err == nil {
		t.Fatal("expected non-positive ttl to fail")
	}
}

func TestParseAdminTokenRequiresExpiryAndIssuer(t *testing.T) {
	cfg := testJWTConfig(15)
	sign := func(claims AdminClaims) string {
		t.Helper()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return token
	}

	noExpiry := sign(AdminClaims{Scope: ScopeAdmin, RegisteredClaims: jwt.RegisteredClaims{Issuer: cfg.Issuer, ID: "s"}})
	if _, err := ParseAdminToken(cfg, noExpiry); err == nil {
		t.Fatal("token without exp must be rejected")
	}

	otherIssuer := sign(AdminClaims{Scope: ScopeAdmin, RegisteredClaims: jwt.RegisteredClaims{
		Issuer: "someone-else", ID: "s", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	if _, err := ParseAdminToken(cfg, otherIssuer); err == nil {
		t.Fatal("token from another issuer must be rejected")
	}

	if _, err := ParseAdminToken(config.JWTConfig{}, noExpiry); err == nil {
		t.Fatal("missing secret must fail")
	}
}
