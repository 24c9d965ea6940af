package security_test

import (
	"errors"
	"testing"

	"github.com/officesnack/snackcycle/pkg/config"
	"github.com/officesnack/snackcycle/pkg/security"
)

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}

	hash, err := security.HashPassword("very-secure-password", cfg)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "" {
		t.Fatal("HashPassword returned empty string")
	}

	ok, err := security.VerifyPassword("very-secure-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("VerifyPassword failed for the correct password")
	}

	ok, err = security.VerifyPassword("bogus-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	if _, err := security.VerifyPassword("irrelevant", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestMatchAdminSecret(t *testing.T) {
	ok, err := security.MatchAdminSecret("letmein", config.AdminConfig{Password: "letmein"})
	if err != nil || !ok {
		t.Fatalf("expected plain password to match, ok=%v err=%v", ok, err)
	}
	ok, err = security.MatchAdminSecret("nope", config.AdminConfig{Password: "letmein"})
	if err != nil || ok {
		t.Fatalf("expected mismatch, ok=%v err=%v", ok, err)
	}

	hash, err := security.HashPassword("hashed-secret", config.PasswordConfig{ArgonMemoryKB: 8192, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32})
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	ok, err = security.MatchAdminSecret("hashed-secret", config.AdminConfig{Password: "ignored", PasswordHash: hash})
	if err != nil || !ok {
		t.Fatalf("expected hash to take precedence, ok=%v err=%v", ok, err)
	}
	ok, _ = security.MatchAdminSecret("ignored", config.AdminConfig{Password: "ignored", PasswordHash: hash})
	if ok {
		t.Fatal("expected plain password to be ignored when a hash is configured")
	}

	if _, err := security.MatchAdminSecret("anything", config.AdminConfig{}); !errors.Is(err, security.ErrNoAdminSecret) {
		t.Fatalf("expected ErrNoAdminSecret, got %v", err)
	}
}

func TestVerifyPasswordRejectsWrongVersionAndParams(t *testing.T) {
	bad := []string{
		"$argon2i$v=19$m=8,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5a2V5a2V5",
		"$argon2id$v=16$m=8,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5a2V5a2V5",
		"$argon2id$v=19$m=8,t=0,p=1$c2FsdHNhbHQ$a2V5a2V5a2V5a2V5",
		"$argon2id$v=19$m=8,t=1,p=1$$a2V5a2V5a2V5a2V5",
	}
	for _, encoded := range bad {
		if _, err := security.VerifyPassword("x", encoded); !errors.Is(err, security.ErrInvalidHash) {
			t.Fatalf("expected ErrInvalidHash for %q, got %v", encoded, err)
		}
	}
}

func TestParamsFromConfigClamps(t *testing.T) {
	p := security.ParamsFromConfig(config.PasswordConfig{ArgonMemoryKB: 1, ArgonTime: 99, ArgonParallelism: 0, ArgonSaltLen: 4, ArgonKeyLen: 1024})
	if p.Memory != 8 || p.Time != 10 || p.Parallelism != 1 || p.SaltLen != 8 || p.KeyLen != 64 {
		t.Fatalf("unexpected clamped params %+v", p)
	}
}
