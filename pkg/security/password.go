package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/officesnack/snackcycle/pkg/config"
)

var (
	// ErrInvalidHash signals a malformed argon2id hash string.
	ErrInvalidHash = errors.New("invalid argon2id hash")
	// ErrNoAdminSecret means neither an admin password nor a hash is configured.
	ErrNoAdminSecret = errors.New("admin secret not configured")
)

var b64 = base64.RawStdEncoding

// ArgonParams are the cost settings encoded into every hash string.
type ArgonParams struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLen     uint32
	KeyLen      uint32
}

// ParamsFromConfig clamps the configured costs into ranges argon2 accepts.
func ParamsFromConfig(cfg config.PasswordConfig) ArgonParams {
	return ArgonParams{
		Memory:      uint32(clamp(cfg.ArgonMemoryKB, 8, 512*1024)),
		Time:        uint32(clamp(cfg.ArgonTime, 1, 10)),
		Parallelism: uint8(clamp(cfg.ArgonParallelism, 1, 255)),
		SaltLen:     uint32(clamp(cfg.ArgonSaltLen, 8, 64)),
		KeyLen:      uint32(clamp(cfg.ArgonKeyLen, 16, 64)),
	}
}

type encodedHash struct {
	params ArgonParams
	salt   []byte
	key    []byte
}

// String renders the PHC form $argon2id$v=19$m=..,t=..,p=..$salt$key.
func (h encodedHash) String() string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.Memory, h.params.Time, h.params.Parallelism,
		b64.EncodeToString(h.salt), b64.EncodeToString(h.key))
}

func parseHash(encoded string) (encodedHash, error) {
	parts := strings.Split(strings.TrimSpace(encoded), "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return encodedHash{}, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return encodedHash{}, ErrInvalidHash
	}

	var h encodedHash
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &h.params.Memory, &h.params.Time, &h.params.Parallelism); err != nil {
		return encodedHash{}, ErrInvalidHash
	}
	if h.params.Time == 0 || h.params.Parallelism == 0 {
		return encodedHash{}, ErrInvalidHash
	}

	var err error
	if h.salt, err = b64.DecodeString(parts[4]); err != nil || len(h.salt) == 0 {
		return encodedHash{}, ErrInvalidHash
	}
	if h.key, err = b64.DecodeString(parts[5]); err != nil || len(h.key) == 0 {
		return encodedHash{}, ErrInvalidHash
	}
	h.params.SaltLen = uint32(len(h.salt))
	h.params.KeyLen = uint32(len(h.key))
	return h, nil
}

// HashPassword derives an argon2id hash with a fresh random salt.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	params := ParamsFromConfig(cfg)
	salt := make([]byte, params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return encodedHash{
		params: params,
		salt:   salt,
		key:    derive(password, salt, params),
	}.String(), nil
}

// VerifyPassword reports whether password matches encoded.
func VerifyPassword(password, encoded string) (bool, error) {
	h, err := parseHash(encoded)
	if err != nil {
		return false, err
	}
	computed := derive(password, h.salt, h.params)
	return subtle.ConstantTimeCompare(h.key, computed) == 1, nil
}

// MatchAdminSecret checks a login attempt against the configured admin secret.
// An argon2id hash takes precedence over the plain password.
func MatchAdminSecret(candidate string, cfg config.AdminConfig) (bool, error) {
	if hash := strings.TrimSpace(cfg.PasswordHash); hash != "" {
		return VerifyPassword(candidate, hash)
	}
	if cfg.Password == "" {
		return false, ErrNoAdminSecret
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(cfg.Password)) == 1, nil
}

func derive(password string, salt []byte, p ArgonParams) []byte {
	return argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Parallelism, p.KeyLen)
}

func clamp(value, lo, hi int) int {
	return max(lo, min(value, hi))
}
