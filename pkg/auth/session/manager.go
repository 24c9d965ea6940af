package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redisclient "github.com/officesnack/snackcycle/pkg/redis"
	redislib "github.com/redis/go-redis/v9"
)

var errBlankID = errors.New("session id is required")

// store is the slice of the redis client sessions need.
type store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	AdminSessionKey(sessionID string) string
}

// Manager keeps one redis key per admin login. The key expires with the
// session, so logout and expiry look the same to HasSession.
type Manager struct {
	store store
	ttl   time.Duration
	now   func() time.Time
}

func NewManager(client *redisclient.Client, ttl time.Duration) (*Manager, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	return newManager(client, ttl)
}

func newManager(s store, ttl time.Duration) (*Manager, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	return &Manager{store: s, ttl: ttl, now: time.Now}, nil
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Create stores a fresh session stamped with its creation time and returns
// the id that becomes the token's jti.
func (m *Manager) Create(ctx context.Context) (string, error) {
	id := uuid.NewString()
	stamp := m.now().UTC().Format(time.RFC3339)
	if err := m.store.Set(ctx, m.store.AdminSessionKey(id), stamp, m.ttl); err != nil {
		return "", fmt.Errorf("store admin session: %w", err)
	}
	return id, nil
}

// Revoke drops the session; revoking an unknown id succeeds.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	key, err := m.key(sessionID)
	if err != nil {
		return err
	}
	return m.store.Del(ctx, key)
}

func (m *Manager) HasSession(ctx context.Context, sessionID string) (bool, error) {
	key, err := m.key(sessionID)
	if err != nil {
		return false, err
	}
	_, err = m.store.Get(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redislib.Nil):
		return false, nil
	default:
		return false, fmt.Errorf("lookup admin session: %w", err)
	}
}

func (m *Manager) key(sessionID string) (string, error) {
	if sessionID = strings.TrimSpace(sessionID); sessionID == "" {
		return "", errBlankID
	}
	return m.store.AdminSessionKey(sessionID), nil
}
