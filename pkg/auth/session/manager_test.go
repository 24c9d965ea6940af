package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) AdminSessionKey(sessionID string) string {
	return fmt.Sprintf("sess:%s", sessionID)
}

func TestManagerCreateCheckRevoke(t *testing.T) {
	store := newMockStore()
	manager, err := newManager(store, time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	manager.now = func() time.Time { return time.Date(2026, 10, 12, 8, 30, 0, 0, time.UTC) }
	ctx := context.Background()

	sessionID, err := manager.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	key := store.AdminSessionKey(sessionID)
	if store.ttls[key] != time.Hour {
		t.Fatalf("expected session stored with ttl 1h, got %s", store.ttls[key])
	}
	if store.data[key] != "2026-10-12T08:30:00Z" {
		t.Fatalf("expected creation stamp, got %q", store.data[key])
	}

	ok, err := manager.HasSession(ctx, sessionID)
	if err != nil || !ok {
		t.Fatalf("expected live session, ok=%v err=%v", ok, err)
	}

	if err := manager.Revoke(ctx, sessionID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	ok, err = manager.HasSession(ctx, sessionID)
	if err != nil || ok {
		t.Fatalf("expected revoked session, ok=%v err=%v", ok, err)
	}
	if err := manager.Revoke(ctx, sessionID); err != nil {
		t.Fatalf("second revoke should succeed: %v", err)
	}
}

func TestManagerSurfacesStoreErrors(t *testing.T) {
	store := newMockStore()
	manager, _ := newManager(store, time.Hour)
	store.err = errors.New("connection refused")

	if _, err := manager.Create(context.Background()); err == nil {
		t.Fatal("expected create to fail")
	}
	if _, err := manager.HasSession(context.Background(), "abc"); err == nil {
		t.Fatal("expected store error to surface")
	}
	if _, err := manager.HasSession(context.Background(), " "); !errors.Is(err, errBlankID) {
		t.Fatalf("expected blank id error, got %v", err)
	}
	if err := manager.Revoke(context.Background(), ""); !errors.Is(err, errBlankID) {
		t.Fatalf("expected blank id error, got %v", err)
	}
}

func TestNewManagerValidatesInputs(t *testing.T) {
	if _, err := NewManager(nil, time.Hour); err == nil {
		t.Fatal("expected nil client to fail")
	}
	if _, err := newManager(newMockStore(), 0); err == nil {
		t.Fatal("expected zero ttl to fail")
	}
}
