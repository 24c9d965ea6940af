package admin

import (
	"context"
	"errors"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/officesnack/snackcycle/pkg/auth"
	"github.com/officesnack/snackcycle/pkg/config"
	pkgerrors "github.com/officesnack/snackcycle/pkg/errors"
	"github.com/officesnack/snackcycle/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct {
	live      map[string]bool
	next      int
	createErr error
	checkErr  error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{live: map[string]bool{}}
}

func (f *fakeSessions) Create(context.Context) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.next++
	id := "session-" + strconv.Itoa(f.next)
	f.live[id] = true
	return id, nil
}

func (f *fakeSessions) Revoke(_ context.Context, id string) error {
	delete(f.live, id)
	return nil
}

func (f *fakeSessions) HasSession(_ context.Context, id string) (bool, error) {
	if f.checkErr != nil {
		return false, f.checkErr
	}
	return f.live[id], nil
}

func (f *fakeSessions) TTL() time.Duration { return 7 * 24 * time.Hour }

var testJWT = config.JWTConfig{Secret: "test-secret", Issuer: "snackcycle", ExpirationMinutes: 60}

func newTestService(t *testing.T, sessions SessionStore, adminCfg config.AdminConfig) *service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Sessions:  sessions,
		AdminCfg:  adminCfg,
		JWTConfig: testJWT,
		Logger:    logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc.(*service)
}

func TestLoginIssuesResolvableToken(t *testing.T) {
	sessions := newFakeSessions()
	svc := newTestService(t, sessions, config.AdminConfig{Password: "hunter2"})
	now := time.Now()
	svc.now = func() time.Time { return now }

	result, err := svc.Login(context.Background(), "hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	assert.True(t, result.ExpiresAt.Equal(now.Add(7*24*time.Hour)))

	capability, err := svc.Resolve(context.Background(), result.Token)
	require.NoError(t, err)
	require.NotNil(t, capability)
	assert.NoError(t, auth.RequireAdmin(capability))
	assert.Equal(t, "session-1", capability.SessionID())
	assert.True(t, svc.Check(context.Background(), result.Token))
}

func TestLoginFailures(t *testing.T) {
	cases := []struct {
		name     string
		cfg      config.AdminConfig
		password string
		code     pkgerrors.Code
	}{
		{name: "empty", cfg: config.AdminConfig{Password: "x"}, password: " ", code: pkgerrors.CodeValidation},
		{name: "not configured", cfg: config.AdminConfig{}, password: "x", code: pkgerrors.CodeInternal},
		{name: "mismatch", cfg: config.AdminConfig{Password: "right"}, password: "wrong", code: pkgerrors.CodeUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sessions := newFakeSessions()
			svc := newTestService(t, sessions, tc.cfg)
			_, err := svc.Login(context.Background(), tc.password)
			assert.True(t, pkgerrors.IsCode(err, tc.code), "got %v", err)
			assert.Empty(t, sessions.live)
		})
	}
}

func TestLoginSessionStoreDown(t *testing.T) {
	sessions := newFakeSessions()
	sessions.createErr = errors.New("redis down")
	svc := newTestService(t, sessions, config.AdminConfig{Password: "pw"})

	_, err := svc.Login(context.Background(), "pw")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := newFakeSessions()
	svc := newTestService(t, sessions, config.AdminConfig{Password: "pw"})
	result, err := svc.Login(context.Background(), "pw")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), result.Token))
	assert.False(t, svc.Check(context.Background(), result.Token))

	assert.NoError(t, svc.Logout(context.Background(), "garbage"))
	assert.NoError(t, svc.Logout(context.Background(), ""))
}

func TestResolveRejectsBadTokens(t *testing.T) {
	sessions := newFakeSessions()
	svc := newTestService(t, sessions, config.AdminConfig{Password: "pw"})

	for _, token := range []string{"", "not-a-jwt"} {
		capability, err := svc.Resolve(context.Background(), token)
		require.NoError(t, err)
		assert.Nil(t, capability)
	}

	forged, err := auth.MintAdminToken(config.JWTConfig{Secret: "other", Issuer: "snackcycle", ExpirationMinutes: 5}, time.Now(), "session-1")
	require.NoError(t, err)
	sessions.live["session-1"] = true
	capability, err := svc.Resolve(context.Background(), forged)
	require.NoError(t, err)
	assert.Nil(t, capability)

	sessions.checkErr = errors.New("redis down")
	valid, err := auth.MintAdminToken(testJWT, time.Now(), "session-1")
	require.NoError(t, err)
	_, err = svc.Resolve(context.Background(), valid)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.False(t, svc.Check(context.Background(), valid))
}
