package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/officesnack/snackcycle/api/middleware"
	"github.com/officesnack/snackcycle/internal/admin"
	pkgerrors "github.com/officesnack/snackcycle/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.AdminCookieName {
			return cookie
		}
	}
	return nil
}

func TestAuthLoginSetsHttpOnlyCookie(t *testing.T) {
	expires := time.Now().Add(7 * 24 * time.Hour)
	svc := &stubAdminService{login: func(_ context.Context, password string) (*admin.LoginResult, error) {
		if password != "secret" {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "wrong password")
		}
		return &admin.LoginResult{Token: "signed", ExpiresAt: expires}, nil
	}}

	rec := httptest.NewRecorder()
	AuthLogin(svc, CookieOptions{Secure: true}, testLogger()).ServeHTTP(rec, newRequest(http.MethodPost, "/auth/login", `{"password":"secret"}`, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := adminCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "signed", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.NotContains(t, rec.Body.String(), "signed")

	rec = httptest.NewRecorder()
	AuthLogin(svc, CookieOptions{}, testLogger()).ServeHTTP(rec, newRequest(http.MethodPost, "/auth/login", `{"password":"nope"}`, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, adminCookie(rec))
}

func TestAuthLogoutClearsCookie(t *testing.T) {
	var revoked string
	svc := &stubAdminService{logout: func(_ context.Context, token string) error {
		revoked = token
		return nil
	}}
	req := newRequest(http.MethodPost, "/auth/logout", "", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AdminCookieName, Value: "signed"})
	rec := httptest.NewRecorder()
	AuthLogout(svc, CookieOptions{}, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "signed", revoked)
	cookie := adminCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, -1, cookie.MaxAge)
}

func TestAuthLogoutSurfacesStoreFailure(t *testing.T) {
	svc := &stubAdminService{logout: func(context.Context, string) error {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("redis down"), "revoke admin session")
	}}
	rec := httptest.NewRecorder()
	AuthLogout(svc, CookieOptions{}, testLogger()).ServeHTTP(rec, newRequest(http.MethodPost, "/auth/logout", "", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAuthCheck(t *testing.T) {
	svc := &stubAdminService{check: func(_ context.Context, token string) bool { return token == "signed" }}

	rec := httptest.NewRecorder()
	AuthCheck(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodGet, "/auth/check", "", nil))
	assert.JSONEq(t, `{"isAdmin":false}`, string(decodeEnvelope(t, rec).Data))

	req := newRequest(http.MethodGet, "/auth/check", "", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AdminCookieName, Value: "signed"})
	rec = httptest.NewRecorder()
	AuthCheck(svc, testLogger()).ServeHTTP(rec, req)
	assert.JSONEq(t, `{"isAdmin":true}`, string(decodeEnvelope(t, rec).Data))
}
