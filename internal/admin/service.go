package admin

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/officesnack/snackcycle/pkg/auth"
	"github.com/officesnack/snackcycle/pkg/config"
	pkgerrors "github.com/officesnack/snackcycle/pkg/errors"
	"github.com/officesnack/snackcycle/pkg/logger"
	"github.com/officesnack/snackcycle/pkg/security"
)

const invalidPasswordMessage = "invalid admin password"

// SessionStore persists live admin sessions.
type SessionStore interface {
	Create(ctx context.Context) (string, error)
	Revoke(ctx context.Context, sessionID string) error
	HasSession(ctx context.Context, sessionID string) (bool, error)
	TTL() time.Duration
}

// LoginResult carries the signed token for the admin_session cookie.
type LoginResult struct {
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service authenticates the single shared admin role.
type Service interface {
	Login(ctx context.Context, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	Resolve(ctx context.Context, token string) (*auth.AdminCapability, error)
	Check(ctx context.Context, token string) bool
}

type ServiceParams struct {
	Sessions  SessionStore
	AdminCfg  config.AdminConfig
	JWTConfig config.JWTConfig
	Logger    *logger.Logger
}

type service struct {
	sessions SessionStore
	adminCfg config.AdminConfig
	jwtCfg   config.JWTConfig
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "session store required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		sessions: params.Sessions,
		adminCfg: params.AdminCfg,
		jwtCfg:   params.JWTConfig,
		logg:     params.Logger,
		now:      time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, password string) (*LoginResult, error) {
	if strings.TrimSpace(password) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	ok, err := security.MatchAdminSecret(password, s.adminCfg)
	if err != nil {
		if errors.Is(err, security.ErrNoAdminSecret) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "admin password is not configured")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify admin password")
	}
	if !ok {
		s.logg.Warn(ctx, "admin login rejected")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidPasswordMessage)
	}

	sessionID, err := s.sessions.Create(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create admin session")
	}
	now := s.now()
	token, err := auth.MintAdminToken(s.jwtCfg, now, sessionID)
	if err != nil {
		_ = s.sessions.Revoke(ctx, sessionID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint admin token")
	}

	s.logg.Info(s.logg.WithAdminSession(ctx, sessionID), "admin login")
	return &LoginResult{Token: token, ExpiresAt: now.Add(s.sessions.TTL())}, nil
}

// Logout revokes the session behind the token. Unparseable tokens are ignored
// so the caller can always clear the cookie.
func (s *service) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	claims, err := auth.ParseAdminToken(s.jwtCfg, token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke admin session")
	}
	s.logg.Info(s.logg.WithAdminSession(ctx, claims.ID), "admin logout")
	return nil
}

// Resolve turns a cookie token into an admin capability. A missing, invalid or
// revoked token yields a nil capability and no error.
func (s *service) Resolve(ctx context.Context, token string) (*auth.AdminCapability, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}
	claims, err := auth.ParseAdminToken(s.jwtCfg, token)
	if err != nil {
		return nil, nil
	}
	live, err := s.sessions.HasSession(ctx, claims.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check admin session")
	}
	if !live {
		return nil, nil
	}
	return auth.GrantAdmin(claims.ID, s.now()), nil
}

func (s *service) Check(ctx context.Context, token string) bool {
	capability, err := s.Resolve(ctx, token)
	if err != nil {
		s.logg.Warn(ctx, "admin session check failed")
		return false
	}
	return capability != nil
}
