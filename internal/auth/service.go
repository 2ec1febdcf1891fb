package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/depotvente-backend/internal/gestionnaires"
	pkgAuth "github.com/angelmondragon/depotvente-backend/pkg/auth"
	"github.com/angelmondragon/depotvente-backend/pkg/auth/session"
	"github.com/angelmondragon/depotvente-backend/pkg/config"
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	"github.com/angelmondragon/depotvente-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/angelmondragon/depotvente-backend/pkg/security"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
)

// Every credential failure looks the same to the caller, including a valid
// account presented on the wrong surface.
var errBadCredentials = pkgerrors.New(pkgerrors.CodeUnauthorized, "identifiants invalides")

type Service interface {
	Login(ctx context.Context, surface enums.Role, req LoginRequest) (*types.LoginResult, error)
	Logout(ctx context.Context, accessID string) error
}

type accountRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Gestionnaire, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionManager interface {
	Open(ctx context.Context, accessID string, userID uuid.UUID) error
	Revoke(ctx context.Context, accessID string) error
}

type ServiceParams struct {
	Accounts       accountRepository
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	Now            func() time.Time
}

type service struct {
	accounts accountRepository
	sessions sessionManager
	signer   *pkgAuth.Signer
	now      func() time.Time
}

// NewService fails early on a JWT configuration that could not mint tokens.
func NewService(p ServiceParams) (Service, error) {
	switch {
	case p.Accounts == nil:
		return nil, errors.New("auth: account repository is required")
	case p.SessionManager == nil:
		return nil, errors.New("auth: session manager is required")
	}
	signer, err := pkgAuth.NewSigner(p.JWTConfig)
	if err != nil {
		return nil, err
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return &service{accounts: p.Accounts, sessions: p.SessionManager, signer: signer, now: p.Now}, nil
}

// Login checks credentials, records the login time, then mints a token whose
// jti doubles as the Redis session key.
func (s *service) Login(ctx context.Context, surface enums.Role, req LoginRequest) (*types.LoginResult, error) {
	account, err := s.verify(ctx, req)
	if err != nil {
		return nil, err
	}
	if !surfaceAdmits(surface, account.Role) {
		return nil, errBadCredentials
	}

	now := s.now().UTC()
	if err := s.accounts.UpdateLastLogin(ctx, account.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	account.LastLoginAt = &now

	jti := session.NewAccessID()
	token, err := s.signer.Mint(now, pkgAuth.AccessTokenPayload{
		UserID:   account.ID,
		Email:    account.Email,
		Username: account.Username,
		Role:     account.Role,
		JTI:      jti,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	if err := s.sessions.Open(ctx, jti, account.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session")
	}
	return &types.LoginResult{Token: token, User: gestionnaires.UserInfo(account)}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "session inconnue")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) verify(ctx context.Context, req LoginRequest) (*models.Gestionnaire, error) {
	email := req.accountEmail()
	if email == "" || req.Password == "" {
		return nil, errBadCredentials
	}
	account, err := s.accounts.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, errBadCredentials
	case err != nil:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup account")
	}

	ok, err := security.VerifyPassword(req.Password, account.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, errBadCredentials
	}
	return account, nil
}
