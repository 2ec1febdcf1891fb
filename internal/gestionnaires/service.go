package gestionnaires

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/depotvente-backend/pkg/config"
	pkgdb "github.com/angelmondragon/depotvente-backend/pkg/db"
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	"github.com/angelmondragon/depotvente-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/angelmondragon/depotvente-backend/pkg/security"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/angelmondragon/depotvente-backend/pkg/validation"
	"github.com/google/uuid"
)

// Service manages back-office accounts.
type Service interface {
	List(ctx context.Context) ([]types.Gestionnaire, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Gestionnaire, error)
	Create(ctx context.Context, input CreateGestionnaireInput) (*types.Gestionnaire, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateGestionnaireInput) (*types.Gestionnaire, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// EnsureAdmin creates the configured admin when no admin exists yet.
	EnsureAdmin(ctx context.Context, cfg config.BootstrapConfig) (bool, error)
}

type service struct {
	repo        Repository
	passwordCfg config.PasswordConfig
}

func NewService(repo Repository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("gestionnaires repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

func (s *service) List(ctx context.Context) ([]types.Gestionnaire, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list gestionnaires")
	}
	out := make([]types.Gestionnaire, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*types.Gestionnaire, error) {
	g, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(g), nil
}

func (s *service) Create(ctx context.Context, input CreateGestionnaireInput) (*types.Gestionnaire, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "le nom d'utilisateur est requis")
	}
	role := input.Role
	if role == "" {
		role = enums.RoleGestionnaire
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("rôle %q inconnu", role))
	}
	hash, err := s.hash(input.Password)
	if err != nil {
		return nil, err
	}

	g := &models.Gestionnaire{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, mapWriteError(err, "create gestionnaire")
	}
	return FromModel(g), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateGestionnaireInput) (*types.Gestionnaire, error) {
	g, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Email != nil {
		email, err := normalizeEmail(*input.Email)
		if err != nil {
			return nil, err
		}
		g.Email = email
	}
	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "le nom d'utilisateur est requis")
		}
		g.Username = username
	}
	if input.Password != nil {
		hash, err := s.hash(*input.Password)
		if err != nil {
			return nil, err
		}
		g.PasswordHash = hash
	}
	if input.Role != nil && *input.Role != g.Role {
		if !input.Role.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("rôle %q inconnu", *input.Role))
		}
		if g.Role == enums.RoleAdmin {
			if err := s.keepOneAdmin(ctx); err != nil {
				return nil, err
			}
		}
		g.Role = *input.Role
	}

	if err := s.repo.Update(ctx, g); err != nil {
		return nil, mapWriteError(err, "update gestionnaire")
	}
	return FromModel(g), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	g, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if g.Role == enums.RoleAdmin {
		if err := s.keepOneAdmin(ctx); err != nil {
			return err
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapWriteError(err, "delete gestionnaire")
	}
	return nil
}

func (s *service) EnsureAdmin(ctx context.Context, cfg config.BootstrapConfig) (bool, error) {
	if !cfg.Enabled() {
		return false, nil
	}
	admins, err := s.repo.CountByRole(ctx, enums.RoleAdmin)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count admins")
	}
	if admins > 0 {
		return false, nil
	}
	username := cfg.AdminUsername
	if strings.TrimSpace(username) == "" {
		username = "admin"
	}
	_, err = s.Create(ctx, CreateGestionnaireInput{
		Email:    cfg.AdminEmail,
		Username: username,
		Password: cfg.AdminPassword,
		Role:     enums.RoleAdmin,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// keepOneAdmin refuses to demote or delete the last admin account.
func (s *service) keepOneAdmin(ctx context.Context) error {
	admins, err := s.repo.CountByRole(ctx, enums.RoleAdmin)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count admins")
	}
	if admins <= 1 {
		return pkgerrors.New(pkgerrors.CodeConflict, "impossible de retirer le dernier administrateur")
	}
	return nil
}

func (s *service) hash(password string) (string, error) {
	if err := security.ValidatePassword(password); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	return hash, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Gestionnaire, error) {
	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapWriteError(err, "load gestionnaire")
	}
	return g, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "l'email est requis")
	}
	if !validation.Email(email) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "email invalide")
	}
	return email, nil
}

func mapWriteError(err error, step string) error {
	var typed *pkgerrors.Error
	switch {
	case errors.As(err, &typed):
		return typed
	case pkgdb.IsNotFound(err):
		return pkgerrors.NotFound("gestionnaire")
	case pkgdb.IsUniqueViolation(err, ""):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "cet email est déjà utilisé")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, step)
	}
}
