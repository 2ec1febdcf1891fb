package sellers

import (
	"context"
	"fmt"
	"strings"

	pkgdb "github.com/angelmondragon/depotvente-backend/pkg/db"
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/angelmondragon/depotvente-backend/pkg/validation"
	"github.com/google/uuid"
)

// Service exposes seller operations.
type Service interface {
	List(ctx context.Context, filter ListFilter) ([]types.Seller, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Seller, error)
	Create(ctx context.Context, input CreateSellerInput) (*types.Seller, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateSellerInput) (*types.Seller, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds a seller service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sellers repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]types.Seller, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sellers")
	}
	return fromModels(rows), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*types.Seller, error) {
	seller, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(seller), nil
}

func (s *service) Create(ctx context.Context, input CreateSellerInput) (*types.Seller, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if err := validateIdentity(name, email); err != nil {
		return nil, err
	}

	seller := &models.Seller{
		Name:  name,
		Email: email,
		Phone: trimOptional(input.Phone),
	}
	if err := s.repo.Create(ctx, seller); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create seller")
	}
	return FromModel(seller), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateSellerInput) (*types.Seller, error) {
	seller, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		seller.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		seller.Email = strings.TrimSpace(*input.Email)
	}
	if input.Phone != nil {
		seller.Phone = trimOptional(input.Phone)
	}
	if err := validateIdentity(seller.Name, seller.Email); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, seller); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update seller")
	}
	return FromModel(seller), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	deposits, err := s.repo.CountDeposits(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count seller deposits")
	}
	if deposits > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "ce vendeur possède encore des dépôts").
			WithDetails(map[string]any{"deposits": deposits})
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if pkgdb.IsForeignKeyViolation(err) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "ce vendeur est encore référencé")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete seller")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Seller, error) {
	seller, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.NotFound("vendeur")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller")
	}
	return seller, nil
}

func validateIdentity(name, email string) error {
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "le nom du vendeur est requis")
	}
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "l'email du vendeur est requis")
	}
	if !validation.Email(email) {
		return pkgerrors.New(pkgerrors.CodeValidation, "email invalide")
	}
	return nil
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
