package buyers

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

// Service exposes buyer operations.
type Service interface {
	List(ctx context.Context, search string) ([]types.Buyer, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Buyer, error)
	Create(ctx context.Context, input CreateBuyerInput) (*types.Buyer, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateBuyerInput) (*types.Buyer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("buyers repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, search string) ([]types.Buyer, error) {
	rows, err := s.repo.List(ctx, search)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buyers")
	}
	out := make([]types.Buyer, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*types.Buyer, error) {
	buyer, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(buyer), nil
}

func (s *service) Create(ctx context.Context, input CreateBuyerInput) (*types.Buyer, error) {
	buyer := &models.Buyer{
		Name:    strings.TrimSpace(input.Name),
		Email:   trimOptional(input.Email),
		Phone:   trimOptional(input.Phone),
		Address: trimOptional(input.Address),
	}
	if err := validate(buyer); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, buyer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create buyer")
	}
	return FromModel(buyer), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateBuyerInput) (*types.Buyer, error) {
	buyer, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		buyer.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		buyer.Email = trimOptional(input.Email)
	}
	if input.Phone != nil {
		buyer.Phone = trimOptional(input.Phone)
	}
	if input.Address != nil {
		buyer.Address = trimOptional(input.Address)
	}
	if err := validate(buyer); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, buyer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update buyer")
	}
	return FromModel(buyer), nil
}

// Delete removes the buyer; past sales keep their rows with a null buyer.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if pkgdb.IsNotFound(err) {
			return pkgerrors.NotFound("acheteur")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete buyer")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Buyer, error) {
	buyer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.NotFound("acheteur")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load buyer")
	}
	return buyer, nil
}

func validate(buyer *models.Buyer) error {
	if buyer.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "le nom de l'acheteur est requis")
	}
	if buyer.Email != nil {
		if !validation.Email(*buyer.Email) {
			return pkgerrors.New(pkgerrors.CodeValidation, "email invalide")
		}
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
