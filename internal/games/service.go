package games

import (
	"context"
	"fmt"
	"strings"

	pkgdb "github.com/angelmondragon/depotvente-backend/pkg/db"
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service exposes catalogue operations.
type Service interface {
	List(ctx context.Context, search string) ([]types.Game, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Game, error)
	Create(ctx context.Context, input CreateGameInput) (*types.Game, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateGameInput) (*types.Game, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("games repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, search string) ([]types.Game, error) {
	rows, err := s.repo.List(ctx, search)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list games")
	}
	out := make([]types.Game, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*types.Game, error) {
	game, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(game), nil
}

func (s *service) Create(ctx context.Context, input CreateGameInput) (*types.Game, error) {
	game := &models.Game{
		Name:        strings.TrimSpace(input.Name),
		Publisher:   strings.TrimSpace(input.Publisher),
		Price:       input.Price.Round(2),
		Picture:     trimOptional(input.Picture),
		Description: trimOptional(input.Description),
	}
	if err := Validate(game); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, game); err != nil {
		return nil, mapWriteError(err, "create game")
	}
	return FromModel(game), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateGameInput) (*types.Game, error) {
	game, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		game.Name = strings.TrimSpace(*input.Name)
	}
	if input.Publisher != nil {
		game.Publisher = strings.TrimSpace(*input.Publisher)
	}
	if input.Price != nil {
		game.Price = input.Price.Round(2)
	}
	if input.Picture != nil {
		game.Picture = trimOptional(input.Picture)
	}
	if input.Description != nil {
		game.Description = trimOptional(input.Description)
	}
	if err := Validate(game); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, game); err != nil {
		return nil, mapWriteError(err, "update game")
	}
	return FromModel(game), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	used, err := s.repo.CountDepositGames(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count deposit games")
	}
	if used > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "ce jeu figure dans des dépôts")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapWriteError(err, "delete game")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	game, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.NotFound("jeu")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load game")
	}
	return game, nil
}

// Validate checks the required catalogue fields.
func Validate(game *models.Game) error {
	if game.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "le nom du jeu est requis")
	}
	if game.Publisher == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "l'éditeur du jeu est requis")
	}
	if game.Price.LessThan(decimal.Zero) {
		return pkgerrors.New(pkgerrors.CodeValidation, "le prix doit être positif")
	}
	return nil
}

func mapWriteError(err error, step string) error {
	switch {
	case pkgdb.IsNotFound(err):
		return pkgerrors.NotFound("jeu")
	case pkgdb.IsUniqueViolation(err, ""):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "un jeu avec ce nom et cet éditeur existe déjà")
	case pkgdb.IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "ce jeu est encore référencé")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, step)
	}
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
