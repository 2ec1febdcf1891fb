package stocks

import (
	"context"
	"errors"
	"fmt"

	pkgdb "github.com/angelmondragon/depotvente-backend/pkg/db"
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes stock operations.
type Service interface {
	List(ctx context.Context, filter Filter) ([]types.Stock, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Stock, error)
	Upsert(ctx context.Context, input UpsertStockInput) (*types.Stock, bool, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateStockInput) (*types.Stock, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stocks repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]types.Stock, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stocks")
	}
	out := make([]types.Stock, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*types.Stock, error) {
	stock, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(stock), nil
}

// Upsert creates the row for a new key, or adds the quantities to the
// existing one. The boolean reports whether a row was created.
func (s *service) Upsert(ctx context.Context, input UpsertStockInput) (*types.Stock, bool, error) {
	return s.upsert(ctx, input, true)
}

func (s *service) upsert(ctx context.Context, input UpsertStockInput, retry bool) (*types.Stock, bool, error) {
	if input.SessionID == uuid.Nil || input.SellerID == uuid.Nil || input.GameID == uuid.Nil {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "session, vendeur et jeu sont requis")
	}
	if err := checkQuantities(input.InitialQuantity, input.CurrentQuantity); err != nil {
		return nil, false, err
	}

	key := Key{SessionID: input.SessionID, SellerID: input.SellerID, GameID: input.GameID}
	var (
		id      uuid.UUID
		created bool
	)
	err := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		existing, err := txRepo.FindByKey(ctx, key)
		switch {
		case err == nil:
			id = existing.ID
			return txRepo.AddQuantities(ctx, existing.ID, input.InitialQuantity, input.CurrentQuantity)
		case !pkgdb.IsNotFound(err):
			return err
		}

		stock := &models.Stock{
			SessionID:       input.SessionID,
			SellerID:        input.SellerID,
			GameID:          input.GameID,
			InitialQuantity: input.InitialQuantity,
			CurrentQuantity: input.CurrentQuantity,
		}
		if err := txRepo.Create(ctx, stock); err != nil {
			return err
		}
		id = stock.ID
		created = true
		return nil
	})
	if err != nil {
		if retry && pkgdb.IsUniqueViolation(err, "") {
			// lost an insert race on the same key; the row exists now
			return s.upsert(ctx, input, false)
		}
		return nil, false, mapWriteError(err, "upsert stock")
	}

	stock, err := s.load(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return FromModel(stock), created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateStockInput) (*types.Stock, error) {
	stock, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.InitialQuantity != nil {
		stock.InitialQuantity = *input.InitialQuantity
	}
	if input.CurrentQuantity != nil {
		stock.CurrentQuantity = *input.CurrentQuantity
	}
	if err := checkQuantities(stock.InitialQuantity, stock.CurrentQuantity); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, stock); err != nil {
		return nil, mapWriteError(err, "update stock")
	}
	return FromModel(stock), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapWriteError(err, "delete stock")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Stock, error) {
	stock, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapWriteError(err, "load stock")
	}
	return stock, nil
}

func checkQuantities(initial, current int) error {
	if initial < 0 || current < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "les quantités doivent être positives")
	}
	if current > initial {
		return pkgerrors.New(pkgerrors.CodeValidation, "la quantité courante dépasse la quantité initiale")
	}
	return nil
}

func mapWriteError(err error, step string) error {
	var typed *pkgerrors.Error
	switch {
	case errors.As(err, &typed):
		return typed
	case pkgdb.IsNotFound(err):
		return pkgerrors.NotFound("stock")
	case pkgdb.IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "session, vendeur ou jeu inconnu")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, step)
	}
}
