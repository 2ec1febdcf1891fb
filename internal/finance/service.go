package finance

import (
	"context"
	"fmt"

	"github.com/angelmondragon/depotvente-backend/internal/ledger"
	"github.com/angelmondragon/depotvente-backend/internal/reporting"
	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/google/uuid"
)

// Service computes session balances. Cancelled sales never count.
type Service interface {
	SessionBalance(ctx context.Context, sessionID uuid.UUID) (*types.Balance, error)
	SellerBalances(ctx context.Context, sessionID uuid.UUID) ([]types.Balance, error)
	SellerBalance(ctx context.Context, sessionID, sellerID uuid.UUID) (*types.Balance, error)
}

type datasetLoader interface {
	Load(ctx context.Context, sessionID uuid.UUID) (*ledger.Dataset, error)
}

type service struct {
	ledger datasetLoader
}

func NewService(loader datasetLoader) (Service, error) {
	if loader == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	return &service{ledger: loader}, nil
}

func (s *service) SessionBalance(ctx context.Context, sessionID uuid.UUID) (*types.Balance, error) {
	data, err := s.ledger.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	balance := reporting.SessionBalance(sessionID, data.Deposits, data.Sales)
	return &balance, nil
}

func (s *service) SellerBalances(ctx context.Context, sessionID uuid.UUID) ([]types.Balance, error) {
	data, err := s.ledger.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]types.Balance, 0, len(data.Sellers))
	for _, seller := range data.Sellers {
		out = append(out, reporting.SellerBalance(sessionID, seller.ID, data.Session.Commission, data.Deposits, data.Sales))
	}
	return out, nil
}

func (s *service) SellerBalance(ctx context.Context, sessionID, sellerID uuid.UUID) (*types.Balance, error) {
	data, err := s.ledger.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, ok := data.Seller(sellerID); !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ce vendeur n'a pas de dépôt dans cette session")
	}
	balance := reporting.SellerBalance(sessionID, sellerID, data.Session.Commission, data.Deposits, data.Sales)
	return &balance, nil
}
