package statistics

import (
	"context"
	"fmt"

	"github.com/angelmondragon/depotvente-backend/internal/ledger"
	"github.com/angelmondragon/depotvente-backend/internal/reporting"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/google/uuid"
)

// DefaultTopGames is the top-games length when the caller gives none.
const DefaultTopGames = 5

// Service serves the session dashboard aggregates.
type Service interface {
	VendorShares(ctx context.Context, sessionID uuid.UUID) ([]types.VendorShare, error)
	SalesOverTime(ctx context.Context, sessionID uuid.UUID) ([]types.SalesPoint, error)
	Stock(ctx context.Context, sessionID uuid.UUID) (*types.StockDonut, error)
	TopGames(ctx context.Context, sessionID uuid.UUID, limit int) ([]types.TopGame, error)
	VendorStats(ctx context.Context, sessionID uuid.UUID) ([]types.VendorStats, error)
	Summary(ctx context.Context, sessionID uuid.UUID) (*types.SessionSummary, error)
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

func (s *service) VendorShares(ctx context.Context, sessionID uuid.UUID) ([]types.VendorShare, error) {
	data, err := s.ledger.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return nonNil(reporting.VendorShares(data.Sales, data.Sellers)), nil
}

func (s *service) SalesOverTime(ctx context.Context, sessionID uuid.UUID) ([]types.SalesPoint, error) {
	data, err := s.ledger.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return reporting.SalesOverTime(data.Sales), nil
}

func (s *service) Stock(ctx context.Context, sessionID uuid.UUID) (*types.StockDonut, error) {
	data, err := s.ledger.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	donut := reporting.StockCounts(data.Stocks)
	return &donut, nil
}

func (s *service) TopGames(ctx context.Context, sessionID uuid.UUID, limit int) ([]types.TopGame, error) {
	if limit <= 0 {
		limit = DefaultTopGames
	}
	data, err := s.ledger.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return nonNil(reporting.TopGames(data.Sales, limit)), nil
}

func (s *service) VendorStats(ctx context.Context, sessionID uuid.UUID) ([]types.VendorStats, error) {
	data, err := s.ledger.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return reporting.VendorStatistics(data.Sellers, data.Stocks, data.Sales), nil
}

func (s *service) Summary(ctx context.Context, sessionID uuid.UUID) (*types.SessionSummary, error) {
	data, err := s.ledger.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	summary := reporting.Summary(sessionID, data.Sellers, data.Deposits, data.Sales)
	return &summary, nil
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
