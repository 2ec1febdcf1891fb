package ledger

import (
	"context"
	"fmt"

	"github.com/angelmondragon/depotvente-backend/internal/deposits"
	"github.com/angelmondragon/depotvente-backend/internal/sales"
	"github.com/angelmondragon/depotvente-backend/internal/sellers"
	"github.com/angelmondragon/depotvente-backend/internal/sessions"
	"github.com/angelmondragon/depotvente-backend/internal/stocks"
	pkgdb "github.com/angelmondragon/depotvente-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Dataset is a consistent snapshot of one session's books: who deposited
// what, what is left and what was sold.
type Dataset struct {
	Session  types.Session
	Sellers  []types.Seller
	Deposits []types.Deposit
	Stocks   []types.Stock
	Sales    []types.Sale
}

// Service loads session datasets for finance and statistics.
type Service interface {
	Load(ctx context.Context, sessionID uuid.UUID) (*Dataset, error)
}

type service struct {
	repo Repository
}

// NewService wires a ledger service. Reads run inside one transaction so the
// dataset does not mix rows from before and after a concurrent sale.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Load(ctx context.Context, sessionID uuid.UUID) (*Dataset, error) {
	if sessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "la session est requise")
	}
	out := &Dataset{}
	err := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		session, err := repo.FindSession(ctx, sessionID)
		if err != nil {
			return err
		}
		out.Session = *sessions.FromModel(session)

		sellerRows, err := repo.ListSellers(ctx, sessionID)
		if err != nil {
			return err
		}
		out.Sellers = make([]types.Seller, 0, len(sellerRows))
		for i := range sellerRows {
			out.Sellers = append(out.Sellers, *sellers.FromModel(&sellerRows[i]))
		}

		depositRows, err := repo.ListDeposits(ctx, sessionID)
		if err != nil {
			return err
		}
		out.Deposits = make([]types.Deposit, 0, len(depositRows))
		for i := range depositRows {
			out.Deposits = append(out.Deposits, *deposits.FromModel(&depositRows[i]))
		}

		stockRows, err := repo.ListStocks(ctx, sessionID)
		if err != nil {
			return err
		}
		out.Stocks = make([]types.Stock, 0, len(stockRows))
		for i := range stockRows {
			out.Stocks = append(out.Stocks, *stocks.FromModel(&stockRows[i]))
		}

		saleRows, err := repo.ListSales(ctx, sessionID)
		if err != nil {
			return err
		}
		out.Sales = make([]types.Sale, 0, len(saleRows))
		for i := range saleRows {
			out.Sales = append(out.Sales, *sales.FromModel(&saleRows[i]))
		}
		return nil
	})
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.NotFound("session")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session dataset")
	}
	return out, nil
}

// Seller returns the seller with the given id when it took part in the session.
func (d *Dataset) Seller(id uuid.UUID) (types.Seller, bool) {
	for _, seller := range d.Sellers {
		if seller.ID == id {
			return seller, true
		}
	}
	return types.Seller{}, false
}
