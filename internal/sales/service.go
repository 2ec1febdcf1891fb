package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/depotvente-backend/internal/stocks"
	pkgdb "github.com/angelmondragon/depotvente-backend/pkg/db"
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	"github.com/angelmondragon/depotvente-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/angelmondragon/depotvente-backend/pkg/pagination"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

// Service exposes sales, sale details and sales operations.
type Service interface {
	List(ctx context.Context, params ListParams) (*types.Page[types.Sale], error)
	Get(ctx context.Context, id uuid.UUID) (*types.Sale, error)
	Create(ctx context.Context, input CreateSaleInput) (*types.Sale, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateSaleInput) (*types.Sale, error)
	Delete(ctx context.Context, id uuid.UUID) error

	CreateDetail(ctx context.Context, input CreateSaleDetailInput) (*types.SaleDetail, error)
	ListDetails(ctx context.Context, filter DetailFilter) ([]types.SaleDetail, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*types.SaleDetail, error)

	ListOperations(ctx context.Context) ([]types.SalesOperation, error)
	GetOperation(ctx context.Context, saleID uuid.UUID) (*types.SalesOperation, error)
	UpdateOperation(ctx context.Context, saleID uuid.UUID, input UpdateOperationInput) (*types.SalesOperation, error)
}

type sessionLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
}

type buyerLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Buyer, error)
}

type depositGameLoader interface {
	FindGame(ctx context.Context, id uuid.UUID) (*models.DepositGame, error)
}

type ServiceParams struct {
	Repo         Repository
	Sessions     sessionLoader
	Buyers       buyerLoader
	DepositGames depositGameLoader
	Stocks       stocks.Repository
	Now          func() time.Time
}

type service struct {
	repo         Repository
	sessions     sessionLoader
	buyers       buyerLoader
	depositGames depositGameLoader
	stocks       stocks.Repository
	now          func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("sessions repository required")
	}
	if params.Buyers == nil {
		return nil, fmt.Errorf("buyers repository required")
	}
	if params.DepositGames == nil {
		return nil, fmt.Errorf("deposit games repository required")
	}
	if params.Stocks == nil {
		return nil, fmt.Errorf("stocks repository required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:         params.Repo,
		sessions:     params.Sessions,
		buyers:       params.Buyers,
		depositGames: params.DepositGames,
		stocks:       params.Stocks,
		now:          now,
	}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*types.Page[types.Sale], error) {
	cursor, err := pagination.Decode(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "curseur invalide")
	}
	rows, err := s.repo.List(ctx, ListFilter{SessionID: params.SessionID, Cursor: cursor, Limit: params.Limit})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales")
	}
	page, next := pagination.Trim(pagination.Sales, rows, params.Limit, func(row models.Sale) pagination.Cursor {
		return pagination.Cursor{At: row.SaleDate, ID: row.ID}
	})
	out := &types.Page[types.Sale]{Items: make([]types.Sale, 0, len(page)), NextCursor: next}
	for i := range page {
		out.Items = append(out.Items, *FromModel(&page[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*types.Sale, error) {
	sale, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(sale), nil
}

// Create opens a pending sale with a zero-commission operation.
func (s *service) Create(ctx context.Context, input CreateSaleInput) (*types.Sale, error) {
	if input.SessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "la session est requise")
	}
	session, err := s.sessions.FindByID(ctx, input.SessionID)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "session introuvable")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	if !session.Status {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "la session n'est pas active")
	}
	if input.BuyerID != nil {
		if err := s.checkBuyer(ctx, *input.BuyerID); err != nil {
			return nil, err
		}
	}

	saleDate := s.now().UTC()
	if input.SaleDate != nil {
		saleDate = input.SaleDate.UTC()
	}
	sale := &models.Sale{
		BuyerID:    input.BuyerID,
		SessionID:  input.SessionID,
		SaleDate:   saleDate,
		SaleStatus: enums.SaleStatusPending,
		Operation: &models.SalesOperation{
			Commission: decimal.Zero,
			SaleDate:   saleDate,
			SaleStatus: enums.SaleStatusPending,
		},
	}
	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, sale)
	})
	if err != nil {
		return nil, mapWriteError(err, "create sale")
	}

	created, err := s.load(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	return FromModel(created), nil
}

// Update edits the buyer and date and applies status transitions.
// Cancelling a sale puts its copies back in stock.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateSaleInput) (*types.Sale, error) {
	sale, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := sale.SaleStatus

	if input.BuyerID.Set && input.BuyerID.Value != nil {
		if err := s.checkBuyer(ctx, *input.BuyerID.Value); err != nil {
			return nil, err
		}
	}
	input.BuyerID.Apply(&sale.BuyerID)
	if input.SaleDate != nil {
		sale.SaleDate = input.SaleDate.UTC()
	}
	if input.SaleStatus != nil {
		if err := checkTransition(previous, *input.SaleStatus); err != nil {
			return nil, err
		}
		sale.SaleStatus = *input.SaleStatus
	}

	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Update(ctx, sale); err != nil {
			return err
		}
		if err := txRepo.SyncOperation(ctx, sale.ID, sale.SaleStatus, sale.SaleDate); err != nil {
			return err
		}
		if previous != enums.SaleStatusCancelled && sale.SaleStatus == enums.SaleStatusCancelled {
			return s.restoreStock(ctx, tx, sale)
		}
		return nil
	})
	if err != nil {
		return nil, mapWriteError(err, "update sale")
	}

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

// Delete removes the sale, its details and its operation. Copies of a sale
// that was not cancelled go back in stock.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	sale, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		if sale.SaleStatus != enums.SaleStatusCancelled {
			if err := s.restoreStock(ctx, tx, sale); err != nil {
				return err
			}
		}
		return s.repo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return mapWriteError(err, "delete sale")
	}
	return nil
}

// CreateDetail adds a line to a pending sale. The detail insert, the stock
// decrement and the commission increment share one transaction.
func (s *service) CreateDetail(ctx context.Context, input CreateSaleDetailInput) (*types.SaleDetail, error) {
	if input.SaleID == uuid.Nil || input.SellerID == uuid.Nil || input.DepositGameID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vente, vendeur et jeu déposé sont requis")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "la quantité doit être au moins 1")
	}

	sale, err := s.repo.FindByID(ctx, input.SaleID)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "vente introuvable")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale")
	}
	if sale.SaleStatus != enums.SaleStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "la vente n'est plus en cours")
	}
	depositGame, err := s.depositGames.FindGame(ctx, input.DepositGameID)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "jeu déposé introuvable")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load deposit game")
	}
	if depositGame.Deposit == nil || depositGame.Deposit.SellerID != input.SellerID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ce jeu n'a pas été déposé par ce vendeur")
	}
	if depositGame.Deposit.SessionID != sale.SessionID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ce jeu n'a pas été déposé dans la session de la vente")
	}
	session, err := s.sessions.FindByID(ctx, sale.SessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}

	commission := LineCommission(depositGame.Price, input.Quantity, session.Commission)
	detail := &models.SaleDetail{
		SaleID:        input.SaleID,
		SellerID:      input.SellerID,
		DepositGameID: input.DepositGameID,
		Quantity:      input.Quantity,
	}
	key := stocks.Key{SessionID: sale.SessionID, SellerID: input.SellerID, GameID: depositGame.GameID}

	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		taken, err := s.stocks.WithTx(tx).Take(ctx, key, input.Quantity)
		if err != nil {
			return err
		}
		if !taken {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantité supérieure au stock disponible")
		}
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.CreateDetail(ctx, detail); err != nil {
			return err
		}
		return txRepo.AddCommission(ctx, input.SaleID, commission)
	})
	if err != nil {
		return nil, mapWriteError(err, "create sale detail")
	}

	created, err := s.repo.FindDetail(ctx, detail.ID)
	if err != nil {
		return nil, mapWriteError(err, "load sale detail")
	}
	return DetailFromModel(created), nil
}

func (s *service) ListDetails(ctx context.Context, filter DetailFilter) ([]types.SaleDetail, error) {
	rows, err := s.repo.ListDetails(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sale details")
	}
	out := make([]types.SaleDetail, 0, len(rows))
	for i := range rows {
		out = append(out, *DetailFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) GetDetail(ctx context.Context, id uuid.UUID) (*types.SaleDetail, error) {
	detail, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.NotFound("détail de vente")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale detail")
	}
	return DetailFromModel(detail), nil
}

func (s *service) ListOperations(ctx context.Context) ([]types.SalesOperation, error) {
	rows, err := s.repo.ListOperations(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales operations")
	}
	out := make([]types.SalesOperation, 0, len(rows))
	for i := range rows {
		out = append(out, *OperationFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) GetOperation(ctx context.Context, saleID uuid.UUID) (*types.SalesOperation, error) {
	op, err := s.repo.FindOperation(ctx, saleID)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.NotFound("opération de vente")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sales operation")
	}
	return OperationFromModel(op), nil
}

// UpdateOperation adjusts the commission. A status change is applied to the
// sale itself so both rows stay in step.
func (s *service) UpdateOperation(ctx context.Context, saleID uuid.UUID, input UpdateOperationInput) (*types.SalesOperation, error) {
	if input.SaleStatus != nil {
		if _, err := s.Update(ctx, saleID, UpdateSaleInput{SaleStatus: input.SaleStatus}); err != nil {
			return nil, err
		}
	}
	op, err := s.repo.FindOperation(ctx, saleID)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.NotFound("opération de vente")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sales operation")
	}
	if input.Commission != nil {
		if input.Commission.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "la commission doit être positive")
		}
		op.Commission = input.Commission.Round(2)
		if err := s.repo.UpdateOperation(ctx, op); err != nil {
			return nil, mapWriteError(err, "update sales operation")
		}
	}
	return OperationFromModel(op), nil
}

// LineCommission is the commission owed on one sale line: quantity x unit
// price x commission %, rounded to cents.
func LineCommission(unitPrice decimal.Decimal, quantity int, commissionPct decimal.Decimal) decimal.Decimal {
	total := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	return total.Mul(commissionPct).Div(hundred).Round(2)
}

func (s *service) restoreStock(ctx context.Context, tx *gorm.DB, sale *models.Sale) error {
	stockRepo := s.stocks.WithTx(tx)
	for _, detail := range sale.Details {
		if detail.DepositGame == nil {
			return fmt.Errorf("sale detail %s: deposit game not loaded", detail.ID)
		}
		key := stocks.Key{SessionID: sale.SessionID, SellerID: detail.SellerID, GameID: detail.DepositGame.GameID}
		if err := stockRepo.Restore(ctx, key, detail.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) checkBuyer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.buyers.FindByID(ctx, id); err != nil {
		if pkgdb.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeValidation, "acheteur introuvable")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load buyer")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapWriteError(err, "load sale")
	}
	return sale, nil
}

func checkTransition(from, to enums.SaleStatus) error {
	if !to.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("statut de vente %q inconnu", to))
	}
	if !from.CanTransitionTo(to) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("transition %q vers %q impossible", from, to))
	}
	return nil
}

func mapWriteError(err error, step string) error {
	var typed *pkgerrors.Error
	switch {
	case errors.As(err, &typed):
		return typed
	case pkgdb.IsNotFound(err):
		return pkgerrors.NotFound("vente")
	case pkgdb.IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "référence inconnue")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, step)
	}
}
