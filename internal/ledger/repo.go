package ledger

import (
	"context"

	"github.com/angelmondragon/depotvente-backend/internal/repo"
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads every row that takes part in a session's books.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	FindSession(ctx context.Context, id uuid.UUID) (*models.Session, error)
	ListSellers(ctx context.Context, sessionID uuid.UUID) ([]models.Seller, error)
	ListDeposits(ctx context.Context, sessionID uuid.UUID) ([]models.Deposit, error)
	ListStocks(ctx context.Context, sessionID uuid.UUID) ([]models.Stock, error)
	ListSales(ctx context.Context, sessionID uuid.UUID) ([]models.Sale, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Base.With(tx)}
}

func (r *repository) FindSession(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	return repo.ByID[models.Session](ctx, r.Base, id)
}

// ListSellers returns the sellers holding at least one deposit in the session.
func (r *repository) ListSellers(ctx context.Context, sessionID uuid.UUID) ([]models.Seller, error) {
	var sellers []models.Seller
	err := r.DB(ctx).
		Where("id IN (?)", r.DB(ctx).Model(&models.Deposit{}).Select("seller_id").Where("session_id = ?", sessionID)).
		Order("name ASC, id ASC").
		Find(&sellers).Error
	if err != nil {
		return nil, err
	}
	return sellers, nil
}

func (r *repository) ListDeposits(ctx context.Context, sessionID uuid.UUID) ([]models.Deposit, error) {
	var deposits []models.Deposit
	err := r.DB(ctx).
		Preload("Games").
		Preload("Games.Game").
		Where("session_id = ?", sessionID).
		Order("deposit_date ASC, id ASC").
		Find(&deposits).Error
	if err != nil {
		return nil, err
	}
	return deposits, nil
}

func (r *repository) ListStocks(ctx context.Context, sessionID uuid.UUID) ([]models.Stock, error) {
	var stocks []models.Stock
	err := r.DB(ctx).
		Preload("Game").
		Preload("Seller").
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&stocks).Error
	if err != nil {
		return nil, err
	}
	return stocks, nil
}

func (r *repository) ListSales(ctx context.Context, sessionID uuid.UUID) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.DB(ctx).
		Preload("Operation").
		Preload("Details").
		Preload("Details.DepositGame").
		Preload("Details.DepositGame.Game").
		Where("session_id = ?", sessionID).
		Order("sale_date ASC, id ASC").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}
