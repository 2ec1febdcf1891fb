package deposits

import (
	"context"

	"github.com/angelmondragon/depotvente-backend/internal/repo"
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Filter narrows deposit and deposit-game listings.
type Filter struct {
	SessionID *uuid.UUID
	SellerID  *uuid.UUID
}

// Repository exposes deposit persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Create(ctx context.Context, deposit *models.Deposit) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Deposit, error)
	List(ctx context.Context, filter Filter) ([]models.Deposit, error)
	Update(ctx context.Context, deposit *models.Deposit) error
	UpdateGameFees(ctx context.Context, id uuid.UUID, fees decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountSaleDetails(ctx context.Context, depositID uuid.UUID) (int64, error)
	ReleaseStock(ctx context.Context, deposit *models.Deposit, gameID uuid.UUID, copies int) error
	ListGames(ctx context.Context, filter Filter) ([]models.DepositGame, error)
	FindGame(ctx context.Context, id uuid.UUID) (*models.DepositGame, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Base.With(tx)}
}

// Create inserts the deposit and its games; callers wrap it in a transaction.
func (r *repository) Create(ctx context.Context, deposit *models.Deposit) error {
	return r.DB(ctx).Omit("Seller").Create(deposit).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Deposit, error) {
	var deposit models.Deposit
	err := r.DB(ctx).
		Preload("Seller").
		Preload("Games", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("Games.Game").
		First(&deposit, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &deposit, nil
}

func (r *repository) List(ctx context.Context, filter Filter) ([]models.Deposit, error) {
	query := r.DB(ctx).Model(&models.Deposit{}).
		Preload("Games", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("Games.Game")
	if filter.SessionID != nil {
		query = query.Where("session_id = ?", *filter.SessionID)
	}
	if filter.SellerID != nil {
		query = query.Where("seller_id = ?", *filter.SellerID)
	}
	var rows []models.Deposit
	if err := query.Order("deposit_date DESC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, deposit *models.Deposit) error {
	return r.DB(ctx).Model(deposit).
		Select("deposit_date", "discount_fees", "tag", "updated_at").
		Updates(deposit).Error
}

func (r *repository) UpdateGameFees(ctx context.Context, id uuid.UUID, fees decimal.Decimal) error {
	return r.DB(ctx).Model(&models.DepositGame{}).Where("id = ?", id).Update("fees", fees).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.DB(ctx)
	if err := db.Where("deposit_id = ?", id).Delete(&models.DepositGame{}).Error; err != nil {
		return err
	}
	result := db.Delete(&models.Deposit{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReleaseStock takes copies back out of the (session, seller, game) stock row
// of deposit. Both quantities stop at zero; a missing row is not an error.
func (r *repository) ReleaseStock(ctx context.Context, deposit *models.Deposit, gameID uuid.UUID, copies int) error {
	if copies <= 0 {
		return nil
	}
	return r.DB(ctx).Model(&models.Stock{}).
		Where("session_id = ? AND seller_id = ? AND game_id = ?", deposit.SessionID, deposit.SellerID, gameID).
		Updates(map[string]any{
			"initial_quantity": gorm.Expr("CASE WHEN initial_quantity > ? THEN initial_quantity - ? ELSE 0 END", copies, copies),
			"current_quantity": gorm.Expr("CASE WHEN current_quantity > ? THEN current_quantity - ? ELSE 0 END", copies, copies),
		}).Error
}

func (r *repository) CountSaleDetails(ctx context.Context, depositID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.SaleDetail{}).
		Joins("JOIN deposit_games ON deposit_games.id = sale_details.deposit_game_id").
		Where("deposit_games.deposit_id = ?", depositID).
		Count(&count).Error
	return count, err
}

func (r *repository) ListGames(ctx context.Context, filter Filter) ([]models.DepositGame, error) {
	query := r.DB(ctx).Model(&models.DepositGame{}).
		Joins("JOIN deposits ON deposits.id = deposit_games.deposit_id").
		Preload("Game").
		Preload("Deposit")
	if filter.SessionID != nil {
		query = query.Where("deposits.session_id = ?", *filter.SessionID)
	}
	if filter.SellerID != nil {
		query = query.Where("deposits.seller_id = ?", *filter.SellerID)
	}
	var rows []models.DepositGame
	if err := query.Order("deposit_games.created_at ASC, deposit_games.id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindGame(ctx context.Context, id uuid.UUID) (*models.DepositGame, error) {
	var row models.DepositGame
	if err := r.DB(ctx).Preload("Game").Preload("Deposit").First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
