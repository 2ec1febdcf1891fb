package stocks

import (
	"context"

	"github.com/angelmondragon/depotvente-backend/internal/repo"
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Key identifies the stock row of one game deposited by one seller in a session.
type Key struct {
	SessionID uuid.UUID
	SellerID  uuid.UUID
	GameID    uuid.UUID
}

// Filter narrows stock listings; nil fields are ignored.
type Filter struct {
	SessionID *uuid.UUID
	SellerID  *uuid.UUID
	GameID    *uuid.UUID
}

// Repository exposes stock persistence. Quantity changes are applied with
// conditional updates so concurrent sales cannot drive stock below zero.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Create(ctx context.Context, stock *models.Stock) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Stock, error)
	FindByKey(ctx context.Context, key Key) (*models.Stock, error)
	List(ctx context.Context, filter Filter) ([]models.Stock, error)
	Update(ctx context.Context, stock *models.Stock) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddQuantities(ctx context.Context, id uuid.UUID, initial, current int) error
	Take(ctx context.Context, key Key, quantity int) (bool, error)
	Restore(ctx context.Context, key Key, quantity int) error
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

func (r *repository) Create(ctx context.Context, stock *models.Stock) error {
	return r.DB(ctx).Omit("Game", "Seller").Create(stock).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Stock, error) {
	return repo.ByID[models.Stock](ctx, r.Base, id, "Game", "Seller")
}

func (r *repository) FindByKey(ctx context.Context, key Key) (*models.Stock, error) {
	var stock models.Stock
	err := r.DB(ctx).
		Where("session_id = ? AND seller_id = ? AND game_id = ?", key.SessionID, key.SellerID, key.GameID).
		First(&stock).Error
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *repository) List(ctx context.Context, filter Filter) ([]models.Stock, error) {
	query := r.DB(ctx).Model(&models.Stock{}).Preload("Game").Preload("Seller")
	if filter.SessionID != nil {
		query = query.Where("session_id = ?", *filter.SessionID)
	}
	if filter.SellerID != nil {
		query = query.Where("seller_id = ?", *filter.SellerID)
	}
	if filter.GameID != nil {
		query = query.Where("game_id = ?", *filter.GameID)
	}
	var rows []models.Stock
	if err := query.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, stock *models.Stock) error {
	return r.DB(ctx).Omit("Game", "Seller").Save(stock).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.DB(ctx).Delete(&models.Stock{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) AddQuantities(ctx context.Context, id uuid.UUID, initial, current int) error {
	return r.DB(ctx).Model(&models.Stock{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"initial_quantity": gorm.Expr("initial_quantity + ?", initial),
			"current_quantity": gorm.Expr("current_quantity + ?", current),
		}).Error
}

// Take removes quantity copies when enough remain. It reports false when the
// row is missing or holds fewer copies.
func (r *repository) Take(ctx context.Context, key Key, quantity int) (bool, error) {
	result := r.DB(ctx).Model(&models.Stock{}).
		Where("session_id = ? AND seller_id = ? AND game_id = ? AND current_quantity >= ?", key.SessionID, key.SellerID, key.GameID, quantity).
		Update("current_quantity", gorm.Expr("current_quantity - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Restore puts copies back, capped at the initial quantity.
func (r *repository) Restore(ctx context.Context, key Key, quantity int) error {
	return r.DB(ctx).Model(&models.Stock{}).
		Where("session_id = ? AND seller_id = ? AND game_id = ?", key.SessionID, key.SellerID, key.GameID).
		Update("current_quantity", gorm.Expr("CASE WHEN current_quantity + ? > initial_quantity THEN initial_quantity ELSE current_quantity + ? END", quantity, quantity)).
		Error
}
