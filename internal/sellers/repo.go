package sellers

import (
	"context"
	"strings"

	"github.com/angelmondragon/depotvente-backend/internal/repo"
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes seller persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, seller *models.Seller) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Seller, error)
	List(ctx context.Context, filter ListFilter) ([]models.Seller, error)
	Update(ctx context.Context, seller *models.Seller) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountDeposits(ctx context.Context, id uuid.UUID) (int64, error)
}

// ListFilter narrows seller listings. SessionID keeps sellers holding at
// least one deposit in that session.
type ListFilter struct {
	Search    string
	SessionID *uuid.UUID
}

type repository struct {
	repo.Base
}

// NewRepository returns a sellers repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Base.With(tx)}
}

func (r *repository) Create(ctx context.Context, seller *models.Seller) error {
	return r.DB(ctx).Create(seller).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Seller, error) {
	return repo.ByID[models.Seller](ctx, r.Base, id)
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.Seller, error) {
	query := r.DB(ctx).Model(&models.Seller{})
	if term := strings.ToLower(strings.TrimSpace(filter.Search)); term != "" {
		like := "%" + term + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	if filter.SessionID != nil {
		query = query.Where("id IN (?)", r.DB(ctx).Model(&models.Deposit{}).
			Select("seller_id").
			Where("session_id = ?", *filter.SessionID))
	}

	var sellers []models.Seller
	if err := query.Order("name ASC, id ASC").Find(&sellers).Error; err != nil {
		return nil, err
	}
	return sellers, nil
}

func (r *repository) Update(ctx context.Context, seller *models.Seller) error {
	return r.DB(ctx).Save(seller).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.DB(ctx).Delete(&models.Seller{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CountDeposits(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Deposit{}).Where("seller_id = ?", id).Count(&count).Error
	return count, err
}
