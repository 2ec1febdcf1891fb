package buyers

import (
	"context"
	"strings"

	"github.com/angelmondragon/depotvente-backend/internal/repo"
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes buyer persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, buyer *models.Buyer) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Buyer, error)
	List(ctx context.Context, search string) ([]models.Buyer, error)
	Update(ctx context.Context, buyer *models.Buyer) error
	Delete(ctx context.Context, id uuid.UUID) error
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

func (r *repository) Create(ctx context.Context, buyer *models.Buyer) error {
	return r.DB(ctx).Create(buyer).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Buyer, error) {
	return repo.ByID[models.Buyer](ctx, r.Base, id)
}

func (r *repository) List(ctx context.Context, search string) ([]models.Buyer, error) {
	query := r.DB(ctx).Model(&models.Buyer{})
	if term := strings.ToLower(strings.TrimSpace(search)); term != "" {
		like := "%" + term + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(COALESCE(email, '')) LIKE ?", like, like)
	}
	var buyers []models.Buyer
	if err := query.Order("name ASC, id ASC").Find(&buyers).Error; err != nil {
		return nil, err
	}
	return buyers, nil
}

func (r *repository) Update(ctx context.Context, buyer *models.Buyer) error {
	return r.DB(ctx).Save(buyer).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.DB(ctx).Delete(&models.Buyer{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
