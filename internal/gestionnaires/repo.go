package gestionnaires

import (
	"context"
	"time"

	"github.com/angelmondragon/depotvente-backend/internal/repo"
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	"github.com/angelmondragon/depotvente-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes back-office account persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, g *models.Gestionnaire) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Gestionnaire, error)
	FindByEmail(ctx context.Context, email string) (*models.Gestionnaire, error)
	List(ctx context.Context) ([]models.Gestionnaire, error)
	Update(ctx context.Context, g *models.Gestionnaire) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByRole(ctx context.Context, role enums.Role) (int64, error)
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

func (r *repository) Create(ctx context.Context, g *models.Gestionnaire) error {
	return r.DB(ctx).Create(g).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Gestionnaire, error) {
	return repo.ByID[models.Gestionnaire](ctx, r.Base, id)
}

// FindByEmail expects an already lower-cased email.
func (r *repository) FindByEmail(ctx context.Context, email string) (*models.Gestionnaire, error) {
	var g models.Gestionnaire
	if err := r.DB(ctx).Where("email = ?", email).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *repository) List(ctx context.Context) ([]models.Gestionnaire, error) {
	var rows []models.Gestionnaire
	if err := r.DB(ctx).Order("username ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, g *models.Gestionnaire) error {
	return r.DB(ctx).Model(g).
		Select("email", "username", "password_hash", "role", "updated_at").
		Updates(g).Error
}

func (r *repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.DB(ctx).
		Model(&models.Gestionnaire{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.DB(ctx).Delete(&models.Gestionnaire{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CountByRole(ctx context.Context, role enums.Role) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Gestionnaire{}).Where("role = ?", role).Count(&count).Error
	return count, err
}
