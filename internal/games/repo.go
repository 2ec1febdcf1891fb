package games

import (
	"context"
	"strings"

	"github.com/angelmondragon/depotvente-backend/internal/repo"
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes game catalogue persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Create(ctx context.Context, game *models.Game) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Game, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Game, error)
	FindByNamePublisher(ctx context.Context, name, publisher string) (*models.Game, error)
	List(ctx context.Context, search string) ([]models.Game, error)
	Update(ctx context.Context, game *models.Game) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountDepositGames(ctx context.Context, id uuid.UUID) (int64, error)
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

func (r *repository) Create(ctx context.Context, game *models.Game) error {
	return r.DB(ctx).Create(game).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	return repo.ByID[models.Game](ctx, r.Base, id)
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Game, error) {
	out := make(map[uuid.UUID]models.Game, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Game
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// FindByNamePublisher matches case-insensitively on the catalogue key.
func (r *repository) FindByNamePublisher(ctx context.Context, name, publisher string) (*models.Game, error) {
	var game models.Game
	err := r.DB(ctx).
		Where("LOWER(name) = ? AND LOWER(publisher) = ?", strings.ToLower(name), strings.ToLower(publisher)).
		First(&game).Error
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (r *repository) List(ctx context.Context, search string) ([]models.Game, error) {
	query := r.DB(ctx).Model(&models.Game{})
	if term := strings.ToLower(strings.TrimSpace(search)); term != "" {
		like := "%" + term + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(publisher) LIKE ?", like, like)
	}
	var rows []models.Game
	if err := query.Order("name ASC, publisher ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, game *models.Game) error {
	return r.DB(ctx).Save(game).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.DB(ctx).Delete(&models.Game{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CountDepositGames(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.DepositGame{}).Where("game_id = ?", id).Count(&count).Error
	return count, err
}
