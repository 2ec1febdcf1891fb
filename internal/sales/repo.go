package sales

import (
	"context"
	"time"

	"github.com/angelmondragon/depotvente-backend/internal/repo"
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	"github.com/angelmondragon/depotvente-backend/pkg/enums"
	"github.com/angelmondragon/depotvente-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ListFilter struct {
	SessionID *uuid.UUID
	Cursor    *pagination.Cursor
	Limit     int
}

type DetailFilter struct {
	SaleID   *uuid.UUID
	SellerID *uuid.UUID
}

// Repository persists sales, their details and their operation row.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error

	Create(ctx context.Context, sale *models.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	List(ctx context.Context, filter ListFilter) ([]models.Sale, error)
	Update(ctx context.Context, sale *models.Sale) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreateDetail(ctx context.Context, detail *models.SaleDetail) error
	FindDetail(ctx context.Context, id uuid.UUID) (*models.SaleDetail, error)
	ListDetails(ctx context.Context, filter DetailFilter) ([]models.SaleDetail, error)

	FindOperation(ctx context.Context, saleID uuid.UUID) (*models.SalesOperation, error)
	ListOperations(ctx context.Context) ([]models.SalesOperation, error)
	UpdateOperation(ctx context.Context, op *models.SalesOperation) error
	SyncOperation(ctx context.Context, saleID uuid.UUID, status enums.SaleStatus, saleDate time.Time) error
	AddCommission(ctx context.Context, saleID uuid.UUID, amount decimal.Decimal) error
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

// Create inserts the sale together with its operation row when set.
func (r *repository) Create(ctx context.Context, sale *models.Sale) error {
	return r.DB(ctx).Omit("Buyer", "Details").Create(sale).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	err := withLines(r.DB(ctx)).First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// withLines loads what a sale total needs: buyer, operation and every
// detail with its deposit game.
func withLines(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Buyer").
		Preload("Operation").
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("Details.DepositGame").
		Preload("Details.DepositGame.Game")
}

// List orders by (sale_date DESC, id DESC) and reads one row past the page
// to detect a next page.
func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.Sale, error) {
	query := withLines(r.DB(ctx).Model(&models.Sale{}))
	if filter.SessionID != nil {
		query = query.Where("session_id = ?", *filter.SessionID)
	}
	if filter.Cursor != nil {
		at := filter.Cursor.At.UTC()
		query = query.Where("(sale_date < ? OR (sale_date = ? AND id < ?))", at, at, filter.Cursor.ID)
	}
	var rows []models.Sale
	err := query.
		Order("sale_date DESC, id DESC").
		Limit(pagination.Sales.Fetch(filter.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, sale *models.Sale) error {
	return r.DB(ctx).Model(sale).
		Select("buyer_id", "sale_date", "sale_status", "updated_at").
		Updates(sale).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.DB(ctx)
	if err := db.Where("sale_id = ?", id).Delete(&models.SaleDetail{}).Error; err != nil {
		return err
	}
	if err := db.Where("sale_id = ?", id).Delete(&models.SalesOperation{}).Error; err != nil {
		return err
	}
	result := db.Delete(&models.Sale{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CreateDetail(ctx context.Context, detail *models.SaleDetail) error {
	return r.DB(ctx).Omit("DepositGame").Create(detail).Error
}

func (r *repository) FindDetail(ctx context.Context, id uuid.UUID) (*models.SaleDetail, error) {
	var detail models.SaleDetail
	if err := r.DB(ctx).Preload("DepositGame").Preload("DepositGame.Game").First(&detail, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *repository) ListDetails(ctx context.Context, filter DetailFilter) ([]models.SaleDetail, error) {
	query := r.DB(ctx).Model(&models.SaleDetail{}).
		Preload("DepositGame").
		Preload("DepositGame.Game")
	if filter.SaleID != nil {
		query = query.Where("sale_id = ?", *filter.SaleID)
	}
	if filter.SellerID != nil {
		query = query.Where("seller_id = ?", *filter.SellerID)
	}
	var rows []models.SaleDetail
	if err := query.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindOperation(ctx context.Context, saleID uuid.UUID) (*models.SalesOperation, error) {
	var op models.SalesOperation
	if err := r.DB(ctx).First(&op, "sale_id = ?", saleID).Error; err != nil {
		return nil, err
	}
	return &op, nil
}

func (r *repository) ListOperations(ctx context.Context) ([]models.SalesOperation, error) {
	var rows []models.SalesOperation
	if err := r.DB(ctx).Order("sale_date DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) UpdateOperation(ctx context.Context, op *models.SalesOperation) error {
	return r.DB(ctx).Model(op).
		Select("commission", "sale_date", "sale_status", "updated_at").
		Updates(op).Error
}

// SyncOperation mirrors the sale's status and date onto its operation.
func (r *repository) SyncOperation(ctx context.Context, saleID uuid.UUID, status enums.SaleStatus, saleDate time.Time) error {
	return r.DB(ctx).Model(&models.SalesOperation{}).
		Where("sale_id = ?", saleID).
		Updates(map[string]any{"sale_status": status, "sale_date": saleDate}).Error
}

func (r *repository) AddCommission(ctx context.Context, saleID uuid.UUID, amount decimal.Decimal) error {
	result := r.DB(ctx).Model(&models.SalesOperation{}).
		Where("sale_id = ?", saleID).
		Update("commission", gorm.Expr("commission + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
