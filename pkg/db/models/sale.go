package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/depotvente-backend/pkg/enums"
)

type Sale struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	BuyerID    *uuid.UUID       `gorm:"column:buyer_id;type:uuid"`
	SessionID  uuid.UUID        `gorm:"column:session_id;type:uuid;not null"`
	SaleDate   time.Time        `gorm:"column:sale_date;not null"`
	SaleStatus enums.SaleStatus `gorm:"column:sale_status;not null"`
	Buyer      *Buyer           `gorm:"foreignKey:BuyerID"`
	Details    []SaleDetail     `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	Operation  *SalesOperation  `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (Sale) TableName() string { return "sales" }

func (s *Sale) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}

// SaleDetail is one line of a sale, drawn from a deposit game.
type SaleDetail struct {
	ID            uuid.UUID    `gorm:"column:id;type:uuid;primaryKey"`
	SaleID        uuid.UUID    `gorm:"column:sale_id;type:uuid;not null"`
	SellerID      uuid.UUID    `gorm:"column:seller_id;type:uuid;not null"`
	DepositGameID uuid.UUID    `gorm:"column:deposit_game_id;type:uuid;not null"`
	Quantity      int          `gorm:"column:quantity;not null"`
	DepositGame   *DepositGame `gorm:"foreignKey:DepositGameID"`
	CreatedAt     time.Time    `gorm:"column:created_at;autoCreateTime"`
}

func (SaleDetail) TableName() string { return "sale_details" }

func (d *SaleDetail) BeforeCreate(*gorm.DB) error {
	assignID(&d.ID)
	return nil
}

// SalesOperation carries the commission bookkeeping of a sale.
type SalesOperation struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	SaleID     uuid.UUID        `gorm:"column:sale_id;type:uuid;not null;uniqueIndex"`
	Commission decimal.Decimal  `gorm:"column:commission;type:numeric(10,2);not null;default:0"`
	SaleDate   time.Time        `gorm:"column:sale_date;not null"`
	SaleStatus enums.SaleStatus `gorm:"column:sale_status;not null"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (SalesOperation) TableName() string { return "sales_operations" }

func (o *SalesOperation) BeforeCreate(*gorm.DB) error {
	assignID(&o.ID)
	return nil
}
