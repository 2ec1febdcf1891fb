package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/depotvente-backend/pkg/types"
)

// Deposit is a seller's submission of games into a session.
type Deposit struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	DepositDate  time.Time       `gorm:"column:deposit_date;not null"`
	SellerID     uuid.UUID       `gorm:"column:seller_id;type:uuid;not null"`
	SessionID    uuid.UUID       `gorm:"column:session_id;type:uuid;not null"`
	DiscountFees decimal.Decimal `gorm:"column:discount_fees;type:numeric(5,2);not null;default:0"`
	Tag          *string         `gorm:"column:tag"`
	Games        []DepositGame   `gorm:"foreignKey:DepositID;constraint:OnDelete:CASCADE"`
	Seller       *Seller         `gorm:"foreignKey:SellerID"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Deposit) TableName() string { return "deposits" }

func (d *Deposit) BeforeCreate(*gorm.DB) error {
	assignID(&d.ID)
	return nil
}

// DepositGame is one game line of a deposit with its copies.
type DepositGame struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	DepositID   uuid.UUID         `gorm:"column:deposit_id;type:uuid;not null"`
	GameID      uuid.UUID         `gorm:"column:game_id;type:uuid;not null"`
	Fees        decimal.Decimal   `gorm:"column:fees;type:numeric(10,2);not null;default:0"`
	Price       decimal.Decimal   `gorm:"column:price;type:numeric(10,2);not null;default:0"`
	Exemplaires types.Exemplaires `gorm:"column:exemplaires;type:jsonb;not null"`
	Game        *Game             `gorm:"foreignKey:GameID"`
	Deposit     *Deposit          `gorm:"foreignKey:DepositID"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (DepositGame) TableName() string { return "deposit_games" }

func (d *DepositGame) BeforeCreate(*gorm.DB) error {
	assignID(&d.ID)
	return nil
}
