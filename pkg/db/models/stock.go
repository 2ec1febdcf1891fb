package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stock is the sellable projection of deposited copies for one
// (session, seller, game) triple.
type Stock struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	SessionID       uuid.UUID `gorm:"column:session_id;type:uuid;not null;uniqueIndex:stocks_session_seller_game_key"`
	SellerID        uuid.UUID `gorm:"column:seller_id;type:uuid;not null;uniqueIndex:stocks_session_seller_game_key"`
	GameID          uuid.UUID `gorm:"column:game_id;type:uuid;not null;uniqueIndex:stocks_session_seller_game_key"`
	InitialQuantity int       `gorm:"column:initial_quantity;not null;default:0"`
	CurrentQuantity int       `gorm:"column:current_quantity;not null;default:0"`
	Game            *Game     `gorm:"foreignKey:GameID"`
	Seller          *Seller   `gorm:"foreignKey:SellerID"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Stock) TableName() string { return "stocks" }

func (s *Stock) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}
