package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Game is a catalogue entry; (name, publisher) identifies it for CSV imports.
type Game struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name        string          `gorm:"column:name;not null;uniqueIndex:games_name_publisher_key"`
	Publisher   string          `gorm:"column:publisher;not null;uniqueIndex:games_name_publisher_key"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null;default:0"`
	Picture     *string         `gorm:"column:picture"`
	Description *string         `gorm:"column:description"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Game) TableName() string { return "games" }

func (g *Game) BeforeCreate(*gorm.DB) error {
	assignID(&g.ID)
	return nil
}
