package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Session is a depot-sale event. Fees and Commission are percentages.
type Session struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name       string          `gorm:"column:name;not null"`
	StartDate  time.Time       `gorm:"column:start_date;not null"`
	EndDate    time.Time       `gorm:"column:end_date;not null"`
	Status     bool            `gorm:"column:status;not null;default:false"`
	Fees       decimal.Decimal `gorm:"column:fees;type:numeric(5,2);not null;default:0"`
	Commission decimal.Decimal `gorm:"column:commission;type:numeric(5,2);not null;default:0"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Session) TableName() string { return "sessions" }

func (s *Session) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}
