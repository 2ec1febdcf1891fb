package sessions

import (
	"time"

	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/shopspring/decimal"
)

type CreateSessionInput struct {
	Name       string          `json:"name"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    time.Time       `json:"end_date"`
	Status     bool            `json:"status"`
	Fees       decimal.Decimal `json:"fees"`
	Commission decimal.Decimal `json:"commission"`
}

type UpdateSessionInput struct {
	Name       *string          `json:"name,omitempty"`
	StartDate  *time.Time       `json:"start_date,omitempty"`
	EndDate    *time.Time       `json:"end_date,omitempty"`
	Status     *bool            `json:"status,omitempty"`
	Fees       *decimal.Decimal `json:"fees,omitempty"`
	Commission *decimal.Decimal `json:"commission,omitempty"`
}

func FromModel(m *models.Session) *types.Session {
	if m == nil {
		return nil
	}
	return &types.Session{
		ID:         m.ID,
		Name:       m.Name,
		StartDate:  m.StartDate,
		EndDate:    m.EndDate,
		Status:     m.Status,
		Fees:       m.Fees,
		Commission: m.Commission,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
