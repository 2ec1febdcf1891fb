package deposits

import (
	"time"

	"github.com/angelmondragon/depotvente-backend/internal/games"
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DepositGameInput struct {
	GameID      uuid.UUID         `json:"game_id" validate:"required"`
	Price       *decimal.Decimal  `json:"price,omitempty"`
	Exemplaires types.Exemplaires `json:"exemplaires"`
}

type CreateDepositInput struct {
	SellerID     uuid.UUID          `json:"seller_id" validate:"required"`
	SessionID    uuid.UUID          `json:"session_id" validate:"required"`
	DepositDate  *time.Time         `json:"deposit_date,omitempty"`
	DiscountFees *decimal.Decimal   `json:"discount_fees,omitempty"`
	Tag          *string            `json:"tag,omitempty"`
	Games        []DepositGameInput `json:"games"`
}

// UpdateDepositInput edits the deposit header. Changing DiscountFees
// recomputes every game's fees.
type UpdateDepositInput struct {
	DepositDate  *time.Time       `json:"deposit_date,omitempty"`
	DiscountFees *decimal.Decimal `json:"discount_fees,omitempty"`
	Tag          *string          `json:"tag,omitempty"`
}

func FromModel(m *models.Deposit) *types.Deposit {
	if m == nil {
		return nil
	}
	out := &types.Deposit{
		ID:           m.ID,
		DepositDate:  m.DepositDate,
		SellerID:     m.SellerID,
		SessionID:    m.SessionID,
		DiscountFees: m.DiscountFees,
		Tag:          m.Tag,
		CreatedAt:    m.CreatedAt,
	}
	if len(m.Games) > 0 {
		out.Games = make([]types.DepositGame, 0, len(m.Games))
		for i := range m.Games {
			out.Games = append(out.Games, *GameFromModel(&m.Games[i]))
		}
	}
	return out
}

// GameFromModel maps a deposit game. When the parent deposit is loaded its
// seller and session ids are copied onto the row.
func GameFromModel(m *models.DepositGame) *types.DepositGame {
	if m == nil {
		return nil
	}
	out := &types.DepositGame{
		ID:            m.ID,
		DepositID:     m.DepositID,
		GameID:        m.GameID,
		Fees:          m.Fees,
		Price:         m.Price,
		Exemplaires:   m.Exemplaires.Clone(),
		ExemplarCount: m.Exemplaires.Count(),
		Game:          games.FromModel(m.Game),
	}
	if m.Deposit != nil {
		sellerID, sessionID := m.Deposit.SellerID, m.Deposit.SessionID
		out.SellerID = &sellerID
		out.SessionID = &sessionID
	}
	return out
}
