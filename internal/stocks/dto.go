package stocks

import (
	"github.com/angelmondragon/depotvente-backend/internal/games"
	"github.com/angelmondragon/depotvente-backend/internal/sellers"
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/google/uuid"
)

// UpsertStockInput adds deposited copies to the (session, seller, game) row.
type UpsertStockInput struct {
	SessionID       uuid.UUID `json:"session_id"`
	SellerID        uuid.UUID `json:"seller_id"`
	GameID          uuid.UUID `json:"game_id"`
	InitialQuantity int       `json:"initial_quantity"`
	CurrentQuantity int       `json:"current_quantity"`
}

type UpdateStockInput struct {
	InitialQuantity *int `json:"initial_quantity,omitempty"`
	CurrentQuantity *int `json:"current_quantity,omitempty"`
}

func FromModel(m *models.Stock) *types.Stock {
	if m == nil {
		return nil
	}
	return &types.Stock{
		ID:              m.ID,
		SessionID:       m.SessionID,
		SellerID:        m.SellerID,
		GameID:          m.GameID,
		InitialQuantity: m.InitialQuantity,
		CurrentQuantity: m.CurrentQuantity,
		Game:            games.FromModel(m.Game),
		Seller:          sellers.FromModel(m.Seller),
	}
}
