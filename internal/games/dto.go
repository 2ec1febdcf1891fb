package games

import (
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/shopspring/decimal"
)

type CreateGameInput struct {
	Name        string          `json:"name"`
	Publisher   string          `json:"publisher"`
	Price       decimal.Decimal `json:"price"`
	Picture     *string         `json:"picture,omitempty"`
	Description *string         `json:"description,omitempty"`
}

type UpdateGameInput struct {
	Name        *string          `json:"name,omitempty"`
	Publisher   *string          `json:"publisher,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Picture     *string          `json:"picture,omitempty"`
	Description *string          `json:"description,omitempty"`
}

// FromModel maps a catalogue row to its wire record.
func FromModel(m *models.Game) *types.Game {
	if m == nil {
		return nil
	}
	return &types.Game{
		ID:          m.ID,
		Name:        m.Name,
		Publisher:   m.Publisher,
		Price:       m.Price,
		Picture:     m.Picture,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
