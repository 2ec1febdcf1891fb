package buyers

import (
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
)

type CreateBuyerInput struct {
	Name    string  `json:"name"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// UpdateBuyerInput applies only the non-nil fields; an empty string clears
// an optional field.
type UpdateBuyerInput struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

func FromModel(m *models.Buyer) *types.Buyer {
	if m == nil {
		return nil
	}
	return &types.Buyer{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Address:   m.Address,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
