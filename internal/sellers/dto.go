package sellers

import (
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
)

// CreateSellerInput carries the fields accepted on creation.
type CreateSellerInput struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

// UpdateSellerInput applies only the non-nil fields.
type UpdateSellerInput struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// FromModel maps a persisted seller to its wire record.
func FromModel(m *models.Seller) *types.Seller {
	if m == nil {
		return nil
	}
	return &types.Seller{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func fromModels(rows []models.Seller) []types.Seller {
	out := make([]types.Seller, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
