package gestionnaires

import (
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	"github.com/angelmondragon/depotvente-backend/pkg/enums"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
)

type CreateGestionnaireInput struct {
	Email    string     `json:"email" validate:"required,email"`
	Username string     `json:"username" validate:"required"`
	Password string     `json:"password" validate:"required"`
	Role     enums.Role `json:"role"`
}

// UpdateGestionnaireInput leaves nil fields untouched. A new password is
// re-hashed.
type UpdateGestionnaireInput struct {
	Email    *string     `json:"email,omitempty"`
	Username *string     `json:"username,omitempty"`
	Password *string     `json:"password,omitempty"`
	Role     *enums.Role `json:"role,omitempty"`
}

func FromModel(m *models.Gestionnaire) *types.Gestionnaire {
	if m == nil {
		return nil
	}
	return &types.Gestionnaire{
		ID:        m.ID,
		Email:     m.Email,
		Username:  m.Username,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
	}
}

// UserInfo is the identity returned by a login.
func UserInfo(m *models.Gestionnaire) types.UserInfo {
	return types.UserInfo{
		ID:       m.ID,
		Email:    m.Email,
		Username: m.Username,
		Role:     m.Role,
	}
}
