package auth

import (
	"strings"

	"github.com/angelmondragon/depotvente-backend/pkg/enums"
)

// LoginRequest is the body of both login endpoints.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

// accountEmail is the form accounts are stored under.
func (r LoginRequest) accountEmail() string {
	return strings.ToLower(strings.TrimSpace(r.Email))
}

// surfaceAdmits maps a login surface to the roles it accepts: admins may use
// either surface, gestionnaires only their own.
func surfaceAdmits(surface, role enums.Role) bool {
	switch surface {
	case enums.RoleAdmin:
		return role == enums.RoleAdmin
	case enums.RoleGestionnaire:
		return role == enums.RoleAdmin || role == enums.RoleGestionnaire
	}
	return false
}
