package auth

import (
	"github.com/angelmondragon/depotvente-backend/pkg/enums"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload is what login knows about the account being signed in.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	Email    string
	Username string
	Role     enums.Role
	JTI      string
}

// AccessTokenClaims is the signed JWT body. The front end reads id, email,
// username and role without verifying the signature.
type AccessTokenClaims struct {
	UserID   uuid.UUID  `json:"id"`
	Email    string     `json:"email"`
	Username string     `json:"username"`
	Role     enums.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserInfo is the identity part of the claims.
func (c AccessTokenClaims) UserInfo() types.UserInfo {
	return types.UserInfo{ID: c.UserID, Email: c.Email, Username: c.Username, Role: c.Role}
}
