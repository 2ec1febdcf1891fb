package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/angelmondragon/depotvente-backend/pkg/auth"
	"github.com/angelmondragon/depotvente-backend/pkg/enums"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Surface selects which login endpoint is used.
type Surface string

const (
	SurfaceAdmin        Surface = "admin"
	SurfaceGestionnaire Surface = "gestionnaire"
)

// Identity is what the stored token says about the signed-in user.
type Identity struct {
	ID       uuid.UUID
	Email    string
	Username string
	Role     enums.Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == enums.RoleAdmin
}

// AuthService is the client-side auth context: the token store is its only
// state and the identity is always decoded from it.
type AuthService struct {
	c *Client
}

// Login exchanges credentials for a token and stores it.
func (a *AuthService) Login(ctx context.Context, surface Surface, email, password string) (*Identity, error) {
	if surface != SurfaceAdmin && surface != SurfaceGestionnaire {
		return nil, fmt.Errorf("unknown login surface %q", surface)
	}
	body := map[string]string{"email": strings.TrimSpace(email), "password": password}
	req := request{
		action: "de la connexion",
		method: http.MethodPost,
		path:   "/auth/" + string(surface) + "/login",
		public: true,
	}
	var result types.LoginResult
	err := a.c.sendJSON(ctx, req, body, &result)
	if err != nil {
		return nil, err
	}
	identity, err := DecodeIdentity(result.Token)
	if err != nil {
		return nil, &APIError{Action: req.action, Message: fallbackMessage(req.action), Err: err}
	}
	if err := a.c.tokens.Save(result.Token); err != nil {
		return nil, err
	}
	return identity, nil
}

// Logout revokes the server session when possible and always clears the token.
func (a *AuthService) Logout(ctx context.Context) error {
	token, _ := a.c.tokens.Load()
	if token == "" {
		return nil
	}
	req := request{action: "de la déconnexion", method: http.MethodPost, path: "/auth/logout", public: true}
	callErr := a.c.sendJSON(ctx, req, nil, nil)
	if err := a.c.tokens.Clear(); err != nil {
		return err
	}
	if callErr != nil {
		var apiErr *APIError
		if errors.As(callErr, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return nil
		}
		return callErr
	}
	return nil
}

// Current decodes the stored token. No token, or one that does not decode,
// yields ErrLoginRequired.
func (a *AuthService) Current() (*Identity, error) {
	token, err := a.c.tokens.Load()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, &LoginRequiredError{RedirectTo: LoginPath}
	}
	identity, err := DecodeIdentity(token)
	if err != nil {
		return nil, &LoginRequiredError{RedirectTo: LoginPath}
	}
	return identity, nil
}

// RequireIdentity is the route guard: without an identity it clears any
// unusable token and triggers the login redirect.
func (a *AuthService) RequireIdentity() (*Identity, error) {
	identity, err := a.Current()
	if err != nil {
		return nil, a.c.loginRequired(0)
	}
	return identity, nil
}

// DecodeIdentity reads the identity claims without checking the signature.
func DecodeIdentity(token string) (*Identity, error) {
	claims := &auth.AccessTokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	if claims.UserID == uuid.Nil {
		return nil, fmt.Errorf("decode token: missing user id")
	}
	return &Identity{
		ID:       claims.UserID,
		Email:    claims.Email,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}
