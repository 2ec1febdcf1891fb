package middleware

import (
	"context"

	pkgAuth "github.com/angelmondragon/depotvente-backend/pkg/auth"
	"github.com/angelmondragon/depotvente-backend/pkg/enums"
	"github.com/google/uuid"
)

type claimsKey struct{}

// WithClaims stores the verified token claims on ctx.
func WithClaims(ctx context.Context, claims *pkgAuth.AccessTokenClaims) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims of the token that authenticated the
// request, or nil on public routes.
func ClaimsFromContext(ctx context.Context) *pkgAuth.AccessTokenClaims {
	if ctx == nil {
		return nil
	}
	claims, _ := ctx.Value(claimsKey{}).(*pkgAuth.AccessTokenClaims)
	return claims
}

func UserIDFromContext(ctx context.Context) string {
	if c := ClaimsFromContext(ctx); c != nil && c.UserID != uuid.Nil {
		return c.UserID.String()
	}
	return ""
}

func RoleFromContext(ctx context.Context) enums.Role {
	if c := ClaimsFromContext(ctx); c != nil {
		return c.Role
	}
	return ""
}

// AccessIDFromContext returns the jti, which keys the server-side session.
func AccessIDFromContext(ctx context.Context) string {
	if c := ClaimsFromContext(ctx); c != nil {
		return c.ID
	}
	return ""
}

// WithRole is a shortcut for tests that only care about role checks.
func WithRole(ctx context.Context, role enums.Role) context.Context {
	return WithClaims(ctx, &pkgAuth.AccessTokenClaims{Role: role})
}

// WithAccessID is a shortcut for tests that only need a session id.
func WithAccessID(ctx context.Context, accessID string) context.Context {
	claims := &pkgAuth.AccessTokenClaims{}
	claims.ID = accessID
	return WithClaims(ctx, claims)
}
