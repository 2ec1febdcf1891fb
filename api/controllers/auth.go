package controllers

import (
	"net/http"

	"github.com/angelmondragon/depotvente-backend/api/middleware"
	"github.com/angelmondragon/depotvente-backend/api/responses"
	"github.com/angelmondragon/depotvente-backend/api/validators"
	"github.com/angelmondragon/depotvente-backend/internal/auth"
	"github.com/angelmondragon/depotvente-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/angelmondragon/depotvente-backend/pkg/logger"
)

var errAuthUnavailable = pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")

func AdminLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return loginOn(enums.RoleAdmin, svc, logg)
}

func GestionnaireLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return loginOn(enums.RoleGestionnaire, svc, logg)
}

// loginOn binds a handler to one login surface; the service decides which
// roles that surface admits.
func loginOn(surface enums.Role, svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, errAuthUnavailable)
			return
		}
		var creds auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &creds); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		result, err := svc.Login(ctx, surface, creds)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if logg != nil {
			logg.Info(logg.WithActor(ctx, result.User.ID.String(), string(result.User.Role), ""), "login")
		}
		responses.WriteSuccess(w, result)
	}
}

// Logout revokes the session bound to the presented access token.
func Logout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, errAuthUnavailable)
			return
		}
		jti := middleware.AccessIDFromContext(ctx)
		if jti == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session inconnue"))
			return
		}
		if err := svc.Logout(ctx, jti); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// Me echoes the identity carried by the caller's token.
func Me(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session inconnue"))
			return
		}
		responses.WriteSuccess(w, claims.UserInfo())
	}
}
