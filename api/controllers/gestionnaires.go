package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/depotvente-backend/api/responses"
	"github.com/angelmondragon/depotvente-backend/api/validators"
	"github.com/angelmondragon/depotvente-backend/internal/gestionnaires"
	"github.com/angelmondragon/depotvente-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/angelmondragon/depotvente-backend/pkg/logger"
)

type gestionnaireCreateRequest struct {
	Email    string     `json:"email" validate:"required,email"`
	Username string     `json:"username" validate:"required,max=64"`
	Password string     `json:"password" validate:"required"`
	Role     enums.Role `json:"role" validate:"omitempty,role"`
}

type gestionnaireUpdateRequest struct {
	Email    *string     `json:"email,omitempty" validate:"omitempty,email"`
	Username *string     `json:"username,omitempty" validate:"omitempty,min=1,max=64"`
	Password *string     `json:"password,omitempty"`
	Role     *enums.Role `json:"role,omitempty" validate:"omitempty,role"`
}

func GestionnaireList(svc gestionnaires.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gestionnaire service unavailable"))
			return
		}

		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func GestionnaireGet(svc gestionnaires.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gestionnaire service unavailable"))
			return
		}

		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		manager, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, manager)
	}
}

func GestionnaireCreate(svc gestionnaires.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gestionnaire service unavailable"))
			return
		}

		var body gestionnaireCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		manager, err := svc.Create(r.Context(), gestionnaires.CreateGestionnaireInput{
			Email:    strings.TrimSpace(body.Email),
			Username: validators.SanitizeString(body.Username, 64),
			Password: body.Password,
			Role:     body.Role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteCreated(w, manager)
	}
}

func GestionnaireUpdate(svc gestionnaires.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gestionnaire service unavailable"))
			return
		}

		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body gestionnaireUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		manager, err := svc.Update(r.Context(), id, gestionnaires.UpdateGestionnaireInput{
			Email:    body.Email,
			Username: validators.SanitizeOptional(body.Username, 64),
			Password: body.Password,
			Role:     body.Role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, manager)
	}
}

// GestionnaireDelete refuses to remove the last admin.
func GestionnaireDelete(svc gestionnaires.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gestionnaire service unavailable"))
			return
		}

		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNoContent(w)
	}
}
