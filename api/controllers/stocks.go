package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/depotvente-backend/api/responses"
	"github.com/angelmondragon/depotvente-backend/api/validators"
	"github.com/angelmondragon/depotvente-backend/internal/stocks"
	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/angelmondragon/depotvente-backend/pkg/logger"
)

type stockUpsertRequest struct {
	SessionID       uuid.UUID `json:"session_id" validate:"required"`
	SellerID        uuid.UUID `json:"seller_id" validate:"required"`
	GameID          uuid.UUID `json:"game_id" validate:"required"`
	InitialQuantity int       `json:"initial_quantity" validate:"min=0"`
	CurrentQuantity int       `json:"current_quantity" validate:"min=0"`
}

type stockUpdateRequest struct {
	InitialQuantity *int `json:"initial_quantity,omitempty" validate:"omitempty,min=0"`
	CurrentQuantity *int `json:"current_quantity,omitempty" validate:"omitempty,min=0"`
}

// StockList filters on session_id, seller_id and game_id.
func StockList(svc stocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		var filter stocks.Filter
		var err error
		if filter.SessionID, err = validators.ParseQueryUUID(r, "session_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filter.SellerID, err = validators.ParseQueryUUID(r, "seller_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filter.GameID, err = validators.ParseQueryUUID(r, "game_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func StockGet(svc stocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stock, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stock)
	}
}

// StockUpsert answers 201 when a new row was inserted and 200 when the
// quantities were added to an existing one.
func StockUpsert(svc stocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		var body stockUpsertRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stock, created, err := svc.Upsert(r.Context(), stocks.UpsertStockInput{
			SessionID:       body.SessionID,
			SellerID:        body.SellerID,
			GameID:          body.GameID,
			InitialQuantity: body.InitialQuantity,
			CurrentQuantity: body.CurrentQuantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if created {
			responses.WriteCreated(w, stock)
			return
		}
		responses.WriteSuccess(w, stock)
	}
}

func StockUpdate(svc stocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body stockUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stock, err := svc.Update(r.Context(), id, stocks.UpdateStockInput{
			InitialQuantity: body.InitialQuantity,
			CurrentQuantity: body.CurrentQuantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stock)
	}
}

func StockDelete(svc stocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
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
