package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/depotvente-backend/api/responses"
	"github.com/angelmondragon/depotvente-backend/api/validators"
	"github.com/angelmondragon/depotvente-backend/internal/reporting"
	"github.com/angelmondragon/depotvente-backend/internal/sales"
	"github.com/angelmondragon/depotvente-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/angelmondragon/depotvente-backend/pkg/logger"
	"github.com/angelmondragon/depotvente-backend/pkg/metrics"
	"github.com/angelmondragon/depotvente-backend/pkg/pagination"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
)

type saleCreateRequest struct {
	SessionID uuid.UUID  `json:"session_id" validate:"required"`
	BuyerID   *uuid.UUID `json:"buyer_id,omitempty"`
	SaleDate  *time.Time `json:"sale_date,omitempty"`
}

type saleUpdateRequest struct {
	BuyerID    types.NullableUUID `json:"buyer_id"`
	SaleDate   *time.Time         `json:"sale_date,omitempty"`
	SaleStatus *enums.SaleStatus  `json:"sale_status,omitempty" validate:"omitempty,sale_status"`
}

type saleOperationUpdateRequest struct {
	Commission *decimal.Decimal  `json:"commission,omitempty" validate:"omitempty,gte=0"`
	SaleStatus *enums.SaleStatus `json:"sale_status,omitempty" validate:"omitempty,sale_status"`
}

// SaleList pages through sales newest first. Pass next_cursor back as ?cursor=.
func SaleList(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sale service unavailable"))
			return
		}

		sessionID, err := validators.ParseQueryUUID(r, "session_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.Sales.Default, 1, pagination.Sales.Max)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), sales.ListParams{
			SessionID: sessionID,
			Limit:     limit,
			Cursor:    strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// SaleGet returns the sale with its details and operation.
func SaleGet(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sale service unavailable"))
			return
		}

		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sale, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sale)
	}
}

func SaleCreate(svc sales.Service, domain *metrics.DomainMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sale service unavailable"))
			return
		}

		var body saleCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sale, err := svc.Create(r.Context(), sales.CreateSaleInput{
			SessionID: body.SessionID,
			BuyerID:   body.BuyerID,
			SaleDate:  body.SaleDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		domain.SaleStatus(string(sale.SaleStatus))
		responses.WriteCreated(w, sale)
	}
}

// SaleUpdate edits buyer and date and applies status transitions. An
// explicit "buyer_id": null detaches the buyer.
func SaleUpdate(svc sales.Service, domain *metrics.DomainMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sale service unavailable"))
			return
		}

		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body saleUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sale, err := svc.Update(r.Context(), id, sales.UpdateSaleInput{
			BuyerID:    body.BuyerID,
			SaleDate:   body.SaleDate,
			SaleStatus: body.SaleStatus,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if body.SaleStatus != nil {
			domain.SaleStatus(string(sale.SaleStatus))
		}
		responses.WriteSuccess(w, sale)
	}
}

// SaleDelete restores the stock of a sale that was not cancelled yet.
func SaleDelete(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sale service unavailable"))
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

// SaleDetailCreate adds a line, takes the quantity from stock and books the
// commission in one transaction.
func SaleDetailCreate(svc sales.Service, domain *metrics.DomainMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sale service unavailable"))
			return
		}

		var body sales.CreateSaleDetailInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.CreateDetail(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		domain.ItemsSold(detail.Quantity, reporting.LineTotal(*detail))
		responses.WriteCreated(w, detail)
	}
}

func SaleDetailList(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sale service unavailable"))
			return
		}

		var filter sales.DetailFilter
		var err error
		if filter.SaleID, err = validators.ParseQueryUUID(r, "sale_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filter.SellerID, err = validators.ParseQueryUUID(r, "seller_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListDetails(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func SaleDetailGet(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sale service unavailable"))
			return
		}

		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetDetail(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}

func SaleOperationList(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sale service unavailable"))
			return
		}

		list, err := svc.ListOperations(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func SaleOperationGet(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sale service unavailable"))
			return
		}

		saleID, err := validators.ParseURLUUID(r, "saleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		op, err := svc.GetOperation(r.Context(), saleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, op)
	}
}

// SaleOperationUpdate overrides the commission or moves the sale status.
func SaleOperationUpdate(svc sales.Service, domain *metrics.DomainMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sale service unavailable"))
			return
		}

		saleID, err := validators.ParseURLUUID(r, "saleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body saleOperationUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		op, err := svc.UpdateOperation(r.Context(), saleID, sales.UpdateOperationInput{
			Commission: body.Commission,
			SaleStatus: body.SaleStatus,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if body.SaleStatus != nil {
			domain.SaleStatus(string(op.SaleStatus))
		}
		responses.WriteSuccess(w, op)
	}
}
