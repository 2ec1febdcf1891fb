package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/depotvente-backend/api/responses"
	"github.com/angelmondragon/depotvente-backend/api/validators"
	"github.com/angelmondragon/depotvente-backend/internal/deposits"
	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/angelmondragon/depotvente-backend/pkg/logger"
	"github.com/angelmondragon/depotvente-backend/pkg/metrics"
)

type depositUpdateRequest struct {
	DepositDate  *time.Time       `json:"deposit_date,omitempty"`
	DiscountFees *decimal.Decimal `json:"discount_fees,omitempty"`
	Tag          *string          `json:"tag,omitempty" validate:"omitempty,max=255"`
}

func parseDepositFilter(r *http.Request) (deposits.Filter, error) {
	var filter deposits.Filter
	var err error
	if filter.SessionID, err = validators.ParseQueryUUID(r, "session_id"); err != nil {
		return filter, err
	}
	if filter.SellerID, err = validators.ParseQueryUUID(r, "seller_id"); err != nil {
		return filter, err
	}
	return filter, nil
}

func DepositList(svc deposits.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deposit service unavailable"))
			return
		}

		filter, err := parseDepositFilter(r)
		if err != nil {
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

// DepositGames lists deposit games with their exemplar counts, filtered on
// session_id and seller_id.
func DepositGames(svc deposits.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deposit service unavailable"))
			return
		}

		filter, err := parseDepositFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListGames(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func DepositGet(svc deposits.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deposit service unavailable"))
			return
		}

		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deposit, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, deposit)
	}
}

// DepositCreate writes the deposit and its games in one transaction.
func DepositCreate(svc deposits.Service, domain *metrics.DomainMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deposit service unavailable"))
			return
		}

		var body deposits.CreateDepositInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		body.Tag = validators.SanitizeOptional(body.Tag, 255)

		deposit, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		exemplars := 0
		for _, game := range deposit.Games {
			exemplars += game.ExemplarCount
		}
		domain.DepositCreated(exemplars)

		responses.WriteCreated(w, deposit)
	}
}

func DepositUpdate(svc deposits.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deposit service unavailable"))
			return
		}

		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body depositUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deposit, err := svc.Update(r.Context(), id, deposits.UpdateDepositInput{
			DepositDate:  body.DepositDate,
			DiscountFees: body.DiscountFees,
			Tag:          body.Tag,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, deposit)
	}
}

func DepositDelete(svc deposits.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deposit service unavailable"))
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

// DepositLabels streams one printable label per exemplar as a PDF.
func DepositLabels(svc deposits.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deposit service unavailable"))
			return
		}

		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		body, err := svc.Labels(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WritePDF(w, "etiquettes-"+strings.ToLower(id.String()[:8])+".pdf", body)
	}
}
