package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/depotvente-backend/api/responses"
	"github.com/angelmondragon/depotvente-backend/api/validators"
	"github.com/angelmondragon/depotvente-backend/internal/statistics"
	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/angelmondragon/depotvente-backend/pkg/logger"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
)

const (
	defaultTopGames = 10
	maxTopGames     = 100
)

// sessionStat adapts a per-session statistics call to a handler reading the
// session from the {id} URL param.
func sessionStat[T any](svc statistics.Service, logg *logger.Logger, fetch func(ctx context.Context, sessionID uuid.UUID) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "statistics service unavailable"))
			return
		}

		sessionID, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := fetch(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func StatisticsVendorShares(svc statistics.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionStat(svc, logg, func(ctx context.Context, id uuid.UUID) ([]types.VendorShare, error) {
		return svc.VendorShares(ctx, id)
	})
}

func StatisticsSalesOverTime(svc statistics.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionStat(svc, logg, func(ctx context.Context, id uuid.UUID) ([]types.SalesPoint, error) {
		return svc.SalesOverTime(ctx, id)
	})
}

func StatisticsStock(svc statistics.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionStat(svc, logg, func(ctx context.Context, id uuid.UUID) (*types.StockDonut, error) {
		return svc.Stock(ctx, id)
	})
}

func StatisticsVendorStats(svc statistics.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionStat(svc, logg, func(ctx context.Context, id uuid.UUID) ([]types.VendorStats, error) {
		return svc.VendorStats(ctx, id)
	})
}

func StatisticsSummary(svc statistics.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionStat(svc, logg, func(ctx context.Context, id uuid.UUID) (*types.SessionSummary, error) {
		return svc.Summary(ctx, id)
	})
}

// StatisticsTopGames ranks games by units sold; ?limit= defaults to 10.
func StatisticsTopGames(svc statistics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", defaultTopGames, 1, maxTopGames)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sessionStat(svc, logg, func(ctx context.Context, id uuid.UUID) ([]types.TopGame, error) {
			return svc.TopGames(ctx, id, limit)
		}).ServeHTTP(w, r)
	}
}
