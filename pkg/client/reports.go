package client

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/google/uuid"
)

// StatisticsService reads /statistics/session/:id/*.
type StatisticsService struct {
	c *Client
}

func (s *StatisticsService) path(sessionID uuid.UUID, name string) string {
	return "/statistics/session/" + sessionID.String() + "/" + name
}

func (s *StatisticsService) VendorShares(ctx context.Context, sessionID uuid.UUID) ([]types.VendorShare, error) {
	var out []types.VendorShare
	err := s.c.call(ctx, "du chargement des parts vendeurs", http.MethodGet, s.path(sessionID, "vendor-shares"), nil, nil, &out)
	return out, err
}

func (s *StatisticsService) SalesOverTime(ctx context.Context, sessionID uuid.UUID) ([]types.SalesPoint, error) {
	var out []types.SalesPoint
	err := s.c.call(ctx, "du chargement des ventes par jour", http.MethodGet, s.path(sessionID, "sales-over-time"), nil, nil, &out)
	return out, err
}

func (s *StatisticsService) Stock(ctx context.Context, sessionID uuid.UUID) (*types.StockDonut, error) {
	var out types.StockDonut
	if err := s.c.call(ctx, "du chargement du stock", http.MethodGet, s.path(sessionID, "stock"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *StatisticsService) TopGames(ctx context.Context, sessionID uuid.UUID, limit int) ([]types.TopGame, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []types.TopGame
	err := s.c.call(ctx, "du chargement des meilleures ventes", http.MethodGet, s.path(sessionID, "top-games"), q, nil, &out)
	return out, err
}

func (s *StatisticsService) VendorStats(ctx context.Context, sessionID uuid.UUID) ([]types.VendorStats, error) {
	var out []types.VendorStats
	err := s.c.call(ctx, "du chargement des statistiques vendeurs", http.MethodGet, s.path(sessionID, "vendor-stats"), nil, nil, &out)
	return out, err
}

func (s *StatisticsService) Summary(ctx context.Context, sessionID uuid.UUID) (*types.SessionSummary, error) {
	var out types.SessionSummary
	if err := s.c.call(ctx, "du chargement du résumé", http.MethodGet, s.path(sessionID, "summary"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FinanceService reads /finance/sessions/:id/*.
type FinanceService struct {
	c *Client
}

func (s *FinanceService) SessionBalance(ctx context.Context, sessionID uuid.UUID) (*types.Balance, error) {
	var out types.Balance
	path := "/finance/sessions/" + sessionID.String() + "/balance"
	if err := s.c.call(ctx, "du chargement du bilan", http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *FinanceService) SellerBalances(ctx context.Context, sessionID uuid.UUID) ([]types.Balance, error) {
	var out []types.Balance
	path := "/finance/sessions/" + sessionID.String() + "/sellers"
	err := s.c.call(ctx, "du chargement des bilans vendeurs", http.MethodGet, path, nil, nil, &out)
	return out, err
}

func (s *FinanceService) SellerBalance(ctx context.Context, sessionID, sellerID uuid.UUID) (*types.Balance, error) {
	var out types.Balance
	path := "/finance/sessions/" + sessionID.String() + "/sellers/" + sellerID.String()
	if err := s.c.call(ctx, "du chargement du bilan vendeur", http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CSVImportService uploads games catalogues.
type CSVImportService struct {
	c *Client
}

func (s *CSVImportService) ImportGames(ctx context.Context, filename string, content io.Reader) (*types.ImportResult, error) {
	var out types.ImportResult
	if err := s.c.upload(ctx, "de l'import CSV", "/csvImport/import", "file", filename, content, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InvoicesService downloads sale invoices.
type InvoicesService struct {
	c *Client
}

func (s *InvoicesService) Download(ctx context.Context, saleID uuid.UUID) (*File, error) {
	return s.c.download(ctx, "du téléchargement de la facture", "/invoices/"+saleID.String())
}
