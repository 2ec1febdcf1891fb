package salewizard

import (
	"context"

	"github.com/angelmondragon/depotvente-backend/pkg/client"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/google/uuid"
)

// API is the slice of the REST client the wizard drives.
type API interface {
	ActiveSessions(ctx context.Context) ([]types.Session, error)
	SellersWithDeposits(ctx context.Context, sessionID uuid.UUID) ([]types.Seller, error)
	Buyers(ctx context.Context) ([]types.Buyer, error)
	DepositGames(ctx context.Context, sessionID, sellerID uuid.UUID) ([]types.DepositGame, error)
	CreateSale(ctx context.Context, req client.SaleRequest) (*types.Sale, error)
	CreateSaleDetail(ctx context.Context, req client.SaleDetailRequest) (*types.SaleDetail, error)
	GetSale(ctx context.Context, id uuid.UUID) (*types.Sale, error)
}

// FromClient adapts the REST client to API.
func FromClient(c *client.Client) API {
	return clientAPI{c: c}
}

type clientAPI struct {
	c *client.Client
}

func (a clientAPI) ActiveSessions(ctx context.Context) ([]types.Session, error) {
	return a.c.Sessions.Active(ctx)
}

func (a clientAPI) SellersWithDeposits(ctx context.Context, sessionID uuid.UUID) ([]types.Seller, error) {
	return a.c.Sellers.List(ctx, client.SellerQuery{SessionID: &sessionID})
}

func (a clientAPI) Buyers(ctx context.Context) ([]types.Buyer, error) {
	return a.c.Buyers.List(ctx, "")
}

func (a clientAPI) DepositGames(ctx context.Context, sessionID, sellerID uuid.UUID) ([]types.DepositGame, error) {
	return a.c.Deposits.Games(ctx, client.DepositQuery{SessionID: &sessionID, SellerID: &sellerID})
}

func (a clientAPI) CreateSale(ctx context.Context, req client.SaleRequest) (*types.Sale, error) {
	return a.c.Sales.Create(ctx, req)
}

func (a clientAPI) CreateSaleDetail(ctx context.Context, req client.SaleDetailRequest) (*types.SaleDetail, error) {
	return a.c.SaleDetails.Create(ctx, req)
}

func (a clientAPI) GetSale(ctx context.Context, id uuid.UUID) (*types.Sale, error) {
	return a.c.Sales.Get(ctx, id)
}
