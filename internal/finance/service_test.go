package finance

import (
	"context"
	"testing"

	"github.com/angelmondragon/depotvente-backend/internal/ledger"
	"github.com/angelmondragon/depotvente-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type stubLoader struct {
	data *ledger.Dataset
	err  error
}

func (s stubLoader) Load(ctx context.Context, sessionID uuid.UUID) (*ledger.Dataset, error) {
	return s.data, s.err
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func sampleDataset() (*ledger.Dataset, types.Seller) {
	seller := types.Seller{ID: uuid.New(), Name: "Alix"}
	dg := &types.DepositGame{Price: dec("30")}
	return &ledger.Dataset{
		Session: types.Session{ID: uuid.New(), Commission: dec("20")},
		Sellers: []types.Seller{seller},
		Deposits: []types.Deposit{
			{SellerID: seller.ID, Games: []types.DepositGame{{Fees: dec("3")}}},
		},
		Sales: []types.Sale{
			{
				SaleStatus: enums.SaleStatusFinalized,
				Details:    []types.SaleDetail{{SellerID: seller.ID, Quantity: 1, DepositGame: dg}},
				Operation:  &types.SalesOperation{Commission: dec("6")},
			},
			{
				SaleStatus: enums.SaleStatusCancelled,
				Details:    []types.SaleDetail{{SellerID: seller.ID, Quantity: 1, DepositGame: dg}},
				Operation:  &types.SalesOperation{Commission: dec("6")},
			},
		},
	}, seller
}

func TestSessionBalance(t *testing.T) {
	data, _ := sampleDataset()
	svc, err := NewService(stubLoader{data: data})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	balance, err := svc.SessionBalance(context.Background(), data.Session.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.TotalSales.Equal(dec("30")) || !balance.TotalCommission.Equal(dec("6")) || !balance.TotalBenef.Equal(dec("21")) {
		t.Fatalf("unexpected balance %+v", balance)
	}
}

func TestSellerBalances(t *testing.T) {
	data, seller := sampleDataset()
	svc, _ := NewService(stubLoader{data: data})

	all, err := svc.SellerBalances(context.Background(), data.Session.ID)
	if err != nil {
		t.Fatalf("seller balances: %v", err)
	}
	if len(all) != 1 || *all[0].SellerID != seller.ID {
		t.Fatalf("unexpected balances %+v", all)
	}

	one, err := svc.SellerBalance(context.Background(), data.Session.ID, seller.ID)
	if err != nil {
		t.Fatalf("seller balance: %v", err)
	}
	if !one.TotalCommission.Equal(dec("6")) || !one.TotalDepositFees.Equal(dec("3")) {
		t.Fatalf("unexpected seller balance %+v", one)
	}

	_, err = svc.SellerBalance(context.Background(), data.Session.ID, uuid.New())
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLoaderErrorsPassThrough(t *testing.T) {
	svc, _ := NewService(stubLoader{err: pkgerrors.New(pkgerrors.CodeNotFound, "session introuvable")})
	if _, err := svc.SessionBalance(context.Background(), uuid.New()); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
