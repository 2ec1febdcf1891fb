package invoices

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/depotvente-backend/internal/sales"
	"github.com/angelmondragon/depotvente-backend/internal/sellers"
	"github.com/angelmondragon/depotvente-backend/internal/sessions"
	"github.com/angelmondragon/depotvente-backend/pkg/db/dbtest"
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	"github.com/angelmondragon/depotvente-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceForSale(t *testing.T) {
	db := dbtest.Open(t)
	svc, err := NewService(sales.NewRepository(db), sessions.NewRepository(db), sellers.NewRepository(db))
	require.NoError(t, err)

	email := "ines@example.com"
	session := models.Session{Name: "Printemps", StartDate: time.Now(), EndDate: time.Now(), Status: true}
	seller := models.Seller{Name: "Noé", Email: "noe@example.com"}
	buyer := models.Buyer{Name: "Inès", Email: &email}
	game := models.Game{Name: "Azul", Publisher: "Plan B"}
	require.NoError(t, db.Create(&session).Error)
	require.NoError(t, db.Create(&seller).Error)
	require.NoError(t, db.Create(&buyer).Error)
	require.NoError(t, db.Create(&game).Error)

	deposit := models.Deposit{
		DepositDate: time.Now().UTC(),
		SellerID:    seller.ID,
		SessionID:   session.ID,
		Games: []models.DepositGame{{
			GameID:      game.ID,
			Price:       decimal.RequireFromString("15.5"),
			Exemplaires: types.Exemplaires{"0": {Price: decimal.RequireFromString("15.5"), State: enums.ExemplarStateGood}},
		}},
	}
	require.NoError(t, db.Omit("Seller").Create(&deposit).Error)

	saleDate := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	sale := models.Sale{SessionID: session.ID, BuyerID: &buyer.ID, SaleDate: saleDate, SaleStatus: enums.SaleStatusFinalized}
	require.NoError(t, db.Omit("Buyer", "Details", "Operation").Create(&sale).Error)
	detail := models.SaleDetail{SaleID: sale.ID, SellerID: seller.ID, DepositGameID: deposit.Games[0].ID, Quantity: 2}
	require.NoError(t, db.Omit("DepositGame").Create(&detail).Error)

	data, err := svc.Data(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, Number(sale.ID), data.InvoiceNumber)
	assert.Equal(t, "14/03/2026", data.Date)
	assert.Equal(t, "Printemps", data.SessionName)
	assert.Equal(t, "finalisé", data.Status)
	assert.Equal(t, "Inès", data.Buyer.Name)
	assert.Equal(t, email, data.Buyer.Email)
	require.Len(t, data.Items, 1)
	assert.Equal(t, "Azul", data.Items[0].Game)
	assert.Equal(t, "Noé", data.Items[0].Seller)
	assert.True(t, data.Items[0].Total.Equal(decimal.NewFromInt(31)))
	assert.True(t, data.GrandTotal.Equal(decimal.NewFromInt(31)))

	doc, err := svc.Render(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc.Content, []byte("%PDF")))
	assert.Contains(t, doc.Filename, "facture-fac-")
}

func TestInvoiceUnknownSale(t *testing.T) {
	db := dbtest.Open(t)
	svc, err := NewService(sales.NewRepository(db), sessions.NewRepository(db), sellers.NewRepository(db))
	require.NoError(t, err)

	_, err = svc.Data(context.Background(), uuid.New())
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	_, err = svc.Data(context.Background(), uuid.Nil)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestNumber(t *testing.T) {
	id := uuid.MustParse("1a2b3c4d-0000-4000-8000-000000000000")
	assert.Equal(t, "FAC-1A2B3C4D", Number(id))
}
