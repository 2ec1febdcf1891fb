package deposits

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/depotvente-backend/internal/games"
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
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	svc     Service
	session models.Session
	seller  models.Seller
	game    models.Game
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := dbtest.Open(t)
	svc, err := NewService(NewRepository(db), sessions.NewRepository(db), sellers.NewRepository(db), games.NewRepository(db))
	require.NoError(t, err)

	f := fixture{
		db:  db,
		svc: svc,
		session: models.Session{
			Name:      "Automne",
			StartDate: time.Now(),
			EndDate:   time.Now().Add(48 * time.Hour),
			Status:    true,
			Fees:      decimal.NewFromInt(10),
		},
		seller: models.Seller{Name: "Léa", Email: "lea@example.com"},
		game:   models.Game{Name: "Azul", Publisher: "Plan B"},
	}
	require.NoError(t, db.Create(&f.session).Error)
	require.NoError(t, db.Create(&f.seller).Error)
	require.NoError(t, db.Create(&f.game).Error)
	return f
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func (f fixture) input(copies types.Exemplaires) CreateDepositInput {
	return CreateDepositInput{
		SellerID:  f.seller.ID,
		SessionID: f.session.ID,
		Games:     []DepositGameInput{{GameID: f.game.ID, Exemplaires: copies}},
	}
}

func twoCopies() types.Exemplaires {
	return types.Exemplaires{
		"0": {Price: dec("20"), State: enums.ExemplarStateNew},
		"1": {Price: dec("10"), State: enums.ExemplarStateGood},
	}
}

func TestComputeFees(t *testing.T) {
	fees := ComputeFees(twoCopies(), dec("10"), dec("50"))
	assert.True(t, fees.Equal(dec("1.5")), "got %s", fees)

	fees = ComputeFees(types.Exemplaires{"0": {Price: dec("9.99")}}, dec("7"), decimal.Zero)
	assert.True(t, fees.Equal(dec("0.70")), "got %s", fees)
}

func TestDefaultPriceUsesFirstCopy(t *testing.T) {
	copies := types.Exemplaires{
		"10": {Price: dec("1")},
		"2":  {Price: dec("7")},
	}
	assert.True(t, DefaultPrice(copies).Equal(dec("7")))
	assert.True(t, DefaultPrice(nil).IsZero())
}

func TestCreateComputesPriceAndFees(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	discount := dec("50")
	input := f.input(twoCopies())
	input.DiscountFees = &discount

	deposit, err := f.svc.Create(ctx, input)
	require.NoError(t, err)
	require.Len(t, deposit.Games, 1)

	game := deposit.Games[0]
	assert.True(t, game.Price.Equal(dec("20")), "price defaults to first copy")
	assert.True(t, game.Fees.Equal(dec("1.5")), "got %s", game.Fees)
	assert.Equal(t, 2, game.ExemplarCount)
	require.NotNil(t, game.Game)
	assert.Equal(t, "Azul", game.Game.Name)
}

func TestCreateValidatesEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.input(types.Exemplaires{}))
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = f.svc.Create(ctx, f.input(types.Exemplaires{"0": {Price: dec("5"), State: "abîmé"}}))
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = f.svc.Create(ctx, f.input(types.Exemplaires{"0": {Price: dec("-1"), State: enums.ExemplarStateNew}}))
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	input := f.input(twoCopies())
	input.Games[0].GameID = uuid.New()
	_, err = f.svc.Create(ctx, input)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	var count int64
	require.NoError(t, f.db.Model(&models.Deposit{}).Count(&count).Error)
	assert.Zero(t, count, "nothing is written when validation fails")
}

func TestCreateRequiresActiveSession(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Model(&f.session).Update("status", false).Error)

	_, err := f.svc.Create(context.Background(), f.input(twoCopies()))
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))
}

func TestUpdateDiscountRecomputesFees(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	deposit, err := f.svc.Create(ctx, f.input(twoCopies()))
	require.NoError(t, err)
	assert.True(t, deposit.Games[0].Fees.Equal(dec("3")))

	discount := dec("100")
	updated, err := f.svc.Update(ctx, deposit.ID, UpdateDepositInput{DiscountFees: &discount})
	require.NoError(t, err)
	assert.True(t, updated.Games[0].Fees.IsZero(), "got %s", updated.Games[0].Fees)
}

func TestListGamesCarriesDepositContext(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.input(twoCopies()))
	require.NoError(t, err)

	other := uuid.New()
	rows, err := f.svc.ListGames(ctx, Filter{SessionID: &other})
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = f.svc.ListGames(ctx, Filter{SessionID: &f.session.ID, SellerID: &f.seller.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].SellerID)
	assert.Equal(t, f.seller.ID, *rows[0].SellerID)
	assert.Equal(t, 2, rows[0].ExemplarCount)
}

func TestDeleteRejectsSoldDeposit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	deposit, err := f.svc.Create(ctx, f.input(twoCopies()))
	require.NoError(t, err)

	sale := models.Sale{SessionID: f.session.ID, SaleDate: time.Now().UTC(), SaleStatus: enums.SaleStatusPending}
	require.NoError(t, f.db.Create(&sale).Error)
	detail := models.SaleDetail{SaleID: sale.ID, SellerID: f.seller.ID, DepositGameID: deposit.Games[0].ID, Quantity: 1}
	require.NoError(t, f.db.Create(&detail).Error)

	err = f.svc.Delete(ctx, deposit.ID)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))

	require.NoError(t, f.db.Delete(&detail).Error)
	require.NoError(t, f.svc.Delete(ctx, deposit.ID))

	_, err = f.svc.Get(ctx, deposit.ID)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func (f fixture) stock(t *testing.T, initial, current int) *models.Stock {
	t.Helper()
	row := &models.Stock{
		SessionID:       f.session.ID,
		SellerID:        f.seller.ID,
		GameID:          f.game.ID,
		InitialQuantity: initial,
		CurrentQuantity: current,
	}
	require.NoError(t, f.db.Create(row).Error)
	return row
}

func TestDeleteTakesCopiesOutOfStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	deposit, err := f.svc.Create(ctx, f.input(twoCopies()))
	require.NoError(t, err)
	row := f.stock(t, 5, 4)

	require.NoError(t, f.svc.Delete(ctx, deposit.ID))

	var after models.Stock
	require.NoError(t, f.db.First(&after, "id = ?", row.ID).Error)
	assert.Equal(t, 3, after.InitialQuantity)
	assert.Equal(t, 2, after.CurrentQuantity)
}

func TestDeleteStockReleaseStopsAtZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	deposit, err := f.svc.Create(ctx, f.input(twoCopies()))
	require.NoError(t, err)
	row := f.stock(t, 1, 1)

	require.NoError(t, f.svc.Delete(ctx, deposit.ID))

	var after models.Stock
	require.NoError(t, f.db.First(&after, "id = ?", row.ID).Error)
	assert.Zero(t, after.InitialQuantity)
	assert.Zero(t, after.CurrentQuantity)
}

func TestLabelsOnePerCopy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.input(twoCopies()))
	require.NoError(t, err)

	deposit, err := NewRepository(f.db).FindByID(ctx, created.ID)
	require.NoError(t, err)
	labels := BuildLabels(deposit)
	require.Len(t, labels, 2)
	assert.Equal(t, LabelCode(created.Games[0].ID, "0"), labels[0].Code)
	assert.Equal(t, "Léa", labels[1].Seller)
	assert.Equal(t, "bon", labels[1].State)

	body, err := f.svc.Labels(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}
