package stocks

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/depotvente-backend/pkg/db/dbtest"
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	svc     Service
	repo    Repository
	session models.Session
	seller  models.Seller
	game    models.Game
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := dbtest.Open(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)

	f := fixture{
		db:      db,
		svc:     svc,
		repo:    repo,
		session: models.Session{Name: "Printemps", StartDate: time.Now(), EndDate: time.Now(), Status: true},
		seller:  models.Seller{Name: "Gaspard", Email: "gaspard@example.com"},
		game:    models.Game{Name: "Splendor", Publisher: "Space Cowboys"},
	}
	require.NoError(t, db.Create(&f.session).Error)
	require.NoError(t, db.Create(&f.seller).Error)
	require.NoError(t, db.Create(&f.game).Error)
	return f
}

func (f fixture) upsert(n int) UpsertStockInput {
	return UpsertStockInput{
		SessionID:       f.session.ID,
		SellerID:        f.seller.ID,
		GameID:          f.game.ID,
		InitialQuantity: n,
		CurrentQuantity: n,
	}
}

func TestUpsertAccumulatesOnSameKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, created, err := f.svc.Upsert(ctx, f.upsert(2))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 2, first.InitialQuantity)

	second, created, err := f.svc.Upsert(ctx, f.upsert(3))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.InitialQuantity)
	assert.Equal(t, 5, second.CurrentQuantity)
	require.NotNil(t, second.Game)
	assert.Equal(t, "Splendor", second.Game.Name)
	require.NotNil(t, second.Seller)

	rows, err := f.svc.List(ctx, Filter{GameID: &f.game.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestUpsertRejectsInvalidQuantities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	input := f.upsert(1)
	input.CurrentQuantity = 2
	_, _, err := f.svc.Upsert(ctx, input)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	input = f.upsert(-1)
	_, _, err = f.svc.Upsert(ctx, input)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestUpdateKeepsCurrentWithinBounds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stock, _, err := f.svc.Upsert(ctx, f.upsert(2))
	require.NoError(t, err)

	tooMany := 3
	_, err = f.svc.Update(ctx, stock.ID, UpdateStockInput{CurrentQuantity: &tooMany})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	negative := -1
	_, err = f.svc.Update(ctx, stock.ID, UpdateStockInput{CurrentQuantity: &negative})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	one := 1
	updated, err := f.svc.Update(ctx, stock.ID, UpdateStockInput{CurrentQuantity: &one})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.CurrentQuantity)
}

func TestTakeAndRestore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.Upsert(ctx, f.upsert(2))
	require.NoError(t, err)
	key := Key{SessionID: f.session.ID, SellerID: f.seller.ID, GameID: f.game.ID}

	ok, err := f.repo.Take(ctx, key, 3)
	require.NoError(t, err)
	assert.False(t, ok, "cannot take more than available")

	ok, err = f.repo.Take(ctx, key, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	row, err := f.repo.FindByKey(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 0, row.CurrentQuantity)

	require.NoError(t, f.repo.Restore(ctx, key, 5))
	row, err = f.repo.FindByKey(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 2, row.CurrentQuantity, "restore is capped at the initial quantity")
}

func TestDeleteUnknownStock(t *testing.T) {
	f := newFixture(t)
	err := f.svc.Delete(context.Background(), uuid.New())
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}
