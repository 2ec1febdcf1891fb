package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/depotvente-backend/pkg/db/dbtest"
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
)

type ctxKey struct{}

func TestDBCarriesContext(t *testing.T) {
	db := dbtest.Open(t)
	base := NewBase(db)

	ctx := context.WithValue(context.Background(), ctxKey{}, "v")
	scoped := base.DB(ctx)
	require.NotNil(t, scoped.Statement)
	assert.Equal(t, ctx, scoped.Statement.Context)

	assert.Same(t, db, base.DB(nil))
	assert.Same(t, db, base.With(nil).db)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	db := dbtest.Open(t)
	base := NewBase(db)

	boom := errors.New("boom")
	err := base.Transaction(context.Background(), func(tx *gorm.DB) error {
		require.NoError(t, tx.Create(&models.Seller{ID: uuid.New(), Name: "Alice", Email: "alice@depot.fr"}).Error)
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&models.Seller{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestByID(t *testing.T) {
	db := dbtest.Open(t)
	base := NewBase(db)
	ctx := context.Background()

	seller := models.Seller{ID: uuid.New(), Name: "Bruno", Email: "bruno@depot.fr"}
	require.NoError(t, db.Create(&seller).Error)

	got, err := ByID[models.Seller](ctx, base, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bruno", got.Name)

	_, err = ByID[models.Seller](ctx, base, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
