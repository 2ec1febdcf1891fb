package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/depotvente-backend/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInput(name string, active bool) CreateSessionInput {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	return CreateSessionInput{
		Name:       name,
		StartDate:  start,
		EndDate:    start.Add(48 * time.Hour),
		Status:     active,
		Fees:       decimal.NewFromInt(10),
		Commission: decimal.NewFromInt(5),
	}
}

func TestCreateValidatesRatesAndDates(t *testing.T) {
	svc, err := NewService(NewRepository(dbtest.Open(t)))
	require.NoError(t, err)
	ctx := context.Background()

	bad := newInput("Bourse", true)
	bad.Fees = decimal.NewFromInt(101)
	_, err = svc.Create(ctx, bad)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	bad = newInput("Bourse", true)
	bad.Commission = decimal.NewFromInt(-1)
	_, err = svc.Create(ctx, bad)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	bad = newInput("Bourse", true)
	bad.EndDate = bad.StartDate.Add(-time.Hour)
	_, err = svc.Create(ctx, bad)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	bad = newInput("", true)
	_, err = svc.Create(ctx, bad)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestActiveListsOnlyOpenSessions(t *testing.T) {
	svc, err := NewService(NewRepository(dbtest.Open(t)))
	require.NoError(t, err)
	ctx := context.Background()

	open, err := svc.Create(ctx, newInput("Ouverte", true))
	require.NoError(t, err)
	closed, err := svc.Create(ctx, newInput("Fermée", false))
	require.NoError(t, err)

	active, err := svc.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, open.ID, active[0].ID)

	status := true
	_, err = svc.Update(ctx, closed.ID, UpdateSessionInput{Status: &status})
	require.NoError(t, err)

	active, err = svc.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestDeleteSession(t *testing.T) {
	svc, err := NewService(NewRepository(dbtest.Open(t)))
	require.NoError(t, err)
	ctx := context.Background()

	session, err := svc.Create(ctx, newInput("Éphémère", false))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, session.ID))

	err = svc.Delete(ctx, session.ID)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}
