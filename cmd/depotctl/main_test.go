package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/depotvente-backend/pkg/auth"
	"github.com/angelmondragon/depotvente-backend/pkg/client"
	"github.com/angelmondragon/depotvente-backend/pkg/config"
	"github.com/angelmondragon/depotvente-backend/pkg/enums"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
)

func signIn(t *testing.T, a *app) {
	t.Helper()
	token, err := auth.MintAccessToken(config.JWTConfig{Secret: "s", Issuer: "depotvente", ExpirationMinutes: 5}, time.Now(), auth.AccessTokenPayload{
		UserID:   uuid.New(),
		Email:    "lea@example.com",
		Username: "lea",
		Role:     enums.RoleGestionnaire,
	})
	require.NoError(t, err)
	require.NoError(t, a.api.Tokens().Save(token))
}

func TestDispatchRequiresLoginBeforeCalls(t *testing.T) {
	calls := 0
	a, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeData(w, http.StatusOK, []types.Session{})
	})

	for _, name := range []string{"whoami", "list", "balance", "delete"} {
		err := a.dispatch(context.Background(), name, []string{"sessions"})
		assert.ErrorIs(t, err, client.ErrLoginRequired, name)
	}
	assert.Zero(t, calls)
}

func TestDispatchClearsUnusableToken(t *testing.T) {
	a, _ := newTestApp(t, http.NotFound)
	require.NoError(t, a.api.Tokens().Save("garbage"))

	err := a.dispatch(context.Background(), "list", []string{"sessions"})
	assert.ErrorIs(t, err, client.ErrLoginRequired)
	token, err := a.api.Tokens().Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestDispatchRunsAfterLogin(t *testing.T) {
	a, out := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, []types.Session{{ID: uuid.New(), Name: "Printemps"}})
	})
	signIn(t, a)

	require.NoError(t, a.dispatch(context.Background(), "list", []string{"sessions"}))
	assert.Contains(t, out.String(), "Printemps")
}

func TestDispatchLetsLogoutThroughWithoutToken(t *testing.T) {
	a, out := newTestApp(t, http.NotFound)
	require.NoError(t, a.dispatch(context.Background(), "logout", nil))
	assert.Contains(t, out.String(), "déconnecté")
}

func TestDispatchUnknownCommand(t *testing.T) {
	a, _ := newTestApp(t, http.NotFound)
	assert.Error(t, a.dispatch(context.Background(), "widgets", nil))
}
