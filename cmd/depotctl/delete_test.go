package main

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/depotvente-backend/pkg/types"
)

func TestDeleteSellersFetchesListOnce(t *testing.T) {
	keep := types.Seller{ID: uuid.New(), Name: "Noé"}
	first := types.Seller{ID: uuid.New(), Name: "Inès"}
	second := types.Seller{ID: uuid.New(), Name: "Zoé"}
	listCalls := 0
	var deleted []string
	a, out := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/sellers":
			listCalls++
			writeData(w, http.StatusOK, []types.Seller{keep, first, second})
		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/sellers/"):
			deleted = append(deleted, strings.TrimPrefix(r.URL.Path, "/sellers/"))
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	})

	err := runDelete(context.Background(), a, []string{"sellers", "-id", first.ID.String(), "-id", second.ID.String()})
	require.NoError(t, err)

	assert.Equal(t, 1, listCalls)
	assert.Equal(t, []string{first.ID.String(), second.ID.String()}, deleted)
	assert.Contains(t, out.String(), "supprimé: Inès")
	assert.Contains(t, out.String(), "supprimé: Zoé")
	assert.Contains(t, out.String(), "1 restant(s)")
}

func TestDeleteUnknownIDMakesNoCall(t *testing.T) {
	deletes := 0
	a, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deletes++
		}
		writeData(w, http.StatusOK, []types.Game{{ID: uuid.New(), Name: "Azul"}})
	})

	err := runDelete(context.Background(), a, []string{"games", "-id", uuid.NewString()})
	assert.ErrorContains(t, err, "introuvable")
	assert.Zero(t, deletes)
}

func TestDeleteRequiresID(t *testing.T) {
	a, _ := newTestApp(t, http.NotFound)
	assert.EqualError(t, runDelete(context.Background(), a, []string{"buyers"}), "-id est requis")
}
