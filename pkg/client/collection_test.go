package client

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/google/uuid"
)

func TestDeletedSellerLeavesListWithoutRefetch(t *testing.T) {
	keep := types.Seller{ID: uuid.New(), Name: "Noé"}
	drop := types.Seller{ID: uuid.New(), Name: "Inès"}
	listCalls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/sellers":
			listCalls++
			writeData(t, w, http.StatusOK, []types.Seller{keep, drop})
		case r.Method == http.MethodDelete && strings.HasSuffix(r.URL.Path, drop.ID.String()):
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodPost:
			writeData(t, w, http.StatusCreated, types.Seller{ID: uuid.New(), Name: "Zoé"})
		default:
			t.Fatalf("unexpected call %s %s", r.Method, r.URL.Path)
		}
	})
	ctx := context.Background()

	sellers := NewCollection(
		func(ctx context.Context) ([]types.Seller, error) { return c.Sellers.List(ctx, SellerQuery{}) },
		func(s types.Seller) uuid.UUID { return s.ID },
	)
	if err := sellers.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	err := sellers.Remove(ctx, drop.ID, func(ctx context.Context) error { return c.Sellers.Delete(ctx, drop.ID) })
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	items := sellers.Items()
	if len(items) != 1 || items[0].ID != keep.ID {
		t.Fatalf("unexpected items after delete %+v", items)
	}
	if _, ok := sellers.Find(drop.ID); ok {
		t.Fatal("deleted seller still present")
	}

	if _, err := sellers.Add(ctx, func(ctx context.Context) (*types.Seller, error) {
		return c.Sellers.Create(ctx, SellerRequest{Name: "Zoé", Email: "zoe@example.com"})
	}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if sellers.Len() != 2 {
		t.Fatalf("expected 2 sellers, got %d", sellers.Len())
	}
	if listCalls != 1 {
		t.Fatalf("expected a single fetch, got %d", listCalls)
	}
}

func TestFailedRemoveKeepsItem(t *testing.T) {
	id := uuid.New()
	sellers := NewCollection(
		func(context.Context) ([]types.Seller, error) { return []types.Seller{{ID: id}}, nil },
		func(s types.Seller) uuid.UUID { return s.ID },
	)
	if err := sellers.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	err := sellers.Remove(context.Background(), id, func(context.Context) error {
		return &APIError{Message: "Erreur lors de la suppression du vendeur"}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if sellers.Len() != 1 {
		t.Fatal("item should stay after failed delete")
	}
}
