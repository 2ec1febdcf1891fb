package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/depotvente-backend/internal/buyers"
	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
)

type stubBuyerService struct {
	buyers.Service
	updated *buyers.UpdateBuyerInput
}

func (s *stubBuyerService) Update(ctx context.Context, id uuid.UUID, input buyers.UpdateBuyerInput) (*types.Buyer, error) {
	s.updated = &input
	return &types.Buyer{ID: id, Name: "Noé"}, nil
}

func buyerUpdate(svc *stubBuyerService, body string) *httptest.ResponseRecorder {
	id := uuid.NewString()
	req := withURLParams(jsonRequest(http.MethodPut, "/buyers/"+id, strings.NewReader(body)), map[string]string{"id": id})
	rec := httptest.NewRecorder()
	BuyerUpdate(svc, nil).ServeHTTP(rec, req)
	return rec
}

func TestBuyerUpdateRejectsMalformedEmail(t *testing.T) {
	svc := &stubBuyerService{}
	rec := buyerUpdate(svc, `{"email":"pas-un-email"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rec.Code, rec.Body.String())
	}
	if code := decodeErrorCode(t, rec); code != string(pkgerrors.CodeValidation) {
		t.Fatalf("expected %s got %s", pkgerrors.CodeValidation, code)
	}
	if svc.updated != nil {
		t.Fatal("service should not be called")
	}
}

func TestBuyerUpdateEmptyEmailClears(t *testing.T) {
	svc := &stubBuyerService{}
	rec := buyerUpdate(svc, `{"email":""}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.updated == nil || svc.updated.Email == nil || *svc.updated.Email != "" {
		t.Fatalf("expected empty email forwarded, got %+v", svc.updated)
	}
}
