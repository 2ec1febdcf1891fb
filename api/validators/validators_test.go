package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type samplePayload struct {
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price" validate:"gte=0"`
	State string          `json:"state" validate:"required,exemplar_state"`
}

func TestDecodeJSONBodyValidates(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Catan","price":"12.50","state":"bon"}`))
	var p samplePayload
	if err := DecodeJSONBody(req, &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Catan" || !p.Price.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected payload %+v", p)
	}
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"","price":-1,"state":"cassé"}`))
	var p samplePayload
	err := DecodeJSONBody(req, &p)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	for _, field := range []string{"name", "price", "state"} {
		if _, ok := details[field]; !ok {
			t.Fatalf("expected error for %s in %v", field, details)
		}
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","price":1,"state":"bon","extra":true}`))
	var p samplePayload
	if err := DecodeJSONBody(req, &p); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestDecodeJSONBodyRejectsTrailingData(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","price":1,"state":"bon"} {"name":"y"}`))
	var p samplePayload
	if !pkgerrors.HasCode(DecodeJSONBody(req, &p), pkgerrors.CodeValidation) {
		t.Fatal("expected trailing JSON to be rejected")
	}
}

func TestDecodeJSONBodyRejectsOversizedBody(t *testing.T) {
	huge := `{"name":"` + strings.Repeat("a", maxBodyBytes) + `","price":1,"state":"bon"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(huge))
	var p samplePayload
	err := DecodeJSONBody(req, &p)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Message() != "corps de requête trop volumineux" {
		t.Fatalf("expected size error, got %v", err)
	}
}

func TestParseQueryHelpers(t *testing.T) {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/?limit=5&session_id="+id.String()+"&bad=nope", nil)

	limit, err := ParseQueryInt(req, "limit", 10, 1, 50)
	if err != nil || limit != 5 {
		t.Fatalf("unexpected limit %d %v", limit, err)
	}
	if _, err := ParseQueryInt(req, "bad", 10, 1, 50); err == nil {
		t.Fatal("expected numeric error")
	}
	got, err := ParseQueryUUID(req, "session_id")
	if err != nil || got == nil || *got != id {
		t.Fatalf("unexpected uuid %v %v", got, err)
	}
	missing, err := ParseQueryUUID(req, "seller_id")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for absent param")
	}
	if _, err := ParseQueryUUID(req, "bad"); err == nil {
		t.Fatal("expected uuid error")
	}
}

func TestParseURLUUID(t *testing.T) {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/sellers/"+id.String(), nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	got, err := ParseURLUUID(req, "id")
	if err != nil || got != id {
		t.Fatalf("unexpected %v %v", got, err)
	}
	if _, err := ParseURLUUID(req, "other"); err == nil {
		t.Fatal("expected error for missing param")
	}
}

func TestSanitize(t *testing.T) {
	if got := SanitizeString("  Jeux  ", 3); got != "Jeu" {
		t.Fatalf("unexpected sanitize %q", got)
	}
	blank := "   "
	if SanitizeOptional(&blank, 0) != nil {
		t.Fatal("blank optional should become nil")
	}
}
