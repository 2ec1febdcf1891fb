package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/depotvente-backend/internal/sales"
	"github.com/angelmondragon/depotvente-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/angelmondragon/depotvente-backend/pkg/metrics"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
)

type stubSalesService struct {
	sales.Service
	listParams  sales.ListParams
	update      sales.UpdateSaleInput
	createErr   error
	detailInput sales.CreateSaleDetailInput
}

func (s *stubSalesService) List(ctx context.Context, params sales.ListParams) (*types.Page[types.Sale], error) {
	s.listParams = params
	return &types.Page[types.Sale]{Items: []types.Sale{}, NextCursor: "next"}, nil
}

func (s *stubSalesService) Create(ctx context.Context, input sales.CreateSaleInput) (*types.Sale, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &types.Sale{ID: uuid.New(), SessionID: input.SessionID, SaleStatus: enums.SaleStatusPending}, nil
}

func (s *stubSalesService) Update(ctx context.Context, id uuid.UUID, input sales.UpdateSaleInput) (*types.Sale, error) {
	s.update = input
	status := enums.SaleStatusPending
	if input.SaleStatus != nil {
		status = *input.SaleStatus
	}
	return &types.Sale{ID: id, SaleStatus: status}, nil
}

func (s *stubSalesService) CreateDetail(ctx context.Context, input sales.CreateSaleDetailInput) (*types.SaleDetail, error) {
	s.detailInput = input
	return &types.SaleDetail{
		ID:            uuid.New(),
		SaleID:        input.SaleID,
		SellerID:      input.SellerID,
		DepositGameID: input.DepositGameID,
		Quantity:      input.Quantity,
		DepositGame:   &types.DepositGame{Price: decimal.RequireFromString("12.50")},
	}, nil
}

func TestSaleListParsesQuery(t *testing.T) {
	svc := &stubSalesService{}
	sessionID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/sales?session_id="+sessionID.String()+"&limit=20&cursor=abc", nil)
	rec := httptest.NewRecorder()

	SaleList(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.listParams.SessionID == nil || *svc.listParams.SessionID != sessionID {
		t.Fatalf("expected session filter, got %+v", svc.listParams)
	}
	if svc.listParams.Limit != 20 || svc.listParams.Cursor != "abc" {
		t.Fatalf("unexpected page params %+v", svc.listParams)
	}
	page := decodeData[types.Page[types.Sale]](t, rec)
	if page.NextCursor != "next" {
		t.Fatalf("expected next cursor, got %q", page.NextCursor)
	}
}

func TestSaleListRejectsOversizedLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/sales?limit=1000", nil)
	rec := httptest.NewRecorder()

	SaleList(&stubSalesService{}, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestSaleCreateRecordsStatusMetric(t *testing.T) {
	reg := prometheus.NewRegistry()
	domain := metrics.NewDomainMetrics(reg)
	body := `{"session_id":"` + uuid.NewString() + `"}`
	rec := httptest.NewRecorder()

	SaleCreate(&stubSalesService{}, domain, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/sales", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, mf := range mfs {
		if mf.GetName() == "depotvente_sales_total" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected sales counter to be recorded")
	}
}

func TestSaleCreateRequiresSession(t *testing.T) {
	rec := httptest.NewRecorder()
	SaleCreate(&stubSalesService{}, nil, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/sales", strings.NewReader(`{}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestSaleCreateSurfacesInactiveSession(t *testing.T) {
	svc := &stubSalesService{createErr: pkgerrors.New(pkgerrors.CodeStateConflict, "la session n'est pas active")}
	body := `{"session_id":"` + uuid.NewString() + `"}`
	rec := httptest.NewRecorder()

	SaleCreate(svc, nil, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/sales", strings.NewReader(body)))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != string(pkgerrors.CodeStateConflict) {
		t.Fatalf("expected STATE_CONFLICT got %s", code)
	}
}

func TestSaleUpdateDistinguishesNullBuyer(t *testing.T) {
	id := uuid.New()

	svc := &stubSalesService{}
	req := withURLParams(jsonRequest(http.MethodPut, "/sales/"+id.String(), strings.NewReader(`{"buyer_id":null,"sale_status":"annulé"}`)), map[string]string{"id": id.String()})
	rec := httptest.NewRecorder()
	SaleUpdate(svc, nil, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if !svc.update.BuyerID.Set || svc.update.BuyerID.Value != nil {
		t.Fatalf("expected explicit null buyer, got %+v", svc.update.BuyerID)
	}
	if svc.update.SaleStatus == nil || *svc.update.SaleStatus != enums.SaleStatusCancelled {
		t.Fatalf("expected cancelled status, got %v", svc.update.SaleStatus)
	}

	svc = &stubSalesService{}
	req = withURLParams(jsonRequest(http.MethodPut, "/sales/"+id.String(), strings.NewReader(`{}`)), map[string]string{"id": id.String()})
	SaleUpdate(svc, nil, nil).ServeHTTP(httptest.NewRecorder(), req)
	if svc.update.BuyerID.Set {
		t.Fatalf("absent buyer must leave the field untouched")
	}
}

func TestSaleUpdateRejectsUnknownStatus(t *testing.T) {
	id := uuid.New()
	req := withURLParams(jsonRequest(http.MethodPut, "/sales/"+id.String(), strings.NewReader(`{"sale_status":"livré"}`)), map[string]string{"id": id.String()})
	rec := httptest.NewRecorder()

	SaleUpdate(&stubSalesService{}, nil, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestSaleDetailCreateValidatesQuantity(t *testing.T) {
	body := `{"sale_id":"` + uuid.NewString() + `","seller_id":"` + uuid.NewString() + `","deposit_game_id":"` + uuid.NewString() + `","quantity":0}`
	rec := httptest.NewRecorder()

	SaleDetailCreate(&stubSalesService{}, nil, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/saleDetails", strings.NewReader(body)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestSaleDetailCreate(t *testing.T) {
	svc := &stubSalesService{}
	saleID := uuid.New()
	body := `{"sale_id":"` + saleID.String() + `","seller_id":"` + uuid.NewString() + `","deposit_game_id":"` + uuid.NewString() + `","quantity":2}`
	rec := httptest.NewRecorder()

	SaleDetailCreate(svc, metrics.NewDomainMetrics(prometheus.NewRegistry()), nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/saleDetails", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.detailInput.SaleID != saleID || svc.detailInput.Quantity != 2 {
		t.Fatalf("unexpected detail input %+v", svc.detailInput)
	}
	detail := decodeData[types.SaleDetail](t, rec)
	if detail.Quantity != 2 {
		t.Fatalf("expected quantity 2 got %d", detail.Quantity)
	}
}
