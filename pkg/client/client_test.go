package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/google/uuid"
)

func writeData(t *testing.T, w http.ResponseWriter, status int, data any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(types.Envelope[any]{Data: data}); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, append([]Option{WithHTTPClient(srv.Client())}, opts...)...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New("  "); err == nil {
		t.Fatal("expected error for empty base url")
	}
	if _, err := New("not a url"); err == nil {
		t.Fatal("expected error for invalid base url")
	}
}

func TestBearerTokenInjected(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeData(t, w, http.StatusOK, []types.Seller{})
	})

	if _, err := c.Sellers.List(context.Background(), SellerQuery{}); err != nil {
		t.Fatalf("list without token: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no authorization header, got %q", gotAuth)
	}

	if err := c.Tokens().Save("tok-123"); err != nil {
		t.Fatalf("save token: %v", err)
	}
	if _, err := c.Sellers.List(context.Background(), SellerQuery{}); err != nil {
		t.Fatalf("list with token: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestUnauthorizedRedirectsToLogin(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		var redirectedTo string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}, WithRedirect(func(path string) { redirectedTo = path }))
		_ = c.Tokens().Save("expired")

		_, err := c.Games.List(context.Background(), "")
		if !errors.Is(err, ErrLoginRequired) {
			t.Fatalf("status %d: expected ErrLoginRequired, got %v", status, err)
		}
		var loginErr *LoginRequiredError
		if !errors.As(err, &loginErr) || loginErr.RedirectTo != "/login" {
			t.Fatalf("status %d: expected redirect to /login, got %+v", status, loginErr)
		}
		if redirectedTo != "/login" {
			t.Fatalf("status %d: redirect hook got %q", status, redirectedTo)
		}
		if token, _ := c.Tokens().Load(); token != "" {
			t.Fatalf("status %d: token should be cleared, got %q", status, token)
		}
	}
}

func TestAPIErrorMessages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sellers":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			_, _ = io.WriteString(w, `{"error":{"code":"CONFLICT","message":"ce vendeur a encore des dépôts"}}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	_, err := c.Sellers.Create(context.Background(), SellerRequest{Name: "Noé"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "ce vendeur a encore des dépôts" || apiErr.Code != "CONFLICT" || apiErr.Status != http.StatusConflict {
		t.Fatalf("unexpected api error %+v", apiErr)
	}

	_, err = c.Buyers.List(context.Background(), "")
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Error() != "Erreur lors du chargement des acheteurs" {
		t.Fatalf("unexpected fallback message %q", apiErr.Error())
	}
}

func TestQueryFiltersAndPaths(t *testing.T) {
	sessionID := uuid.New()
	sellerID := uuid.New()
	var gotPath, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		writeData(t, w, http.StatusOK, []types.DepositGame{{ID: uuid.New(), ExemplarCount: 2}})
	})

	rows, err := c.Deposits.Games(context.Background(), DepositQuery{SessionID: &sessionID, SellerID: &sellerID})
	if err != nil {
		t.Fatalf("deposit games: %v", err)
	}
	if len(rows) != 1 || rows[0].ExemplarCount != 2 {
		t.Fatalf("unexpected rows %+v", rows)
	}
	if gotPath != "/deposits/games" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if !strings.Contains(gotQuery, "session_id="+sessionID.String()) || !strings.Contains(gotQuery, "seller_id="+sellerID.String()) {
		t.Fatalf("unexpected query %q", gotQuery)
	}
}

func TestSaleUpdateClearsBuyer(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Fatalf("expected PUT, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		writeData(t, w, http.StatusOK, types.Sale{ID: uuid.New()})
	})

	if _, err := c.Sales.Update(context.Background(), uuid.New(), SaleUpdate{SetBuyer: true}); err != nil {
		t.Fatalf("update: %v", err)
	}
	value, present := body["buyer_id"]
	if !present || value != nil {
		t.Fatalf("expected explicit null buyer_id, got %v", body)
	}
}

func TestDownloadAndUpload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/csvImport/import":
			file, header, err := r.FormFile("file")
			if err != nil {
				t.Fatalf("form file: %v", err)
			}
			raw, _ := io.ReadAll(file)
			if header.Filename != "jeux.csv" || !strings.HasPrefix(string(raw), "name,publisher") {
				t.Fatalf("unexpected upload %q %q", header.Filename, raw)
			}
			writeData(t, w, http.StatusOK, types.ImportResult{Created: 1, Errors: []string{}})
		default:
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition", `attachment; filename="facture-fac-1.pdf"`)
			_, _ = io.WriteString(w, "%PDF-1.3")
		}
	})

	result, err := c.CSVImport.ImportGames(context.Background(), "jeux.csv", strings.NewReader("name,publisher\nAzul,Plan B\n"))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Created != 1 {
		t.Fatalf("unexpected result %+v", result)
	}

	file, err := c.Invoices.Download(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if file.Filename != "facture-fac-1.pdf" || string(file.Content) != "%PDF-1.3" {
		t.Fatalf("unexpected file %+v", file)
	}
}
