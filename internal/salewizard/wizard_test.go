package salewizard

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/depotvente-backend/pkg/client"
	"github.com/angelmondragon/depotvente-backend/pkg/enums"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeAPI struct {
	sessions     []types.Session
	buyers       []types.Buyer
	sellers      map[uuid.UUID][]types.Seller
	depositGames map[uuid.UUID][]types.DepositGame

	sales      []client.SaleRequest
	details    []client.SaleDetailRequest
	failDetail int
	saleID     uuid.UUID
}

func (f *fakeAPI) ActiveSessions(context.Context) ([]types.Session, error) { return f.sessions, nil }
func (f *fakeAPI) Buyers(context.Context) ([]types.Buyer, error)           { return f.buyers, nil }

func (f *fakeAPI) SellersWithDeposits(_ context.Context, sessionID uuid.UUID) ([]types.Seller, error) {
	return f.sellers[sessionID], nil
}

func (f *fakeAPI) DepositGames(_ context.Context, _ uuid.UUID, sellerID uuid.UUID) ([]types.DepositGame, error) {
	return f.depositGames[sellerID], nil
}

func (f *fakeAPI) CreateSale(_ context.Context, req client.SaleRequest) (*types.Sale, error) {
	f.sales = append(f.sales, req)
	return &types.Sale{ID: f.saleID, SessionID: req.SessionID, SaleStatus: enums.SaleStatusPending}, nil
}

func (f *fakeAPI) CreateSaleDetail(_ context.Context, req client.SaleDetailRequest) (*types.SaleDetail, error) {
	if f.failDetail > 0 && len(f.details)+1 == f.failDetail {
		return nil, &client.APIError{Status: 400, Message: "quantité supérieure au stock disponible"}
	}
	f.details = append(f.details, req)
	return &types.SaleDetail{ID: uuid.New(), SaleID: req.SaleID, Quantity: req.Quantity}, nil
}

func (f *fakeAPI) GetSale(_ context.Context, id uuid.UUID) (*types.Sale, error) {
	details := make([]types.SaleDetail, 0, len(f.details))
	for _, d := range f.details {
		details = append(details, types.SaleDetail{SaleID: id, DepositGameID: d.DepositGameID, Quantity: d.Quantity})
	}
	return &types.Sale{ID: id, Details: details}, nil
}

type scenario struct {
	api      *fakeAPI
	winter   uuid.UUID
	spring   uuid.UUID
	noe      uuid.UUID
	ines     uuid.UUID
	azul     uuid.UUID
	catan    uuid.UUID
	noCopies uuid.UUID
	buyer    uuid.UUID
	wizard   *Wizard
	startErr error
}

func newScenario() *scenario {
	s := &scenario{
		winter: uuid.New(), spring: uuid.New(),
		noe: uuid.New(), ines: uuid.New(),
		azul: uuid.New(), catan: uuid.New(), noCopies: uuid.New(),
		buyer: uuid.New(),
	}
	s.api = &fakeAPI{
		saleID:   uuid.New(),
		sessions: []types.Session{{ID: s.winter, Name: "Hiver", Status: true}, {ID: s.spring, Name: "Printemps", Status: true}},
		buyers:   []types.Buyer{{ID: s.buyer, Name: "Inès"}},
		sellers: map[uuid.UUID][]types.Seller{
			s.winter: {{ID: s.noe, Name: "Noé"}},
			s.spring: {{ID: s.noe, Name: "Noé"}, {ID: s.ines, Name: "Inès"}},
		},
		depositGames: map[uuid.UUID][]types.DepositGame{
			s.noe: {
				{ID: s.azul, Price: decimal.RequireFromString("20"), ExemplarCount: 3},
				{ID: s.catan, Price: decimal.RequireFromString("12.5"), ExemplarCount: 1},
				{ID: s.noCopies, Price: decimal.RequireFromString("5"), ExemplarCount: 0},
			},
		},
	}
	s.wizard = New(s.api)
	s.startErr = s.wizard.Start(context.Background())
	return s
}

func (s *scenario) toGames(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	if s.startErr != nil {
		t.Fatalf("start: %v", s.startErr)
	}
	if err := s.wizard.SelectSession(ctx, s.winter); err != nil {
		t.Fatalf("select session: %v", err)
	}
	if err := s.wizard.SelectSeller(ctx, s.noe); err != nil {
		t.Fatalf("select seller: %v", err)
	}
	if err := s.wizard.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
}

func TestSessionChangeResetsSeller(t *testing.T) {
	s := newScenario()
	s.toGames(t)
	if err := s.wizard.Toggle(s.azul); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if err := s.wizard.SelectSession(context.Background(), s.spring); err != nil {
		t.Fatalf("select session: %v", err)
	}
	if s.wizard.SellerID() != nil {
		t.Fatal("seller should be reset after changing the session")
	}
	if len(s.wizard.Lines()) != 0 || len(s.wizard.AvailableGames()) != 0 {
		t.Fatal("game selection should be reset after changing the session")
	}
	if s.wizard.Step() != StepSelect {
		t.Fatalf("expected first step, got %d", s.wizard.Step())
	}
	if got := len(s.wizard.Sellers()); got != 2 {
		t.Fatalf("expected the spring sellers, got %d", got)
	}
	if err := s.wizard.Next(); !errors.Is(err, ErrNoSeller) {
		t.Fatalf("expected ErrNoSeller, got %v", err)
	}
}

func TestSellerMustHaveDepositInSession(t *testing.T) {
	s := newScenario()
	ctx := context.Background()
	if err := s.wizard.SelectSeller(ctx, s.noe); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if err := s.wizard.SelectSession(ctx, s.winter); err != nil {
		t.Fatalf("select session: %v", err)
	}
	if err := s.wizard.SelectSeller(ctx, s.ines); !errors.Is(err, ErrUnknownSeller) {
		t.Fatalf("expected ErrUnknownSeller, got %v", err)
	}
	if err := s.wizard.SelectSession(ctx, uuid.New()); !errors.Is(err, ErrUnknownSession) {
		t.Fatalf("expected ErrUnknownSession, got %v", err)
	}
}

func TestRowsWithoutCopiesAreHidden(t *testing.T) {
	s := newScenario()
	s.toGames(t)
	for _, row := range s.wizard.AvailableGames() {
		if row.ID == s.noCopies {
			t.Fatal("game without copies should not be offered")
		}
	}
	if err := s.wizard.Toggle(s.noCopies); !errors.Is(err, ErrUnknownGame) {
		t.Fatalf("expected ErrUnknownGame, got %v", err)
	}
}

func TestQuantityClampedToExemplarCount(t *testing.T) {
	s := newScenario()
	s.toGames(t)
	if err := s.wizard.Toggle(s.azul); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got := s.wizard.Quantity(s.azul); got != 1 {
		t.Fatalf("expected default quantity 1, got %d", got)
	}

	if !s.wizard.SetQuantity(s.azul, 3) {
		t.Fatal("quantity equal to the exemplar count should be accepted")
	}
	if s.wizard.SetQuantity(s.azul, 4) {
		t.Fatal("quantity above the exemplar count should be rejected")
	}
	if s.wizard.SetQuantity(s.azul, 0) {
		t.Fatal("quantity below 1 should be rejected")
	}
	if got := s.wizard.Quantity(s.azul); got != 3 {
		t.Fatalf("rejected quantity must leave the previous one, got %d", got)
	}
	if s.wizard.SetQuantity(s.catan, 1) {
		t.Fatal("unselected game should not take a quantity")
	}

	if err := s.wizard.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	sale, err := s.wizard.Confirm(context.Background())
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if len(sale.Details) != 1 || sale.Details[0].Quantity != 3 {
		t.Fatalf("unexpected sale %+v", sale)
	}
}

func TestRecapRemovalAndTotal(t *testing.T) {
	s := newScenario()
	s.toGames(t)
	_ = s.wizard.Toggle(s.azul)
	_ = s.wizard.Toggle(s.catan)
	s.wizard.SetQuantity(s.azul, 2)
	if err := s.wizard.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if !s.wizard.Total().Equal(decimal.RequireFromString("52.5")) {
		t.Fatalf("unexpected total %s", s.wizard.Total())
	}

	s.wizard.Remove(s.azul)
	lines := s.wizard.Lines()
	if len(lines) != 1 || lines[0].DepositGame.ID != s.catan {
		t.Fatalf("unexpected lines %+v", lines)
	}
	s.wizard.Remove(s.catan)
	if s.wizard.Step() != StepGames {
		t.Fatalf("empty recap should fall back to game selection, got %d", s.wizard.Step())
	}
}

func TestConfirmCreatesSaleThenDetailsInOrder(t *testing.T) {
	s := newScenario()
	s.toGames(t)
	if err := s.wizard.SelectBuyer(&s.buyer); err != nil {
		t.Fatalf("select buyer: %v", err)
	}
	_ = s.wizard.Toggle(s.catan)
	_ = s.wizard.Toggle(s.azul)
	_ = s.wizard.Next()

	sale, err := s.wizard.Confirm(context.Background())
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if sale.ID != s.api.saleID {
		t.Fatalf("unexpected sale id %s", sale.ID)
	}
	if len(s.api.sales) != 1 || *s.api.sales[0].BuyerID != s.buyer || s.api.sales[0].SessionID != s.winter {
		t.Fatalf("unexpected sale request %+v", s.api.sales)
	}
	if len(s.api.details) != 2 || s.api.details[0].DepositGameID != s.catan || s.api.details[1].DepositGameID != s.azul {
		t.Fatalf("details not created in selection order: %+v", s.api.details)
	}
	for _, d := range s.api.details {
		if d.SellerID != s.noe || d.SaleID != s.api.saleID {
			t.Fatalf("unexpected detail %+v", d)
		}
	}
}

func TestConfirmFailureKeepsPartialSale(t *testing.T) {
	s := newScenario()
	s.toGames(t)
	_ = s.wizard.Toggle(s.azul)
	_ = s.wizard.Toggle(s.catan)
	_ = s.wizard.Next()
	s.api.failDetail = 2

	_, err := s.wizard.Confirm(context.Background())
	var confirmErr *ConfirmError
	if !errors.As(err, &confirmErr) {
		t.Fatalf("expected ConfirmError, got %v", err)
	}
	if confirmErr.SaleID == nil || *confirmErr.SaleID != s.api.saleID {
		t.Fatalf("expected partial sale id, got %v", confirmErr.SaleID)
	}
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatal("cause should be kept")
	}
	if len(s.api.details) != 1 {
		t.Fatalf("first detail should persist, got %d", len(s.api.details))
	}
}
