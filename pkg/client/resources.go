package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/angelmondragon/depotvente-backend/pkg/enums"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// resource maps the CRUD verbs of one REST collection. one and many are the
// French noun phrases used in fallback error messages.
type resource[T any] struct {
	c    *Client
	path string
	one  string
	many string
}

func (r resource[T]) list(ctx context.Context, query url.Values) ([]T, error) {
	var out []T
	if err := r.c.call(ctx, "du chargement "+r.many, http.MethodGet, r.path, query, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (r resource[T]) get(ctx context.Context, id uuid.UUID) (*T, error) {
	var out T
	if err := r.c.call(ctx, "du chargement "+r.one, http.MethodGet, r.path+"/"+id.String(), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r resource[T]) create(ctx context.Context, body any) (*T, error) {
	var out T
	if err := r.c.call(ctx, "de la création "+r.one, http.MethodPost, r.path, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r resource[T]) update(ctx context.Context, id uuid.UUID, body any) (*T, error) {
	var out T
	if err := r.c.call(ctx, "de la mise à jour "+r.one, http.MethodPut, r.path+"/"+id.String(), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r resource[T]) delete(ctx context.Context, id uuid.UUID) error {
	return r.c.call(ctx, "de la suppression "+r.one, http.MethodDelete, r.path+"/"+id.String(), nil, nil, nil)
}

func setUUID(q url.Values, key string, id *uuid.UUID) {
	if id != nil && *id != uuid.Nil {
		q.Set(key, id.String())
	}
}

func setString(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

// Sellers

type SellerRequest struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

type SellerUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// SellerQuery filters the seller list. SessionID keeps sellers holding at
// least one deposit in that session.
type SellerQuery struct {
	Search    string
	SessionID *uuid.UUID
}

type SellersService struct{ resource[types.Seller] }

func (s *SellersService) List(ctx context.Context, query SellerQuery) ([]types.Seller, error) {
	q := url.Values{}
	setString(q, "search", query.Search)
	setUUID(q, "session_id", query.SessionID)
	return s.list(ctx, q)
}

func (s *SellersService) Get(ctx context.Context, id uuid.UUID) (*types.Seller, error) {
	return s.get(ctx, id)
}

func (s *SellersService) Create(ctx context.Context, req SellerRequest) (*types.Seller, error) {
	return s.create(ctx, req)
}

func (s *SellersService) Update(ctx context.Context, id uuid.UUID, req SellerUpdate) (*types.Seller, error) {
	return s.update(ctx, id, req)
}

func (s *SellersService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.delete(ctx, id)
}

// Buyers

type BuyerRequest struct {
	Name    string  `json:"name"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

type BuyerUpdate struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

type BuyersService struct{ resource[types.Buyer] }

func (s *BuyersService) List(ctx context.Context, search string) ([]types.Buyer, error) {
	q := url.Values{}
	setString(q, "search", search)
	return s.list(ctx, q)
}

func (s *BuyersService) Get(ctx context.Context, id uuid.UUID) (*types.Buyer, error) {
	return s.get(ctx, id)
}

func (s *BuyersService) Create(ctx context.Context, req BuyerRequest) (*types.Buyer, error) {
	return s.create(ctx, req)
}

func (s *BuyersService) Update(ctx context.Context, id uuid.UUID, req BuyerUpdate) (*types.Buyer, error) {
	return s.update(ctx, id, req)
}

func (s *BuyersService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.delete(ctx, id)
}

// Games

type GameRequest struct {
	Name        string          `json:"name"`
	Publisher   string          `json:"publisher"`
	Price       decimal.Decimal `json:"price"`
	Picture     *string         `json:"picture,omitempty"`
	Description *string         `json:"description,omitempty"`
}

type GameUpdate struct {
	Name        *string          `json:"name,omitempty"`
	Publisher   *string          `json:"publisher,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Picture     *string          `json:"picture,omitempty"`
	Description *string          `json:"description,omitempty"`
}

type GamesService struct{ resource[types.Game] }

func (s *GamesService) List(ctx context.Context, search string) ([]types.Game, error) {
	q := url.Values{}
	setString(q, "search", search)
	return s.list(ctx, q)
}

func (s *GamesService) Get(ctx context.Context, id uuid.UUID) (*types.Game, error) {
	return s.get(ctx, id)
}

func (s *GamesService) Create(ctx context.Context, req GameRequest) (*types.Game, error) {
	return s.create(ctx, req)
}

func (s *GamesService) Update(ctx context.Context, id uuid.UUID, req GameUpdate) (*types.Game, error) {
	return s.update(ctx, id, req)
}

func (s *GamesService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.delete(ctx, id)
}

// Stocks lists every stock row of one game across sessions and sellers.
func (s *GamesService) Stocks(ctx context.Context, id uuid.UUID) ([]types.Stock, error) {
	var out []types.Stock
	err := s.c.call(ctx, "du chargement des stocks du jeu", http.MethodGet, s.path+"/"+id.String()+"/stocks", nil, nil, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Sessions

type SessionRequest struct {
	Name       string          `json:"name"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    time.Time       `json:"end_date"`
	Status     bool            `json:"status"`
	Fees       decimal.Decimal `json:"fees"`
	Commission decimal.Decimal `json:"commission"`
}

type SessionUpdate struct {
	Name       *string          `json:"name,omitempty"`
	StartDate  *time.Time       `json:"start_date,omitempty"`
	EndDate    *time.Time       `json:"end_date,omitempty"`
	Status     *bool            `json:"status,omitempty"`
	Fees       *decimal.Decimal `json:"fees,omitempty"`
	Commission *decimal.Decimal `json:"commission,omitempty"`
}

type SessionsService struct{ resource[types.Session] }

func (s *SessionsService) List(ctx context.Context) ([]types.Session, error) {
	return s.list(ctx, nil)
}

// Active lists the sessions flagged active.
func (s *SessionsService) Active(ctx context.Context) ([]types.Session, error) {
	var out []types.Session
	if err := s.c.call(ctx, "du chargement des sessions actives", http.MethodGet, s.path+"/active", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SessionsService) Get(ctx context.Context, id uuid.UUID) (*types.Session, error) {
	return s.get(ctx, id)
}

func (s *SessionsService) Create(ctx context.Context, req SessionRequest) (*types.Session, error) {
	return s.create(ctx, req)
}

func (s *SessionsService) Update(ctx context.Context, id uuid.UUID, req SessionUpdate) (*types.Session, error) {
	return s.update(ctx, id, req)
}

func (s *SessionsService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.delete(ctx, id)
}

// Deposits

type DepositGameRequest struct {
	GameID      uuid.UUID         `json:"game_id"`
	Price       *decimal.Decimal  `json:"price,omitempty"`
	Exemplaires types.Exemplaires `json:"exemplaires"`
}

type DepositRequest struct {
	SellerID     uuid.UUID            `json:"seller_id"`
	SessionID    uuid.UUID            `json:"session_id"`
	DepositDate  *time.Time           `json:"deposit_date,omitempty"`
	DiscountFees *decimal.Decimal     `json:"discount_fees,omitempty"`
	Tag          *string              `json:"tag,omitempty"`
	Games        []DepositGameRequest `json:"games"`
}

type DepositUpdate struct {
	DepositDate  *time.Time       `json:"deposit_date,omitempty"`
	DiscountFees *decimal.Decimal `json:"discount_fees,omitempty"`
	Tag          *string          `json:"tag,omitempty"`
}

type DepositQuery struct {
	SessionID *uuid.UUID
	SellerID  *uuid.UUID
}

func (q DepositQuery) values() url.Values {
	v := url.Values{}
	setUUID(v, "session_id", q.SessionID)
	setUUID(v, "seller_id", q.SellerID)
	return v
}

type DepositsService struct{ resource[types.Deposit] }

func (s *DepositsService) List(ctx context.Context, query DepositQuery) ([]types.Deposit, error) {
	return s.list(ctx, query.values())
}

func (s *DepositsService) Get(ctx context.Context, id uuid.UUID) (*types.Deposit, error) {
	return s.get(ctx, id)
}

func (s *DepositsService) Create(ctx context.Context, req DepositRequest) (*types.Deposit, error) {
	return s.create(ctx, req)
}

func (s *DepositsService) Update(ctx context.Context, id uuid.UUID, req DepositUpdate) (*types.Deposit, error) {
	return s.update(ctx, id, req)
}

func (s *DepositsService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.delete(ctx, id)
}

// Games lists deposit game rows with their exemplar counts.
func (s *DepositsService) Games(ctx context.Context, query DepositQuery) ([]types.DepositGame, error) {
	var out []types.DepositGame
	if err := s.c.call(ctx, "du chargement des jeux déposés", http.MethodGet, s.path+"/games", query.values(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Labels downloads the printable labels of a deposit.
func (s *DepositsService) Labels(ctx context.Context, id uuid.UUID) (*File, error) {
	return s.c.download(ctx, "du téléchargement des étiquettes", s.path+"/"+id.String()+"/labels")
}

// Stocks

// StockRequest is an upsert: quantities are added to an existing row.
type StockRequest struct {
	SessionID       uuid.UUID `json:"session_id"`
	SellerID        uuid.UUID `json:"seller_id"`
	GameID          uuid.UUID `json:"game_id"`
	InitialQuantity int       `json:"initial_quantity"`
	CurrentQuantity int       `json:"current_quantity"`
}

type StockUpdate struct {
	InitialQuantity *int `json:"initial_quantity,omitempty"`
	CurrentQuantity *int `json:"current_quantity,omitempty"`
}

type StockQuery struct {
	SessionID *uuid.UUID
	SellerID  *uuid.UUID
	GameID    *uuid.UUID
}

type StocksService struct{ resource[types.Stock] }

func (s *StocksService) List(ctx context.Context, query StockQuery) ([]types.Stock, error) {
	q := url.Values{}
	setUUID(q, "session_id", query.SessionID)
	setUUID(q, "seller_id", query.SellerID)
	setUUID(q, "game_id", query.GameID)
	return s.list(ctx, q)
}

func (s *StocksService) Get(ctx context.Context, id uuid.UUID) (*types.Stock, error) {
	return s.get(ctx, id)
}

func (s *StocksService) Upsert(ctx context.Context, req StockRequest) (*types.Stock, error) {
	return s.create(ctx, req)
}

func (s *StocksService) Update(ctx context.Context, id uuid.UUID, req StockUpdate) (*types.Stock, error) {
	return s.update(ctx, id, req)
}

func (s *StocksService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.delete(ctx, id)
}

// Sales

type SaleRequest struct {
	SessionID uuid.UUID  `json:"session_id"`
	BuyerID   *uuid.UUID `json:"buyer_id,omitempty"`
	SaleDate  *time.Time `json:"sale_date,omitempty"`
}

// SaleUpdate leaves the buyer untouched unless SetBuyer is true; a nil
// BuyerID with SetBuyer clears it.
type SaleUpdate struct {
	SetBuyer   bool
	BuyerID    *uuid.UUID
	SaleDate   *time.Time
	SaleStatus *enums.SaleStatus
}

func (u SaleUpdate) body() map[string]any {
	body := map[string]any{}
	if u.SetBuyer {
		if u.BuyerID == nil {
			body["buyer_id"] = nil
		} else {
			body["buyer_id"] = u.BuyerID.String()
		}
	}
	if u.SaleDate != nil {
		body["sale_date"] = u.SaleDate
	}
	if u.SaleStatus != nil {
		body["sale_status"] = *u.SaleStatus
	}
	return body
}

type SaleQuery struct {
	SessionID *uuid.UUID
	Limit     int
	Cursor    string
}

type SalesService struct{ resource[types.Sale] }

func (s *SalesService) List(ctx context.Context, query SaleQuery) (*types.Page[types.Sale], error) {
	q := url.Values{}
	setUUID(q, "session_id", query.SessionID)
	setString(q, "cursor", query.Cursor)
	if query.Limit > 0 {
		q.Set("limit", strconv.Itoa(query.Limit))
	}
	var page types.Page[types.Sale]
	if err := s.c.call(ctx, "du chargement "+s.many, http.MethodGet, s.path, q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *SalesService) Get(ctx context.Context, id uuid.UUID) (*types.Sale, error) {
	return s.get(ctx, id)
}

func (s *SalesService) Create(ctx context.Context, req SaleRequest) (*types.Sale, error) {
	return s.create(ctx, req)
}

func (s *SalesService) Update(ctx context.Context, id uuid.UUID, req SaleUpdate) (*types.Sale, error) {
	return s.update(ctx, id, req.body())
}

func (s *SalesService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.delete(ctx, id)
}

// Sale details

type SaleDetailRequest struct {
	SaleID        uuid.UUID `json:"sale_id"`
	SellerID      uuid.UUID `json:"seller_id"`
	DepositGameID uuid.UUID `json:"deposit_game_id"`
	Quantity      int       `json:"quantity"`
}

type SaleDetailQuery struct {
	SaleID   *uuid.UUID
	SellerID *uuid.UUID
}

type SaleDetailsService struct{ resource[types.SaleDetail] }

func (s *SaleDetailsService) List(ctx context.Context, query SaleDetailQuery) ([]types.SaleDetail, error) {
	q := url.Values{}
	setUUID(q, "sale_id", query.SaleID)
	setUUID(q, "seller_id", query.SellerID)
	return s.list(ctx, q)
}

func (s *SaleDetailsService) Get(ctx context.Context, id uuid.UUID) (*types.SaleDetail, error) {
	return s.get(ctx, id)
}

func (s *SaleDetailsService) Create(ctx context.Context, req SaleDetailRequest) (*types.SaleDetail, error) {
	return s.create(ctx, req)
}

// Sales operations

type SaleOperationUpdate struct {
	Commission *decimal.Decimal  `json:"commission,omitempty"`
	SaleStatus *enums.SaleStatus `json:"sale_status,omitempty"`
}

type SaleOperationsService struct{ resource[types.SalesOperation] }

func (s *SaleOperationsService) List(ctx context.Context) ([]types.SalesOperation, error) {
	return s.list(ctx, nil)
}

// Get loads the operation attached to a sale.
func (s *SaleOperationsService) Get(ctx context.Context, saleID uuid.UUID) (*types.SalesOperation, error) {
	return s.get(ctx, saleID)
}

func (s *SaleOperationsService) Update(ctx context.Context, saleID uuid.UUID, req SaleOperationUpdate) (*types.SalesOperation, error) {
	return s.update(ctx, saleID, req)
}

// Gestionnaires

type GestionnaireRequest struct {
	Email    string     `json:"email"`
	Username string     `json:"username"`
	Password string     `json:"password"`
	Role     enums.Role `json:"role,omitempty"`
}

type GestionnaireUpdate struct {
	Email    *string     `json:"email,omitempty"`
	Username *string     `json:"username,omitempty"`
	Password *string     `json:"password,omitempty"`
	Role     *enums.Role `json:"role,omitempty"`
}

type GestionnairesService struct{ resource[types.Gestionnaire] }

func (s *GestionnairesService) List(ctx context.Context) ([]types.Gestionnaire, error) {
	return s.list(ctx, nil)
}

func (s *GestionnairesService) Get(ctx context.Context, id uuid.UUID) (*types.Gestionnaire, error) {
	return s.get(ctx, id)
}

func (s *GestionnairesService) Create(ctx context.Context, req GestionnaireRequest) (*types.Gestionnaire, error) {
	return s.create(ctx, req)
}

func (s *GestionnairesService) Update(ctx context.Context, id uuid.UUID, req GestionnaireUpdate) (*types.Gestionnaire, error) {
	return s.update(ctx, id, req)
}

func (s *GestionnairesService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.delete(ctx, id)
}
