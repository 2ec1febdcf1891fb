// Package depositform composes a deposit on the client side and submits it:
// the deposit first, then one stock upsert per game. The two writes are
// separate calls.
package depositform

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/depotvente-backend/pkg/client"
	"github.com/angelmondragon/depotvente-backend/pkg/enums"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultState is given to every new exemplar.
const DefaultState = enums.ExemplarStateNew

var (
	ErrNoSeller   = errors.New("veuillez sélectionner un vendeur")
	ErrNoSession  = errors.New("veuillez sélectionner une session")
	ErrNoEntries  = errors.New("ajoutez au moins un jeu au dépôt")
	ErrNoEntry    = errors.New("entrée de jeu introuvable")
	ErrBadState   = errors.New("état d'exemplaire inconnu")
	ErrNoExemplar = errors.New("exemplaire introuvable")
)

// EntryError points at the entry (1-based, as displayed) that failed validation.
type EntryError struct {
	Entry   int
	Message string
}

func (e *EntryError) Error() string {
	return e.Message
}

// API is what submission needs from the REST client.
type API interface {
	CreateDeposit(ctx context.Context, req client.DepositRequest) (*types.Deposit, error)
	UpsertStock(ctx context.Context, req client.StockRequest) (*types.Stock, error)
}

// FromClient adapts the REST client to API.
func FromClient(c *client.Client) API {
	return clientAPI{c: c}
}

type clientAPI struct {
	c *client.Client
}

func (a clientAPI) CreateDeposit(ctx context.Context, req client.DepositRequest) (*types.Deposit, error) {
	return a.c.Deposits.Create(ctx, req)
}

func (a clientAPI) UpsertStock(ctx context.Context, req client.StockRequest) (*types.Stock, error) {
	return a.c.Stocks.Upsert(ctx, req)
}

// Entry is one game of the deposit with its copies keyed "0", "1", ...
type Entry struct {
	GameID      uuid.UUID
	Exemplaires types.Exemplaires
}

// Form is the deposit being composed.
type Form struct {
	SellerID     uuid.UUID
	SessionID    uuid.UUID
	DepositDate  *time.Time
	DiscountFees decimal.Decimal
	Tag          string
	Entries      []*Entry
}

func New(sellerID, sessionID uuid.UUID) *Form {
	return &Form{SellerID: sellerID, SessionID: sessionID}
}

// AddEntry appends a game entry holding one default exemplar and returns its index.
func (f *Form) AddEntry() int {
	f.Entries = append(f.Entries, &Entry{
		Exemplaires: types.Exemplaires{"0": {Price: decimal.Zero, State: DefaultState}},
	})
	return len(f.Entries) - 1
}

func (f *Form) RemoveEntry(i int) error {
	if _, err := f.entry(i); err != nil {
		return err
	}
	f.Entries = append(f.Entries[:i], f.Entries[i+1:]...)
	return nil
}

// SetGame selects the game of an entry. Copies still priced at zero take the
// catalogue price.
func (f *Form) SetGame(i int, game types.Game) error {
	e, err := f.entry(i)
	if err != nil {
		return err
	}
	e.GameID = game.ID
	for k, ex := range e.Exemplaires {
		if ex.Price.IsZero() {
			ex.Price = game.Price
			e.Exemplaires[k] = ex
		}
	}
	return nil
}

// AddExemplar appends a copy keyed by the current count and returns its key.
func (f *Form) AddExemplar(i int) (string, error) {
	e, err := f.entry(i)
	if err != nil {
		return "", err
	}
	if e.Exemplaires == nil {
		e.Exemplaires = types.Exemplaires{}
	}
	price := decimal.Zero
	if last, ok := e.last(); ok {
		price = last.Price
	}
	key := strconv.Itoa(e.Exemplaires.Count())
	e.Exemplaires[key] = types.Exemplaire{Price: price, State: DefaultState}
	return key, nil
}

// RemoveLastExemplar drops the copy keyed count-1. Only the last copy can go.
func (f *Form) RemoveLastExemplar(i int) error {
	e, err := f.entry(i)
	if err != nil {
		return err
	}
	if e.Exemplaires.Count() == 0 {
		return ErrNoExemplar
	}
	delete(e.Exemplaires, strconv.Itoa(e.Exemplaires.Count()-1))
	return nil
}

// SetExemplar edits the price and state of one copy.
func (f *Form) SetExemplar(i int, key string, price decimal.Decimal, state enums.ExemplarState) error {
	e, err := f.entry(i)
	if err != nil {
		return err
	}
	if _, ok := e.Exemplaires[key]; !ok {
		return ErrNoExemplar
	}
	if !state.IsValid() {
		return ErrBadState
	}
	e.Exemplaires[key] = types.Exemplaire{Price: price, State: state}
	return nil
}

// Validate runs the required-field checks done before submission.
func (f *Form) Validate() error {
	if f.SellerID == uuid.Nil {
		return ErrNoSeller
	}
	if f.SessionID == uuid.Nil {
		return ErrNoSession
	}
	if len(f.Entries) == 0 {
		return ErrNoEntries
	}
	for i, e := range f.Entries {
		if e.GameID == uuid.Nil {
			return &EntryError{Entry: i + 1, Message: fmt.Sprintf("veuillez sélectionner un jeu pour l'entrée %d", i+1)}
		}
		if e.Exemplaires.Count() == 0 {
			return &EntryError{Entry: i + 1, Message: fmt.Sprintf("le jeu de l'entrée %d doit avoir au moins un exemplaire", i+1)}
		}
	}
	return nil
}

// Request builds the deposit payload.
func (f *Form) Request() client.DepositRequest {
	req := client.DepositRequest{
		SellerID:    f.SellerID,
		SessionID:   f.SessionID,
		DepositDate: f.DepositDate,
		Games:       make([]client.DepositGameRequest, 0, len(f.Entries)),
	}
	if !f.DiscountFees.IsZero() {
		discount := f.DiscountFees
		req.DiscountFees = &discount
	}
	if tag := strings.TrimSpace(f.Tag); tag != "" {
		req.Tag = &tag
	}
	for _, e := range f.Entries {
		req.Games = append(req.Games, client.DepositGameRequest{
			GameID:      e.GameID,
			Exemplaires: e.Exemplaires.Clone(),
		})
	}
	return req
}

// StockError reports stock upserts that failed after the deposit was saved.
type StockError struct {
	DepositID uuid.UUID
	GameID    uuid.UUID
	Err       error
}

func (e *StockError) Error() string {
	return fmt.Sprintf("Erreur lors de la mise à jour du stock (dépôt %s enregistré)", e.DepositID)
}

func (e *StockError) Unwrap() error {
	return e.Err
}

// Submit validates, posts the deposit, then upserts one stock per entry with
// initial = current = exemplar count.
func (f *Form) Submit(ctx context.Context, api API) (*types.Deposit, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	deposit, err := api.CreateDeposit(ctx, f.Request())
	if err != nil {
		return nil, err
	}
	for _, e := range f.Entries {
		count := e.Exemplaires.Count()
		_, err := api.UpsertStock(ctx, client.StockRequest{
			SessionID:       f.SessionID,
			SellerID:        f.SellerID,
			GameID:          e.GameID,
			InitialQuantity: count,
			CurrentQuantity: count,
		})
		if err != nil {
			return deposit, &StockError{DepositID: deposit.ID, GameID: e.GameID, Err: err}
		}
	}
	return deposit, nil
}

func (f *Form) entry(i int) (*Entry, error) {
	if i < 0 || i >= len(f.Entries) {
		return nil, ErrNoEntry
	}
	return f.Entries[i], nil
}

func (e *Entry) last() (types.Exemplaire, bool) {
	keys := e.Exemplaires.Keys()
	if len(keys) == 0 {
		return types.Exemplaire{}, false
	}
	return e.Exemplaires[keys[len(keys)-1]], true
}
