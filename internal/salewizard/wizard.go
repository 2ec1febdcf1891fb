// Package salewizard is the three-step sale creation flow: pick a session,
// seller and optional buyer; pick deposited games and quantities; review and
// confirm. Confirmation issues sequential, non-atomic API calls.
package salewizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/depotvente-backend/pkg/client"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Step is the wizard page currently shown.
type Step int

const (
	StepSelect Step = iota + 1
	StepGames
	StepRecap
)

// ConfirmFailedMessage is shown when any call of the confirmation fails.
const ConfirmFailedMessage = "Erreur lors de la création de la vente"

var (
	ErrNoSession      = errors.New("veuillez sélectionner une session")
	ErrNoSeller       = errors.New("veuillez sélectionner un vendeur")
	ErrNoGames        = errors.New("veuillez sélectionner au moins un jeu")
	ErrUnknownSession = errors.New("session indisponible")
	ErrUnknownSeller  = errors.New("vendeur sans dépôt dans cette session")
	ErrUnknownBuyer   = errors.New("acheteur inconnu")
	ErrUnknownGame    = errors.New("jeu non disponible pour ce vendeur")
)

// ConfirmError reports a failed confirmation. SaleID is set once the sale
// itself was created: it and any details created before the failure remain.
type ConfirmError struct {
	SaleID *uuid.UUID
	Err    error
}

func (e *ConfirmError) Error() string {
	if e.SaleID != nil {
		return fmt.Sprintf("%s (vente %s partiellement créée)", ConfirmFailedMessage, e.SaleID)
	}
	return ConfirmFailedMessage
}

func (e *ConfirmError) Unwrap() error {
	return e.Err
}

// Line is one chosen game with its sell quantity.
type Line struct {
	DepositGame types.DepositGame
	Quantity    int
}

// Total is quantity x unit price.
func (l Line) Total() decimal.Decimal {
	return l.DepositGame.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Wizard holds the state of one sale being composed.
type Wizard struct {
	api  API
	step Step

	sessions []types.Session
	buyers   []types.Buyer
	sellers  []types.Seller
	games    []types.DepositGame

	sessionID *uuid.UUID
	sellerID  *uuid.UUID
	buyerID   *uuid.UUID

	order      []uuid.UUID
	quantities map[uuid.UUID]int
}

func New(api API) *Wizard {
	return &Wizard{api: api, step: StepSelect, quantities: map[uuid.UUID]int{}}
}

// Start loads the active sessions and the buyers offered on the first step.
func (w *Wizard) Start(ctx context.Context) error {
	sessions, err := w.api.ActiveSessions(ctx)
	if err != nil {
		return err
	}
	buyers, err := w.api.Buyers(ctx)
	if err != nil {
		return err
	}
	w.sessions = sessions
	w.buyers = buyers
	w.step = StepSelect
	return nil
}

func (w *Wizard) Step() Step                          { return w.step }
func (w *Wizard) Sessions() []types.Session           { return w.sessions }
func (w *Wizard) Buyers() []types.Buyer               { return w.buyers }
func (w *Wizard) Sellers() []types.Seller             { return w.sellers }
func (w *Wizard) AvailableGames() []types.DepositGame { return w.games }
func (w *Wizard) SessionID() *uuid.UUID               { return w.sessionID }
func (w *Wizard) SellerID() *uuid.UUID                { return w.sellerID }
func (w *Wizard) BuyerID() *uuid.UUID                 { return w.buyerID }

// SelectSession picks the session and resets the seller and everything
// chosen after it. The sellers offered are those with a deposit in it.
func (w *Wizard) SelectSession(ctx context.Context, id uuid.UUID) error {
	if !containsSession(w.sessions, id) {
		return ErrUnknownSession
	}
	sellers, err := w.api.SellersWithDeposits(ctx, id)
	if err != nil {
		return err
	}
	w.sessionID = &id
	w.sellers = sellers
	w.resetSeller()
	w.step = StepSelect
	return nil
}

// SelectSeller picks the seller and loads their deposited games for the
// session, keeping only rows with copies left.
func (w *Wizard) SelectSeller(ctx context.Context, id uuid.UUID) error {
	if w.sessionID == nil {
		return ErrNoSession
	}
	if !containsSeller(w.sellers, id) {
		return ErrUnknownSeller
	}
	rows, err := w.api.DepositGames(ctx, *w.sessionID, id)
	if err != nil {
		return err
	}
	games := make([]types.DepositGame, 0, len(rows))
	for _, row := range rows {
		if exemplarCount(row) > 0 {
			games = append(games, row)
		}
	}
	w.resetSeller()
	w.sellerID = &id
	w.games = games
	return nil
}

// SelectBuyer sets or, with nil, clears the optional buyer.
func (w *Wizard) SelectBuyer(id *uuid.UUID) error {
	if id == nil {
		w.buyerID = nil
		return nil
	}
	for _, b := range w.buyers {
		if b.ID == *id {
			value := *id
			w.buyerID = &value
			return nil
		}
	}
	return ErrUnknownBuyer
}

// Next advances when the current step is complete.
func (w *Wizard) Next() error {
	switch w.step {
	case StepSelect:
		if w.sessionID == nil {
			return ErrNoSession
		}
		if w.sellerID == nil {
			return ErrNoSeller
		}
		w.step = StepGames
	case StepGames:
		if len(w.order) == 0 {
			return ErrNoGames
		}
		w.step = StepRecap
	}
	return nil
}

// Back returns to the previous step, keeping selections.
func (w *Wizard) Back() {
	if w.step > StepSelect {
		w.step--
	}
}

// Toggle selects a game with quantity 1, or deselects it.
func (w *Wizard) Toggle(depositGameID uuid.UUID) error {
	if _, ok := w.quantities[depositGameID]; ok {
		w.Remove(depositGameID)
		return nil
	}
	if _, ok := w.game(depositGameID); !ok {
		return ErrUnknownGame
	}
	w.quantities[depositGameID] = 1
	w.order = append(w.order, depositGameID)
	return nil
}

// SetQuantity accepts quantities in [1, exemplar count]. Anything else is
// ignored and reported as false; the previous quantity stays.
func (w *Wizard) SetQuantity(depositGameID uuid.UUID, quantity int) bool {
	if _, selected := w.quantities[depositGameID]; !selected {
		return false
	}
	row, _ := w.game(depositGameID)
	if quantity < 1 || quantity > exemplarCount(row) {
		return false
	}
	w.quantities[depositGameID] = quantity
	return true
}

// Quantity returns the chosen quantity, 0 when not selected.
func (w *Wizard) Quantity(depositGameID uuid.UUID) int {
	return w.quantities[depositGameID]
}

// Remove drops a game from the selection.
func (w *Wizard) Remove(depositGameID uuid.UUID) {
	if _, ok := w.quantities[depositGameID]; !ok {
		return
	}
	delete(w.quantities, depositGameID)
	for i, id := range w.order {
		if id == depositGameID {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	if len(w.order) == 0 && w.step == StepRecap {
		w.step = StepGames
	}
}

// Lines lists the selection in the order games were picked.
func (w *Wizard) Lines() []Line {
	lines := make([]Line, 0, len(w.order))
	for _, id := range w.order {
		row, _ := w.game(id)
		lines = append(lines, Line{DepositGame: row, Quantity: w.quantities[id]})
	}
	return lines
}

func (w *Wizard) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range w.Lines() {
		total = total.Add(line.Total())
	}
	return total
}

// Confirm creates the sale, then one detail per line in order, then reloads
// the sale. It stops at the first failure without undoing earlier calls.
func (w *Wizard) Confirm(ctx context.Context) (*types.Sale, error) {
	if w.sessionID == nil {
		return nil, ErrNoSession
	}
	if w.sellerID == nil {
		return nil, ErrNoSeller
	}
	lines := w.Lines()
	if len(lines) == 0 {
		return nil, ErrNoGames
	}

	sale, err := w.api.CreateSale(ctx, client.SaleRequest{SessionID: *w.sessionID, BuyerID: w.buyerID})
	if err != nil {
		return nil, &ConfirmError{Err: err}
	}
	saleID := sale.ID
	for _, line := range lines {
		_, err := w.api.CreateSaleDetail(ctx, client.SaleDetailRequest{
			SaleID:        saleID,
			SellerID:      *w.sellerID,
			DepositGameID: line.DepositGame.ID,
			Quantity:      line.Quantity,
		})
		if err != nil {
			return nil, &ConfirmError{SaleID: &saleID, Err: err}
		}
	}
	full, err := w.api.GetSale(ctx, saleID)
	if err != nil {
		return nil, &ConfirmError{SaleID: &saleID, Err: err}
	}
	return full, nil
}

func (w *Wizard) resetSeller() {
	w.sellerID = nil
	w.games = nil
	w.order = nil
	w.quantities = map[uuid.UUID]int{}
}

func (w *Wizard) game(id uuid.UUID) (types.DepositGame, bool) {
	for _, row := range w.games {
		if row.ID == id {
			return row, true
		}
	}
	return types.DepositGame{}, false
}

func exemplarCount(row types.DepositGame) int {
	if row.ExemplarCount > 0 {
		return row.ExemplarCount
	}
	return row.Exemplaires.Count()
}

func containsSession(sessions []types.Session, id uuid.UUID) bool {
	for _, s := range sessions {
		if s.ID == id {
			return true
		}
	}
	return false
}

func containsSeller(sellers []types.Seller, id uuid.UUID) bool {
	for _, s := range sellers {
		if s.ID == id {
			return true
		}
	}
	return false
}
