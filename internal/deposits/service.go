package deposits

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/depotvente-backend/internal/games"
	"github.com/angelmondragon/depotvente-backend/internal/sellers"
	"github.com/angelmondragon/depotvente-backend/internal/sessions"
	pkgdb "github.com/angelmondragon/depotvente-backend/pkg/db"
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/angelmondragon/depotvente-backend/pkg/pdf"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes deposit operations.
type Service interface {
	List(ctx context.Context, filter Filter) ([]types.Deposit, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Deposit, error)
	Create(ctx context.Context, input CreateDepositInput) (*types.Deposit, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateDepositInput) (*types.Deposit, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListGames(ctx context.Context, filter Filter) ([]types.DepositGame, error)
	Labels(ctx context.Context, id uuid.UUID) ([]byte, error)
}

type service struct {
	repo     Repository
	sessions sessions.Repository
	sellers  sellers.Repository
	games    games.Repository
	now      func() time.Time
}

func NewService(repo Repository, sessionRepo sessions.Repository, sellerRepo sellers.Repository, gameRepo games.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("deposits repository required")
	}
	if sessionRepo == nil {
		return nil, fmt.Errorf("sessions repository required")
	}
	if sellerRepo == nil {
		return nil, fmt.Errorf("sellers repository required")
	}
	if gameRepo == nil {
		return nil, fmt.Errorf("games repository required")
	}
	return &service{
		repo:     repo,
		sessions: sessionRepo,
		sellers:  sellerRepo,
		games:    gameRepo,
		now:      time.Now,
	}, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]types.Deposit, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list deposits")
	}
	out := make([]types.Deposit, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*types.Deposit, error) {
	deposit, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(deposit), nil
}

func (s *service) Create(ctx context.Context, input CreateDepositInput) (*types.Deposit, error) {
	if input.SellerID == uuid.Nil || input.SessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendeur et session sont requis")
	}
	if len(input.Games) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "le dépôt doit contenir au moins un jeu")
	}
	discount := decimal.Zero
	if input.DiscountFees != nil {
		discount = *input.DiscountFees
	}
	if err := checkPercent(discount); err != nil {
		return nil, err
	}

	session, err := s.sessions.FindByID(ctx, input.SessionID)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "session introuvable")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	if !session.Status {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "la session n'est pas active")
	}
	if _, err := s.sellers.FindByID(ctx, input.SellerID); err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendeur introuvable")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller")
	}

	gameIDs := make([]uuid.UUID, 0, len(input.Games))
	for i, entry := range input.Games {
		if entry.GameID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("jeu %d: veuillez sélectionner un jeu", i+1))
		}
		if entry.Exemplaires.Count() == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("jeu %d: au moins un exemplaire est requis", i+1))
		}
		if err := entry.Exemplaires.Validate(); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("jeu %d: %s", i+1, err.Error()))
		}
		if entry.Price != nil && entry.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("jeu %d: prix négatif", i+1))
		}
		gameIDs = append(gameIDs, entry.GameID)
	}
	known, err := s.games.FindByIDs(ctx, gameIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load games")
	}
	for i, id := range gameIDs {
		if _, ok := known[id]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("jeu %d: jeu introuvable", i+1))
		}
	}

	depositDate := s.now().UTC()
	if input.DepositDate != nil {
		depositDate = input.DepositDate.UTC()
	}
	deposit := &models.Deposit{
		DepositDate:  depositDate,
		SellerID:     input.SellerID,
		SessionID:    input.SessionID,
		DiscountFees: discount.Round(2),
		Tag:          trimOptional(input.Tag),
		Games:        make([]models.DepositGame, 0, len(input.Games)),
	}
	for _, entry := range input.Games {
		price := DefaultPrice(entry.Exemplaires)
		if entry.Price != nil {
			price = *entry.Price
		}
		deposit.Games = append(deposit.Games, models.DepositGame{
			GameID:      entry.GameID,
			Price:       price.Round(2),
			Exemplaires: entry.Exemplaires.Clone(),
			Fees:        ComputeFees(entry.Exemplaires, session.Fees, discount),
		})
	}

	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, deposit)
	})
	if err != nil {
		return nil, mapWriteError(err, "create deposit")
	}

	created, err := s.load(ctx, deposit.ID)
	if err != nil {
		return nil, err
	}
	return FromModel(created), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateDepositInput) (*types.Deposit, error) {
	deposit, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.DepositDate != nil {
		deposit.DepositDate = input.DepositDate.UTC()
	}
	if input.Tag != nil {
		deposit.Tag = trimOptional(input.Tag)
	}
	feesChanged := false
	if input.DiscountFees != nil {
		if err := checkPercent(*input.DiscountFees); err != nil {
			return nil, err
		}
		feesChanged = !input.DiscountFees.Equal(deposit.DiscountFees)
		deposit.DiscountFees = input.DiscountFees.Round(2)
	}

	var session *models.Session
	if feesChanged {
		session, err = s.sessions.FindByID(ctx, deposit.SessionID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
		}
	}

	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Update(ctx, deposit); err != nil {
			return err
		}
		if session == nil {
			return nil
		}
		for _, game := range deposit.Games {
			fees := ComputeFees(game.Exemplaires, session.Fees, deposit.DiscountFees)
			if err := txRepo.UpdateGameFees(ctx, game.ID, fees); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, mapWriteError(err, "update deposit")
	}

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

// Delete removes an unsold deposit and takes its copies back out of stock.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deposit, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	sold, err := s.repo.CountSaleDetails(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count sale details")
	}
	if sold > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "des exemplaires de ce dépôt ont déjà été vendus")
	}
	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		for _, game := range deposit.Games {
			if err := txRepo.ReleaseStock(ctx, deposit, game.GameID, len(game.Exemplaires)); err != nil {
				return err
			}
		}
		return txRepo.Delete(ctx, id)
	})
	if err != nil {
		return mapWriteError(err, "delete deposit")
	}
	return nil
}

func (s *service) ListGames(ctx context.Context, filter Filter) ([]types.DepositGame, error) {
	rows, err := s.repo.ListGames(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list deposit games")
	}
	out := make([]types.DepositGame, 0, len(rows))
	for i := range rows {
		out = append(out, *GameFromModel(&rows[i]))
	}
	return out, nil
}

// Labels renders one label per copy of the deposit.
func (s *service) Labels(ctx context.Context, id uuid.UUID) ([]byte, error) {
	deposit, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	labels := BuildLabels(deposit)
	if len(labels) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "aucun exemplaire à étiqueter")
	}
	title := "Dépôt " + shortID(deposit.ID)
	if deposit.Tag != nil && *deposit.Tag != "" {
		title += " (" + *deposit.Tag + ")"
	}
	body, err := pdf.LabelsPDF(title, labels)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render labels")
	}
	return body, nil
}

// BuildLabels lists the labels of a loaded deposit in game then copy order.
func BuildLabels(deposit *models.Deposit) []pdf.Label {
	sellerName := ""
	if deposit.Seller != nil {
		sellerName = deposit.Seller.Name
	}
	var labels []pdf.Label
	for _, game := range deposit.Games {
		name, publisher := "", ""
		if game.Game != nil {
			name, publisher = game.Game.Name, game.Game.Publisher
		}
		for _, key := range game.Exemplaires.Keys() {
			ex := game.Exemplaires[key]
			labels = append(labels, pdf.Label{
				Code:      LabelCode(game.ID, key),
				Game:      name,
				Publisher: publisher,
				Seller:    sellerName,
				State:     ex.State.String(),
				Price:     ex.Price,
			})
		}
	}
	return labels
}

// LabelCode identifies one copy: DV-<deposit game prefix>-<copy key>.
func LabelCode(depositGameID uuid.UUID, key string) string {
	return "DV-" + shortID(depositGameID) + "-" + key
}

func shortID(id uuid.UUID) string {
	return strings.ToUpper(id.String()[:8])
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Deposit, error) {
	deposit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapWriteError(err, "load deposit")
	}
	return deposit, nil
}

func checkPercent(value decimal.Decimal) error {
	if value.IsNegative() || value.GreaterThan(hundred) {
		return pkgerrors.New(pkgerrors.CodeValidation, "la remise doit être comprise entre 0 et 100")
	}
	return nil
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func mapWriteError(err error, step string) error {
	var typed *pkgerrors.Error
	switch {
	case errors.As(err, &typed):
		return typed
	case pkgdb.IsNotFound(err):
		return pkgerrors.NotFound("dépôt")
	case pkgdb.IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "le dépôt est référencé par des ventes")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, step)
	}
}
