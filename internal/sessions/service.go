package sessions

import (
	"context"
	"fmt"
	"strings"

	pkgdb "github.com/angelmondragon/depotvente-backend/pkg/db"
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Service exposes session operations.
type Service interface {
	List(ctx context.Context) ([]types.Session, error)
	Active(ctx context.Context) ([]types.Session, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Session, error)
	Create(ctx context.Context, input CreateSessionInput) (*types.Session, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateSessionInput) (*types.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sessions repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]types.Session, error) {
	return s.list(ctx, false)
}

func (s *service) Active(ctx context.Context) ([]types.Session, error) {
	return s.list(ctx, true)
}

func (s *service) list(ctx context.Context, activeOnly bool) ([]types.Session, error) {
	rows, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sessions")
	}
	out := make([]types.Session, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*types.Session, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(session), nil
}

func (s *service) Create(ctx context.Context, input CreateSessionInput) (*types.Session, error) {
	session := &models.Session{
		Name:       strings.TrimSpace(input.Name),
		StartDate:  input.StartDate.UTC(),
		EndDate:    input.EndDate.UTC(),
		Status:     input.Status,
		Fees:       input.Fees.Round(2),
		Commission: input.Commission.Round(2),
	}
	if err := Validate(session); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}
	return FromModel(session), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateSessionInput) (*types.Session, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		session.Name = strings.TrimSpace(*input.Name)
	}
	if input.StartDate != nil {
		session.StartDate = input.StartDate.UTC()
	}
	if input.EndDate != nil {
		session.EndDate = input.EndDate.UTC()
	}
	if input.Status != nil {
		session.Status = *input.Status
	}
	if input.Fees != nil {
		session.Fees = input.Fees.Round(2)
	}
	if input.Commission != nil {
		session.Commission = input.Commission.Round(2)
	}
	if err := Validate(session); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update session")
	}
	return FromModel(session), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case pkgdb.IsNotFound(err):
			return pkgerrors.NotFound("session")
		case pkgdb.IsForeignKeyViolation(err):
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "cette session contient des dépôts ou des ventes")
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete session")
		}
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.NotFound("session")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	return session, nil
}

// Validate enforces the session invariants: a name, rates within [0,100]
// and an end date that does not precede the start date.
func Validate(session *models.Session) error {
	if session.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "le nom de la session est requis")
	}
	if session.StartDate.IsZero() || session.EndDate.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "les dates de session sont requises")
	}
	if session.EndDate.Before(session.StartDate) {
		return pkgerrors.New(pkgerrors.CodeValidation, "la date de fin précède la date de début")
	}
	if !isPercent(session.Fees) {
		return pkgerrors.New(pkgerrors.CodeValidation, "les frais doivent être compris entre 0 et 100")
	}
	if !isPercent(session.Commission) {
		return pkgerrors.New(pkgerrors.CodeValidation, "la commission doit être comprise entre 0 et 100")
	}
	return nil
}

func isPercent(value decimal.Decimal) bool {
	return !value.IsNegative() && value.LessThanOrEqual(hundred)
}
