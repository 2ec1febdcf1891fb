// Package invoices renders the PDF invoice of a sale.
package invoices

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/depotvente-backend/internal/reporting"
	"github.com/angelmondragon/depotvente-backend/internal/sales"
	pkgdb "github.com/angelmondragon/depotvente-backend/pkg/db"
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/angelmondragon/depotvente-backend/pkg/pdf"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "02/01/2006"

// Service builds invoices from persisted sales.
type Service interface {
	Data(ctx context.Context, saleID uuid.UUID) (*pdf.InvoiceData, error)
	Render(ctx context.Context, saleID uuid.UUID) (*Document, error)
}

// Document is a rendered invoice ready to be served.
type Document struct {
	Filename string
	Content  []byte
}

type saleLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Sale, error)
}

type sessionLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
}

type sellerLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Seller, error)
}

type service struct {
	sales    saleLoader
	sessions sessionLoader
	sellers  sellerLoader
}

func NewService(sales saleLoader, sessions sessionLoader, sellers sellerLoader) (Service, error) {
	if sales == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("sessions repository required")
	}
	if sellers == nil {
		return nil, fmt.Errorf("sellers repository required")
	}
	return &service{sales: sales, sessions: sessions, sellers: sellers}, nil
}

func (s *service) Data(ctx context.Context, saleID uuid.UUID) (*pdf.InvoiceData, error) {
	if saleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "identifiant de vente requis")
	}
	model, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		return nil, mapLoadError(err, "vente introuvable", "load sale")
	}
	session, err := s.sessions.FindByID(ctx, model.SessionID)
	if err != nil {
		return nil, mapLoadError(err, "session introuvable", "load session")
	}

	sale := sales.FromModel(model)
	data := &pdf.InvoiceData{
		InvoiceNumber: Number(sale.ID),
		Date:          sale.SaleDate.Format(dateLayout),
		SessionName:   session.Name,
		Status:        string(sale.SaleStatus),
		Items:         make([]pdf.InvoiceItem, 0, len(sale.Details)),
		GrandTotal:    reporting.SaleTotal(*sale).Round(2),
	}
	if model.Buyer != nil {
		data.Buyer = pdf.BuyerData{
			Name:    model.Buyer.Name,
			Email:   deref(model.Buyer.Email),
			Address: deref(model.Buyer.Address),
		}
	}

	names := map[uuid.UUID]string{}
	for _, detail := range sale.Details {
		name, ok := names[detail.SellerID]
		if !ok {
			seller, err := s.sellers.FindByID(ctx, detail.SellerID)
			switch {
			case err == nil:
				name = seller.Name
			case pkgdb.IsNotFound(err):
				name = "-"
			default:
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller")
			}
			names[detail.SellerID] = name
		}

		item := pdf.InvoiceItem{
			Seller:    name,
			Quantity:  detail.Quantity,
			UnitPrice: decimal.Zero,
			Total:     reporting.LineTotal(detail),
		}
		if dg := detail.DepositGame; dg != nil {
			item.UnitPrice = dg.Price
			if dg.Game != nil {
				item.Game = dg.Game.Name
			}
		}
		data.Items = append(data.Items, item)
	}
	return data, nil
}

func (s *service) Render(ctx context.Context, saleID uuid.UUID) (*Document, error) {
	data, err := s.Data(ctx, saleID)
	if err != nil {
		return nil, err
	}
	content, err := pdf.InvoicePDF(*data)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render invoice")
	}
	return &Document{
		Filename: "facture-" + strings.ToLower(data.InvoiceNumber) + ".pdf",
		Content:  content,
	}, nil
}

// Number derives the printed invoice number from the sale id.
func Number(saleID uuid.UUID) string {
	return "FAC-" + strings.ToUpper(saleID.String()[:8])
}

func mapLoadError(err error, notFound, step string) error {
	var typed *pkgerrors.Error
	switch {
	case errors.As(err, &typed):
		return typed
	case pkgdb.IsNotFound(err):
		return pkgerrors.New(pkgerrors.CodeNotFound, notFound)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, step)
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
