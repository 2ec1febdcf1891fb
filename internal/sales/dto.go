package sales

import (
	"time"

	"github.com/angelmondragon/depotvente-backend/internal/buyers"
	"github.com/angelmondragon/depotvente-backend/internal/deposits"
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	"github.com/angelmondragon/depotvente-backend/pkg/enums"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateSaleInput struct {
	SessionID uuid.UUID  `json:"session_id" validate:"required"`
	BuyerID   *uuid.UUID `json:"buyer_id,omitempty"`
	SaleDate  *time.Time `json:"sale_date,omitempty"`
}

type UpdateSaleInput struct {
	BuyerID    types.NullableUUID `json:"buyer_id"`
	SaleDate   *time.Time         `json:"sale_date,omitempty"`
	SaleStatus *enums.SaleStatus  `json:"sale_status,omitempty"`
}

type CreateSaleDetailInput struct {
	SaleID        uuid.UUID `json:"sale_id" validate:"required"`
	SellerID      uuid.UUID `json:"seller_id" validate:"required"`
	DepositGameID uuid.UUID `json:"deposit_game_id" validate:"required"`
	Quantity      int       `json:"quantity" validate:"required,min=1"`
}

type UpdateOperationInput struct {
	Commission *decimal.Decimal  `json:"commission,omitempty"`
	SaleStatus *enums.SaleStatus `json:"sale_status,omitempty"`
}

type ListParams struct {
	SessionID *uuid.UUID
	Limit     int
	Cursor    string
}

func FromModel(m *models.Sale) *types.Sale {
	if m == nil {
		return nil
	}
	out := &types.Sale{
		ID:         m.ID,
		BuyerID:    m.BuyerID,
		SessionID:  m.SessionID,
		SaleDate:   m.SaleDate,
		SaleStatus: m.SaleStatus,
		Buyer:      buyers.FromModel(m.Buyer),
		Operation:  OperationFromModel(m.Operation),
	}
	if len(m.Details) > 0 {
		out.Details = make([]types.SaleDetail, 0, len(m.Details))
		for i := range m.Details {
			out.Details = append(out.Details, *DetailFromModel(&m.Details[i]))
		}
	}
	return out
}

func DetailFromModel(m *models.SaleDetail) *types.SaleDetail {
	if m == nil {
		return nil
	}
	return &types.SaleDetail{
		ID:            m.ID,
		SaleID:        m.SaleID,
		SellerID:      m.SellerID,
		DepositGameID: m.DepositGameID,
		Quantity:      m.Quantity,
		DepositGame:   deposits.GameFromModel(m.DepositGame),
	}
}

func OperationFromModel(m *models.SalesOperation) *types.SalesOperation {
	if m == nil {
		return nil
	}
	return &types.SalesOperation{
		ID:         m.ID,
		SaleID:     m.SaleID,
		Commission: m.Commission,
		SaleDate:   m.SaleDate,
		SaleStatus: m.SaleStatus,
	}
}
