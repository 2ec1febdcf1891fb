package reporting

import (
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// SessionBalance sums a session's deposit fees, sales and commission.
// Commission is read from each sale's operation so manual adjustments count.
func SessionBalance(sessionID uuid.UUID, deposits []types.Deposit, sales []types.Sale) types.Balance {
	balance := types.Balance{
		SessionID:        sessionID,
		TotalDepositFees: decimal.Zero,
		TotalSales:       decimal.Zero,
		TotalCommission:  decimal.Zero,
	}
	for _, deposit := range deposits {
		for _, game := range deposit.Games {
			balance.TotalDepositFees = balance.TotalDepositFees.Add(game.Fees)
		}
	}
	for _, sale := range CountedSales(sales) {
		balance.TotalSales = balance.TotalSales.Add(SaleTotal(sale))
		if sale.Operation != nil {
			balance.TotalCommission = balance.TotalCommission.Add(sale.Operation.Commission)
		}
	}
	return finish(balance)
}

// SellerBalance restricts the sums to one seller. Each sale's operation
// commission is split across its sellers in proportion to their line totals,
// so seller balances add up to the session balance after manual adjustments.
// Sales without an operation fall back to the session's commission rate.
func SellerBalance(sessionID, sellerID uuid.UUID, commissionPct decimal.Decimal, deposits []types.Deposit, sales []types.Sale) types.Balance {
	id := sellerID
	balance := types.Balance{
		SessionID:        sessionID,
		SellerID:         &id,
		TotalDepositFees: decimal.Zero,
		TotalSales:       decimal.Zero,
		TotalCommission:  decimal.Zero,
	}
	for _, deposit := range deposits {
		if deposit.SellerID != sellerID {
			continue
		}
		for _, game := range deposit.Games {
			balance.TotalDepositFees = balance.TotalDepositFees.Add(game.Fees)
		}
	}
	for _, sale := range CountedSales(sales) {
		share := decimal.Zero
		for _, detail := range sale.Details {
			if detail.SellerID == sellerID {
				share = share.Add(LineTotal(detail))
			}
		}
		if share.IsZero() {
			continue
		}
		balance.TotalSales = balance.TotalSales.Add(share)
		balance.TotalCommission = balance.TotalCommission.Add(commissionShare(sale, share, commissionPct))
	}
	return finish(balance)
}

// commissionShare is the part of sale's commission owed on share. Rounding
// happens once on the seller's total.
func commissionShare(sale types.Sale, share, commissionPct decimal.Decimal) decimal.Decimal {
	if sale.Operation == nil {
		return share.Mul(commissionPct).Div(hundred)
	}
	total := SaleTotal(sale)
	if total.IsZero() {
		return decimal.Zero
	}
	return sale.Operation.Commission.Mul(share).Div(total)
}

func finish(balance types.Balance) types.Balance {
	balance.TotalDepositFees = balance.TotalDepositFees.Round(2)
	balance.TotalSales = balance.TotalSales.Round(2)
	balance.TotalCommission = balance.TotalCommission.Round(2)
	balance.TotalBenef = balance.TotalSales.Sub(balance.TotalCommission).Sub(balance.TotalDepositFees)
	return balance
}
