package reporting

import (
	"github.com/angelmondragon/depotvente-backend/pkg/enums"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// LineTotal is quantity x the deposit game's unit price. A detail without
// its deposit game counts for zero.
func LineTotal(detail types.SaleDetail) decimal.Decimal {
	if detail.DepositGame == nil {
		return decimal.Zero
	}
	return detail.DepositGame.Price.Mul(decimal.NewFromInt(int64(detail.Quantity)))
}

// SumLineTotals adds up the line totals of a set of details.
func SumLineTotals(details []types.SaleDetail) decimal.Decimal {
	total := decimal.Zero
	for _, detail := range details {
		total = total.Add(LineTotal(detail))
	}
	return total
}

// SaleTotal sums the lines of one sale.
func SaleTotal(sale types.Sale) decimal.Decimal {
	return SumLineTotals(sale.Details)
}

// Counted reports whether a sale contributes to totals. Cancelled sales do not.
func Counted(sale types.Sale) bool {
	return sale.SaleStatus != enums.SaleStatusCancelled
}

// CountedSales filters out cancelled sales.
func CountedSales(sales []types.Sale) []types.Sale {
	out := make([]types.Sale, 0, len(sales))
	for _, sale := range sales {
		if Counted(sale) {
			out = append(out, sale)
		}
	}
	return out
}
