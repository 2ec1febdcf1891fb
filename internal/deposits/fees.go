package deposits

import (
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputeFees returns the deposit fees owed for a set of copies:
// sum of prices x session fee % x (1 - discount %), rounded to cents.
func ComputeFees(copies types.Exemplaires, sessionFeesPct, discountPct decimal.Decimal) decimal.Decimal {
	rate := sessionFeesPct.Div(hundred)
	remaining := decimal.NewFromInt(1).Sub(discountPct.Div(hundred))
	return copies.TotalPrice().Mul(rate).Mul(remaining).Round(2)
}

// DefaultPrice is the first copy's price, used when a deposit game carries
// no explicit price.
func DefaultPrice(copies types.Exemplaires) decimal.Decimal {
	first, ok := copies.First()
	if !ok {
		return decimal.Zero
	}
	return first.Price
}
