package reporting

import (
	"sort"

	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dayLayout = "2006-01-02"

// VendorShares splits the counted sales total by seller, largest first.
// Percent is rounded to two places.
func VendorShares(sales []types.Sale, sellers []types.Seller) []types.VendorShare {
	names := sellerNames(sellers)
	var shares []types.VendorShare
	index := map[uuid.UUID]int{}
	grand := decimal.Zero

	for _, sale := range CountedSales(sales) {
		for _, detail := range sale.Details {
			line := LineTotal(detail)
			i, ok := index[detail.SellerID]
			if !ok {
				shares = append(shares, types.VendorShare{
					SellerID:   detail.SellerID,
					SellerName: names[detail.SellerID],
					Total:      decimal.Zero,
				})
				i = len(shares) - 1
				index[detail.SellerID] = i
			}
			shares[i].Total = shares[i].Total.Add(line)
			grand = grand.Add(line)
		}
	}
	for i := range shares {
		shares[i].Percent = decimal.Zero
		if grand.IsPositive() {
			shares[i].Percent = shares[i].Total.Mul(hundred).Div(grand).Round(2)
		}
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Total.GreaterThan(shares[j].Total)
	})
	return shares
}

// SalesOverTime buckets counted sales per UTC day, oldest first.
func SalesOverTime(sales []types.Sale) []types.SalesPoint {
	byDay := map[string]*types.SalesPoint{}
	var days []string
	for _, sale := range CountedSales(sales) {
		day := sale.SaleDate.UTC().Format(dayLayout)
		point, ok := byDay[day]
		if !ok {
			point = &types.SalesPoint{Date: day, Total: decimal.Zero}
			byDay[day] = point
			days = append(days, day)
		}
		point.Count++
		point.Total = point.Total.Add(SaleTotal(sale))
	}
	sort.Strings(days)
	out := make([]types.SalesPoint, 0, len(days))
	for _, day := range days {
		out = append(out, *byDay[day])
	}
	return out
}

// TopGames ranks games by quantity sold. A limit <= 0 keeps every game.
func TopGames(sales []types.Sale, limit int) []types.TopGame {
	var games []types.TopGame
	index := map[uuid.UUID]int{}
	for _, sale := range CountedSales(sales) {
		for _, detail := range sale.Details {
			if detail.DepositGame == nil {
				continue
			}
			gameID := detail.DepositGame.GameID
			i, ok := index[gameID]
			if !ok {
				entry := types.TopGame{GameID: gameID, Total: decimal.Zero}
				if detail.DepositGame.Game != nil {
					entry.Name = detail.DepositGame.Game.Name
				}
				games = append(games, entry)
				i = len(games) - 1
				index[gameID] = i
			}
			games[i].Quantity += detail.Quantity
			games[i].Total = games[i].Total.Add(LineTotal(detail))
		}
	}
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].Quantity > games[j].Quantity
	})
	if limit > 0 && len(games) > limit {
		games = games[:limit]
	}
	return games
}

// VendorStatistics reports, per seller of the session, how many copies were
// deposited, sold and remain, plus the seller's counted sales total.
func VendorStatistics(sellers []types.Seller, stocks []types.Stock, sales []types.Sale) []types.VendorStats {
	out := make([]types.VendorStats, 0, len(sellers))
	index := map[uuid.UUID]int{}
	for _, seller := range sellers {
		index[seller.ID] = len(out)
		out = append(out, types.VendorStats{SellerID: seller.ID, SellerName: seller.Name, Sales: decimal.Zero})
	}
	entry := func(id uuid.UUID) *types.VendorStats {
		i, ok := index[id]
		if !ok {
			index[id] = len(out)
			out = append(out, types.VendorStats{SellerID: id, Sales: decimal.Zero})
			i = len(out) - 1
		}
		return &out[i]
	}

	for _, stock := range stocks {
		stats := entry(stock.SellerID)
		stats.Deposited += stock.InitialQuantity
		stats.Remaining += stock.CurrentQuantity
	}
	for _, sale := range CountedSales(sales) {
		for _, detail := range sale.Details {
			stats := entry(detail.SellerID)
			stats.Sold += detail.Quantity
			stats.Sales = stats.Sales.Add(LineTotal(detail))
		}
	}
	return out
}

// Summary gathers the headline counters of a session.
func Summary(sessionID uuid.UUID, sellers []types.Seller, deposits []types.Deposit, sales []types.Sale) types.SessionSummary {
	counted := CountedSales(sales)
	summary := types.SessionSummary{
		SessionID:     sessionID,
		SalesCount:    len(counted),
		DepositsCount: len(deposits),
		SellersCount:  len(sellers),
		Balance:       SessionBalance(sessionID, deposits, sales),
	}
	for _, sale := range counted {
		for _, detail := range sale.Details {
			summary.ItemsSold += detail.Quantity
		}
	}
	return summary
}

func sellerNames(sellers []types.Seller) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string, len(sellers))
	for _, seller := range sellers {
		names[seller.ID] = seller.Name
	}
	return names
}
