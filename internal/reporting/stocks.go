package reporting

import (
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/google/uuid"
)

// SellerStock is the aggregated stock of one seller for one game.
type SellerStock struct {
	SellerID   uuid.UUID `json:"seller_id"`
	SellerName string    `json:"seller_name"`
	Initial    int       `json:"initial"`
	Current    int       `json:"current"`
}

// GameStock groups a game's stock rows by seller, with running totals.
type GameStock struct {
	GameID    uuid.UUID     `json:"game_id"`
	GameName  string        `json:"game_name"`
	Publisher string        `json:"publisher"`
	Initial   int           `json:"initial"`
	Current   int           `json:"current"`
	Sellers   []SellerStock `json:"sellers"`
}

// GroupStocks folds stock rows into one entry per game, then one row per
// (game, seller) pair with summed quantities.
func GroupStocks(stocks []types.Stock) []GameStock {
	var groups []GameStock
	gameIndex := map[uuid.UUID]int{}
	sellerIndex := map[uuid.UUID]map[uuid.UUID]int{}

	for _, stock := range stocks {
		gi, ok := gameIndex[stock.GameID]
		if !ok {
			group := GameStock{GameID: stock.GameID}
			if stock.Game != nil {
				group.GameName = stock.Game.Name
				group.Publisher = stock.Game.Publisher
			}
			groups = append(groups, group)
			gi = len(groups) - 1
			gameIndex[stock.GameID] = gi
			sellerIndex[stock.GameID] = map[uuid.UUID]int{}
		}
		group := &groups[gi]
		group.Initial += stock.InitialQuantity
		group.Current += stock.CurrentQuantity

		si, ok := sellerIndex[stock.GameID][stock.SellerID]
		if !ok {
			row := SellerStock{SellerID: stock.SellerID}
			if stock.Seller != nil {
				row.SellerName = stock.Seller.Name
			}
			group.Sellers = append(group.Sellers, row)
			si = len(group.Sellers) - 1
			sellerIndex[stock.GameID][stock.SellerID] = si
		}
		group.Sellers[si].Initial += stock.InitialQuantity
		group.Sellers[si].Current += stock.CurrentQuantity
	}
	return groups
}

// StockCounts returns the sold/remaining split of a set of stock rows.
func StockCounts(stocks []types.Stock) types.StockDonut {
	var donut types.StockDonut
	for _, stock := range stocks {
		donut.Initial += stock.InitialQuantity
		donut.Remaining += stock.CurrentQuantity
	}
	donut.Sold = donut.Initial - donut.Remaining
	if donut.Sold < 0 {
		donut.Sold = 0
	}
	return donut
}
