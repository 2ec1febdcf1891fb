package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VendorShare is one slice of the "who sold what" pie.
type VendorShare struct {
	SellerID   uuid.UUID       `json:"seller_id"`
	SellerName string          `json:"seller_name"`
	Total      decimal.Decimal `json:"total"`
	Percent    decimal.Decimal `json:"percent"`
}

// SalesPoint aggregates sales for one calendar day (YYYY-MM-DD).
type SalesPoint struct {
	Date  string          `json:"date"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// StockDonut holds the sold/remaining split of a session's stock.
type StockDonut struct {
	Initial   int `json:"initial"`
	Remaining int `json:"remaining"`
	Sold      int `json:"sold"`
}

type TopGame struct {
	GameID   uuid.UUID       `json:"game_id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

type VendorStats struct {
	SellerID   uuid.UUID       `json:"seller_id"`
	SellerName string          `json:"seller_name"`
	Deposited  int             `json:"deposited"`
	Sold       int             `json:"sold"`
	Remaining  int             `json:"remaining"`
	Sales      decimal.Decimal `json:"sales"`
}

type SessionSummary struct {
	SessionID     uuid.UUID `json:"session_id"`
	SalesCount    int       `json:"sales_count"`
	DepositsCount int       `json:"deposits_count"`
	SellersCount  int       `json:"sellers_count"`
	ItemsSold     int       `json:"items_sold"`
	Balance       Balance   `json:"balance"`
}
