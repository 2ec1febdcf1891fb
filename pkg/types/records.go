package types

import (
	"time"

	"github.com/angelmondragon/depotvente-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wire records exchanged on the REST API. The server maps its models into
// these and the client decodes them back.

type Seller struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Buyer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Game struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Publisher   string          `json:"publisher"`
	Price       decimal.Decimal `json:"price"`
	Picture     *string         `json:"picture,omitempty"`
	Description *string         `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Session is a time-boxed depot-sale event. Status is the active flag.
type Session struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    time.Time       `json:"end_date"`
	Status     bool            `json:"status"`
	Fees       decimal.Decimal `json:"fees"`
	Commission decimal.Decimal `json:"commission"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type Deposit struct {
	ID           uuid.UUID       `json:"id"`
	DepositDate  time.Time       `json:"deposit_date"`
	SellerID     uuid.UUID       `json:"seller_id"`
	SessionID    uuid.UUID       `json:"session_id"`
	DiscountFees decimal.Decimal `json:"discount_fees"`
	Tag          *string         `json:"tag,omitempty"`
	Games        []DepositGame   `json:"games,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// DepositGame is one game line of a deposit. SellerID and SessionID are
// copied from the parent deposit when the row is listed on its own.
type DepositGame struct {
	ID            uuid.UUID       `json:"id"`
	DepositID     uuid.UUID       `json:"deposit_id"`
	GameID        uuid.UUID       `json:"game_id"`
	Fees          decimal.Decimal `json:"fees"`
	Price         decimal.Decimal `json:"price"`
	Exemplaires   Exemplaires     `json:"exemplaires"`
	ExemplarCount int             `json:"exemplar_count"`
	SellerID      *uuid.UUID      `json:"seller_id,omitempty"`
	SessionID     *uuid.UUID      `json:"session_id,omitempty"`
	Game          *Game           `json:"game,omitempty"`
}

type Stock struct {
	ID              uuid.UUID `json:"id"`
	SessionID       uuid.UUID `json:"session_id"`
	SellerID        uuid.UUID `json:"seller_id"`
	GameID          uuid.UUID `json:"game_id"`
	InitialQuantity int       `json:"initial_quantity"`
	CurrentQuantity int       `json:"current_quantity"`
	Game            *Game     `json:"game,omitempty"`
	Seller          *Seller   `json:"seller,omitempty"`
}

type Sale struct {
	ID         uuid.UUID        `json:"id"`
	BuyerID    *uuid.UUID       `json:"buyer_id"`
	SessionID  uuid.UUID        `json:"session_id"`
	SaleDate   time.Time        `json:"sale_date"`
	SaleStatus enums.SaleStatus `json:"sale_status"`
	Buyer      *Buyer           `json:"buyer,omitempty"`
	Details    []SaleDetail     `json:"details,omitempty"`
	Operation  *SalesOperation  `json:"operation,omitempty"`
}

type SaleDetail struct {
	ID            uuid.UUID    `json:"id"`
	SaleID        uuid.UUID    `json:"sale_id"`
	SellerID      uuid.UUID    `json:"seller_id"`
	DepositGameID uuid.UUID    `json:"deposit_game_id"`
	Quantity      int          `json:"quantity"`
	DepositGame   *DepositGame `json:"deposit_game,omitempty"`
}

type SalesOperation struct {
	ID         uuid.UUID        `json:"id"`
	SaleID     uuid.UUID        `json:"sale_id"`
	Commission decimal.Decimal  `json:"commission"`
	SaleDate   time.Time        `json:"sale_date"`
	SaleStatus enums.SaleStatus `json:"sale_status"`
}

type Gestionnaire struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	Role      enums.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

// Balance is the financial summary of a session, or of one seller within it.
type Balance struct {
	SessionID        uuid.UUID       `json:"session_id"`
	SellerID         *uuid.UUID      `json:"seller_id,omitempty"`
	TotalDepositFees decimal.Decimal `json:"totalDepositFees"`
	TotalSales       decimal.Decimal `json:"totalSales"`
	TotalCommission  decimal.Decimal `json:"totalCommission"`
	TotalBenef       decimal.Decimal `json:"totalBenef"`
}

// UserInfo is the identity carried by a login response.
type UserInfo struct {
	ID       uuid.UUID  `json:"id"`
	Email    string     `json:"email"`
	Username string     `json:"username"`
	Role     enums.Role `json:"role"`
}

type LoginResult struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// ImportResult summarizes a games CSV import.
type ImportResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}
