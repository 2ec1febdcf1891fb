package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/depotvente-backend/pkg/enums"
)

// repeated collects a flag given several times.
type repeated []string

func (r *repeated) String() string { return strings.Join(*r, " ") }

func (r *repeated) Set(v string) error {
	*r = append(*r, v)
	return nil
}

// copyFlag is one exemplar of a -game flag. A nil Price keeps the catalogue price.
type copyFlag struct {
	Price *decimal.Decimal
	State enums.ExemplarState
}

type gameFlag struct {
	GameID uuid.UUID
	Copies []copyFlag
}

// parseGameFlag reads "<game-id>[=<copy>,<copy>...]" where a copy is
// "[price][:state]". Without copies the game gets one new copy.
func parseGameFlag(raw string) (gameFlag, error) {
	idPart, copiesPart, hasCopies := strings.Cut(strings.TrimSpace(raw), "=")
	id, err := uuid.Parse(strings.TrimSpace(idPart))
	if err != nil {
		return gameFlag{}, fmt.Errorf("identifiant de jeu invalide %q", idPart)
	}
	entry := gameFlag{GameID: id}
	if !hasCopies || strings.TrimSpace(copiesPart) == "" {
		entry.Copies = []copyFlag{{State: enums.ExemplarStateNew}}
		return entry, nil
	}
	for _, token := range strings.Split(copiesPart, ",") {
		pricePart, statePart, _ := strings.Cut(strings.TrimSpace(token), ":")
		c := copyFlag{State: enums.ExemplarStateNew}
		if p := strings.TrimSpace(pricePart); p != "" {
			price, err := decimal.NewFromString(p)
			if err != nil || price.IsNegative() {
				return gameFlag{}, fmt.Errorf("prix invalide %q", p)
			}
			c.Price = &price
		}
		if s := strings.TrimSpace(statePart); s != "" {
			state, err := enums.ParseExemplarState(s)
			if err != nil {
				return gameFlag{}, err
			}
			c.State = state
		}
		entry.Copies = append(entry.Copies, c)
	}
	return entry, nil
}

type itemFlag struct {
	DepositGameID uuid.UUID
	Quantity      int
}

// parseItem reads "<deposit-game-id>[=<quantity>]"; the quantity defaults to 1.
func parseItem(raw string) (itemFlag, error) {
	idPart, qtyPart, hasQty := strings.Cut(strings.TrimSpace(raw), "=")
	id, err := uuid.Parse(strings.TrimSpace(idPart))
	if err != nil {
		return itemFlag{}, fmt.Errorf("identifiant de jeu déposé invalide %q", idPart)
	}
	item := itemFlag{DepositGameID: id, Quantity: 1}
	if hasQty {
		qty, err := strconv.Atoi(strings.TrimSpace(qtyPart))
		if err != nil || qty < 1 {
			return itemFlag{}, fmt.Errorf("quantité invalide %q", qtyPart)
		}
		item.Quantity = qty
	}
	return item, nil
}

func parseOptionalUUID(name, raw string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("-%s: identifiant invalide %q", name, raw)
	}
	return &id, nil
}

func parseRequiredUUID(name, raw string) (uuid.UUID, error) {
	id, err := parseOptionalUUID(name, raw)
	if err != nil {
		return uuid.Nil, err
	}
	if id == nil {
		return uuid.Nil, fmt.Errorf("-%s est requis", name)
	}
	return *id, nil
}
