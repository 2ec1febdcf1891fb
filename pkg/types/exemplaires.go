package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/angelmondragon/depotvente-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Exemplaire is one physical copy of a deposited game.
type Exemplaire struct {
	Price decimal.Decimal     `json:"price"`
	State enums.ExemplarState `json:"state"`
}

// Exemplaires is the index-keyed copy collection of a deposit game ("0", "1", ...).
// It is stored as a JSON document.
type Exemplaires map[string]Exemplaire

// Count returns the number of copies.
func (e Exemplaires) Count() int {
	return len(e)
}

// Keys returns the keys in numeric order; non-numeric keys sort last, lexically.
func (e Exemplaires) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

// First returns the copy with the lowest index.
func (e Exemplaires) First() (Exemplaire, bool) {
	keys := e.Keys()
	if len(keys) == 0 {
		return Exemplaire{}, false
	}
	return e[keys[0]], true
}

// TotalPrice sums the price of every copy.
func (e Exemplaires) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, ex := range e {
		total = total.Add(ex.Price)
	}
	return total
}

// Validate checks every copy carries a known state and a non-negative price.
func (e Exemplaires) Validate() error {
	for _, k := range e.Keys() {
		ex := e[k]
		if !ex.State.IsValid() {
			return fmt.Errorf("exemplaire %s: état %q inconnu", k, ex.State)
		}
		if ex.Price.IsNegative() {
			return fmt.Errorf("exemplaire %s: prix négatif", k)
		}
	}
	return nil
}

// Clone returns an independent copy.
func (e Exemplaires) Clone() Exemplaires {
	out := make(Exemplaires, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Value stores the collection as JSON.
func (e Exemplaires) Value() (driver.Value, error) {
	if e == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(map[string]Exemplaire(e))
	if err != nil {
		return nil, fmt.Errorf("exemplaires: %w", err)
	}
	return string(raw), nil
}

// Scan decodes the stored JSON document.
func (e *Exemplaires) Scan(value any) error {
	if value == nil {
		*e = Exemplaires{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("exemplaires: unsupported scan type %T", value)
	}
	out := Exemplaires{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, (*map[string]Exemplaire)(&out)); err != nil {
			return fmt.Errorf("exemplaires: %w", err)
		}
	}
	*e = out
	return nil
}
