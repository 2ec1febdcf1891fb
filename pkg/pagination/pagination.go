// Package pagination implements keyset paging over rows ordered newest first
// by (timestamp, id). Cursors are opaque to clients.
package pagination

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrBadCursor wraps every cursor decoding failure.
var ErrBadCursor = errors.New("invalid cursor")

// Bounds clamps a requested page size.
type Bounds struct {
	Default int
	Max     int
}

// Sales is the page window of GET /sales.
var Sales = Bounds{Default: 50, Max: 200}

func (b Bounds) Clamp(limit int) int {
	switch {
	case limit <= 0:
		return b.Default
	case limit > b.Max:
		return b.Max
	}
	return limit
}

// Fetch is the row count to query: one past the page reveals whether a
// next page exists.
func (b Bounds) Fetch(limit int) int {
	return b.Clamp(limit) + 1
}

// Cursor is the (At, ID) key of the last row already served.
type Cursor struct {
	At time.Time
	ID uuid.UUID
}

func (c Cursor) Encode() string {
	raw := strconv.FormatInt(c.At.UTC().UnixNano(), 10) + "_" + c.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// Decode returns nil for a blank value, meaning the first page.
func Decode(value string) (*Cursor, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, errors.Join(ErrBadCursor, err)
	}
	nanos, id, ok := strings.Cut(string(raw), "_")
	if !ok {
		return nil, ErrBadCursor
	}
	ns, err := strconv.ParseInt(nanos, 10, 64)
	if err != nil {
		return nil, errors.Join(ErrBadCursor, err)
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.Join(ErrBadCursor, err)
	}
	return &Cursor{At: time.Unix(0, ns).UTC(), ID: uid}, nil
}

// Trim cuts rows fetched with b.Fetch down to the page and returns the
// cursor of the next page, or "" when rows ran out.
func Trim[T any](b Bounds, rows []T, limit int, key func(T) Cursor) ([]T, string) {
	limit = b.Clamp(limit)
	if len(rows) <= limit {
		return rows, ""
	}
	rows = rows[:limit]
	return rows, key(rows[limit-1]).Encode()
}
