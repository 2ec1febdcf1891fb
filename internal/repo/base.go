// Package repo holds the plumbing shared by the GORM repositories.
package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base is embedded by every repository. Rebinding it to a transaction with
// With lets a service run several repositories' writes atomically.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB scopes the connection to ctx; a nil ctx returns it unscoped.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// With rebinds the base to tx. A nil tx keeps the current connection.
func (b Base) With(tx *gorm.DB) Base {
	if tx == nil {
		return b
	}
	return Base{db: tx}
}

// Transaction runs fn atomically. On a base already bound to a transaction
// GORM nests it as a savepoint.
func (b Base) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return b.DB(ctx).Transaction(fn)
}

// ByID loads one row by primary key with the named associations preloaded.
// A missing row surfaces as gorm.ErrRecordNotFound.
func ByID[T any](ctx context.Context, b Base, id uuid.UUID, preload ...string) (*T, error) {
	q := b.DB(ctx)
	for _, assoc := range preload {
		q = q.Preload(assoc)
	}
	row := new(T)
	if err := q.First(row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return row, nil
}
