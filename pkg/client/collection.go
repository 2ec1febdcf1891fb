package client

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Collection is the list state of one screen: fetched once on Load, then
// patched locally after each successful mutation instead of re-fetching.
type Collection[T any] struct {
	mu     sync.RWMutex
	items  []T
	loaded bool
	fetch  func(ctx context.Context) ([]T, error)
	key    func(T) uuid.UUID
}

func NewCollection[T any](fetch func(ctx context.Context) ([]T, error), key func(T) uuid.UUID) *Collection[T] {
	return &Collection[T]{fetch: fetch, key: key}
}

// Load replaces the local items with a fresh fetch.
func (c *Collection[T]) Load(ctx context.Context) error {
	items, err := c.fetch(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.items = append([]T(nil), items...)
	c.loaded = true
	c.mu.Unlock()
	return nil
}

func (c *Collection[T]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Items returns a copy of the current list.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Collection[T]) Find(id uuid.UUID) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if c.key(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Add runs create and appends the returned record.
func (c *Collection[T]) Add(ctx context.Context, create func(ctx context.Context) (*T, error)) (*T, error) {
	created, err := create(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.items = append(c.items, *created)
	c.mu.Unlock()
	return created, nil
}

// Update runs update and swaps the record with the same id in place.
func (c *Collection[T]) Update(ctx context.Context, id uuid.UUID, update func(ctx context.Context) (*T, error)) (*T, error) {
	updated, err := update(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.key(c.items[i]) == id {
			c.items[i] = *updated
			return updated, nil
		}
	}
	c.items = append(c.items, *updated)
	return updated, nil
}

// Remove runs del and drops the record locally.
func (c *Collection[T]) Remove(ctx context.Context, id uuid.UUID, del func(ctx context.Context) error) error {
	if err := del(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.key(c.items[i]) == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	return nil
}
