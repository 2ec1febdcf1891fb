// Package session keeps the server side half of access tokens: a token is
// only honoured while Redis still holds a session under its jti.
package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/depotvente-backend/pkg/config"
	pkgredis "github.com/angelmondragon/depotvente-backend/pkg/redis"
)

// ErrBlankAccessID rejects calls made without a token jti.
var ErrBlankAccessID = errors.New("session: access id is required")

// Store is the Redis surface the manager relies on.
type Store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Lookup(ctx context.Context, key string) (string, bool, error)
	Del(ctx context.Context, keys ...string) error
	AccessSessionKey(accessID string) string
}

// AccessSessionChecker is what the auth middleware needs.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

type Manager struct {
	store Store
	ttl   time.Duration
}

// NewManager ties session lifetime to the access token lifetime so both
// expire together.
func NewManager(client *pkgredis.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, errors.New("session: redis client is required")
	}
	return newManager(client, cfg.AccessTTL())
}

func newManager(store Store, ttl time.Duration) (*Manager, error) {
	if ttl <= 0 {
		return nil, errors.New("session: access token ttl must be positive")
	}
	return &Manager{store: store, ttl: ttl}, nil
}

func (m *Manager) key(accessID string) (string, error) {
	accessID = strings.TrimSpace(accessID)
	if accessID == "" {
		return "", ErrBlankAccessID
	}
	return m.store.AccessSessionKey(accessID), nil
}

// Open records the session minted at login for userID.
func (m *Manager) Open(ctx context.Context, accessID string, userID uuid.UUID) error {
	key, err := m.key(accessID)
	if err != nil {
		return err
	}
	return m.store.Set(ctx, key, userID.String(), m.ttl)
}

// Revoke ends the session; the token is rejected from then on even if its
// signature and expiry are still valid.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	key, err := m.key(accessID)
	if err != nil {
		return err
	}
	return m.store.Del(ctx, key)
}

func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	key, err := m.key(accessID)
	if err != nil {
		return false, err
	}
	_, found, err := m.store.Lookup(ctx, key)
	return found, err
}

// NewAccessID mints the jti shared by the token and its session key.
func NewAccessID() string {
	return uuid.NewString()
}
