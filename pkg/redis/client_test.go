package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/depotvente-backend/pkg/config"
)

type fakeCommands struct {
	values   map[string]string
	counters map[string]int64
	expiries map[string]time.Duration
}

func newFakeCommands() *fakeCommands {
	return &fakeCommands{
		values:   map[string]string{},
		counters: map[string]int64{},
		expiries: map[string]time.Duration{},
	}
}

func (f *fakeCommands) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeCommands) Get(_ context.Context, key string) *redis.StringCmd {
	if v, ok := f.values[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeCommands) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	f.values[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCommands) SetNX(_ context.Context, key string, value any, _ time.Duration) *redis.BoolCmd {
	if _, ok := f.values[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.values[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeCommands) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(f.values, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func (f *fakeCommands) Incr(_ context.Context, key string) *redis.IntCmd {
	f.counters[key]++
	return redis.NewIntResult(f.counters[key], nil)
}

func (f *fakeCommands) PExpire(_ context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	f.expiries[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func TestIncrWithTTLStartsWindowOnFirstHit(t *testing.T) {
	ctx := context.Background()
	fake := newFakeCommands()
	c := &Client{cmd: fake}

	for want := int64(1); want <= 3; want++ {
		n, err := c.IncrWithTTL(ctx, "k", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
	assert.Equal(t, map[string]time.Duration{"k": time.Minute}, fake.expiries)
}

func TestLookupFoldsMissingKey(t *testing.T) {
	ctx := context.Background()
	c := &Client{cmd: newFakeCommands()}
	key := c.AccessSessionKey("jti-1")

	_, found, err := c.Lookup(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, key, "user-1", time.Minute))
	v, found, err := c.Lookup(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "user-1", v)

	require.NoError(t, c.Del(ctx, key))
	_, err = c.Get(ctx, key)
	assert.ErrorIs(t, err, redis.Nil)
}

func TestSetNXFirstWriterWins(t *testing.T) {
	ctx := context.Background()
	c := &Client{cmd: newFakeCommands()}
	key := c.IdempotencyKey("sales", "abc")

	ok, err := c.SetNX(ctx, key, "a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.SetNX(ctx, key, "b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestZeroClientReportsNotInitialized(t *testing.T) {
	var c Client
	assert.ErrorIs(t, c.Ping(context.Background()), ErrNotInitialized)
	_, err := c.IncrWithTTL(context.Background(), "k", time.Second)
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, _, err = c.Lookup(context.Background(), "k")
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.NoError(t, c.Close())
}

func TestKeyspace(t *testing.T) {
	c := &Client{}
	assert.Equal(t, "dv:idempotency:scope:id", c.IdempotencyKey("scope", "id"))
	assert.Equal(t, "dv:idempotency:scope", c.IdempotencyKey("scope", " "))
	assert.Equal(t, "dv:rate_limit:ip:login:1.2.3.4", c.RateLimitKey("ip:login:1.2.3.4"))
	assert.Equal(t, "dv:session:access:jti", c.AccessSessionKey("jti"))
	assert.Equal(t, "test:a:b", Keyspace("test").Join("a", "", "b"))
}

func TestOptionsFromConfig(t *testing.T) {
	_, err := optionsFromConfig(config.RedisConfig{})
	require.Error(t, err)

	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6379/2", PoolSize: 7, DialTimeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 7, opts.PoolSize)
	assert.Equal(t, time.Second, opts.DialTimeout)

	opts, err = optionsFromConfig(config.RedisConfig{Address: "cache:6379", DB: 3})
	require.NoError(t, err)
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, 3, opts.DB)
}
