package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quote struct {
	Price string `json:"price"`
}

func newCache(t *testing.T) (*PriceCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewPriceCache(client, time.Minute), mr
}

func TestFetchJSON_CacheaHastaBump(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	calls := 0
	loader := func(context.Context) (interface{}, time.Time, error) {
		calls++
		return quote{Price: "8000.00"}, time.Time{}, nil
	}

	key, err := c.BuildKey(ctx, "pricing", "check", "sp-1")
	require.NoError(t, err)
	assert.Equal(t, "pricing:check:sp-1:1", key)

	var got quote
	require.NoError(t, c.FetchJSON(ctx, key, &got, loader))
	require.NoError(t, c.FetchJSON(ctx, key, &got, loader))
	assert.Equal(t, "8000.00", got.Price)
	assert.Equal(t, 1, calls)

	require.NoError(t, c.Bump(ctx))
	key2, err := c.BuildKey(ctx, "pricing", "check", "sp-1")
	require.NoError(t, err)
	assert.NotEqual(t, key, key2)
	require.NoError(t, c.FetchJSON(ctx, key2, &got, loader))
	assert.Equal(t, 2, calls)
}

func TestFetchJSON_ErrorDelLoaderNoSeCachea(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	boom := errors.New("boom")

	var got quote
	err := c.FetchJSON(ctx, "k", &got, func(context.Context) (interface{}, time.Time, error) { return nil, time.Time{}, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("k"))
}

func TestFetchJSON_TTL(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	var got quote
	require.NoError(t, c.FetchJSON(ctx, "k", &got, func(context.Context) (interface{}, time.Time, error) { return quote{Price: "1"}, time.Time{}, nil }))
	assert.Equal(t, time.Minute, mr.TTL("k"))
	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("k"))
}

func TestFetchJSON_VenceEnElLimiteDeLaOferta(t *testing.T) {
	c, mr := newCache(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	var got quote
	until := func(at time.Time) func(context.Context) (interface{}, time.Time, error) {
		return func(context.Context) (interface{}, time.Time, error) { return quote{Price: "7500"}, at, nil }
	}

	require.NoError(t, c.FetchJSON(ctx, "corta", &got, until(now.Add(20*time.Second))))
	assert.Equal(t, 20*time.Second, mr.TTL("corta"))

	require.NoError(t, c.FetchJSON(ctx, "larga", &got, until(now.Add(time.Hour))))
	assert.Equal(t, time.Minute, mr.TTL("larga"))

	require.NoError(t, c.FetchJSON(ctx, "vencida", &got, until(now.Add(-time.Second))))
	assert.Equal(t, "7500", got.Price)
	assert.False(t, mr.Exists("vencida"))
}

func TestNilCache_LlamaAlLoader(t *testing.T) {
	var c *PriceCache
	ctx := context.Background()
	key, err := c.BuildKey(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "a:b", key)

	var got quote
	require.NoError(t, c.FetchJSON(ctx, key, &got, func(context.Context) (interface{}, time.Time, error) { return quote{Price: "5"}, time.Time{}, nil }))
	assert.Equal(t, "5", got.Price)
	assert.NoError(t, c.Bump(ctx))
}

func TestFetchJSON_RedisCaido(t *testing.T) {
	c, mr := newCache(t)
	mr.Close()
	var got quote
	err := c.FetchJSON(context.Background(), "k", &got, func(context.Context) (interface{}, time.Time, error) { return quote{}, time.Time{}, nil })
	assert.Error(t, err)
}
