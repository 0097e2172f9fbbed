package database

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type cachedSummary struct {
	TotalUnits int    `json:"totalUnits"`
	Label      string `json:"label"`
}

func setupTestCache(t *testing.T) *miniredis.Miniredis {
	mr := miniredis.RunT(t)
	Cache = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { Cache = nil })
	return mr
}

func TestCacheJSONRoundTrip(t *testing.T) {
	setupTestCache(t)
	ctx := context.Background()

	in := cachedSummary{TotalUnits: 1250, Label: "dec-window"}
	err := CacheSetJSON(ctx, "forecast:summary:org1", in, time.Minute)
	assert.NoError(t, err)

	var out cachedSummary
	hit, err := CacheGetJSON(ctx, "forecast:summary:org1", &out)
	assert.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, in, out)
}

func TestCacheGetJSONMiss(t *testing.T) {
	setupTestCache(t)

	var out cachedSummary
	hit, err := CacheGetJSON(context.Background(), "no-such-key", &out)
	assert.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheExpiry(t *testing.T) {
	mr := setupTestCache(t)
	ctx := context.Background()

	err := CacheSetJSON(ctx, "forecast:summary:org2", cachedSummary{TotalUnits: 10}, time.Second)
	assert.NoError(t, err)

	mr.FastForward(2 * time.Second)

	var out cachedSummary
	hit, err := CacheGetJSON(ctx, "forecast:summary:org2", &out)
	assert.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheDisabled(t *testing.T) {
	Cache = nil

	err := CacheSetJSON(context.Background(), "k", cachedSummary{}, time.Minute)
	assert.NoError(t, err)

	var out cachedSummary
	hit, err := CacheGetJSON(context.Background(), "k", &out)
	assert.NoError(t, err)
	assert.False(t, hit)
}
