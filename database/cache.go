package database

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is the shared Redis client used for short-lived response caching.
// It may be nil when no REDIS_URL is configured; callers must treat cache
// misses and a disabled cache the same way.
var Cache *redis.Client

// ConnectCache sets up the Redis client from a redis:// URL.
func ConnectCache(redisURL string) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v\n", err)
	}
	Cache = redis.NewClient(opts)

	if err := Cache.Ping(context.Background()).Err(); err != nil {
		log.Printf("Redis ping failed, caching disabled: %v", err)
		Cache = nil
		return
	}

	log.Println("Successfully connected to Redis")
}

// GetCache returns the shared Redis client, or nil when caching is disabled.
func GetCache() *redis.Client {
	return Cache
}

// CloseCache closes the Redis client.
func CloseCache() {
	if Cache != nil {
		if err := Cache.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
		}
	}
}

// CacheSetJSON marshals v and stores it under key with the given TTL.
// A nil cache client is a no-op.
func CacheSetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	if Cache == nil {
		return nil
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return Cache.Set(ctx, key, payload, ttl).Err()
}

// CacheGetJSON loads the value stored under key into v.
// Returns false on a miss or when caching is disabled.
func CacheGetJSON(ctx context.Context, key string, v interface{}) (bool, error) {
	if Cache == nil {
		return false, nil
	}
	payload, err := Cache.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return false, err
	}
	return true, nil
}
