package utils

import (
	"Go_Stow/internal/repo"
	"Go_Stow/model"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis cache client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client: client,
	}
}

// Get reads a cached value.
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

// Set writes a cached value.
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, string(data), expiration).Err()
}

// Delete removes a cache entry.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// currentCache returns nil when Redis is not configured.
func currentCache() Cache {
	if repo.Redis == nil {
		return nil
	}
	return NewRedisCache(repo.Redis)
}

// BuildCacheKey builds a cache key.
func BuildCacheKey(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key += fmt.Sprintf(":%v", param)
	}
	return key
}

const (
	CacheKeyUserInfo = "user:info"
)

// GetUserInfoFromCache reads a cached user. Cached users never carry the password hash
// or verification code.
func GetUserInfoFromCache(ctx context.Context, userNo uint64) (*model.User, bool) {
	cache := currentCache()
	if cache == nil {
		return nil, false
	}
	var result model.User
	if err := cache.Get(ctx, BuildCacheKey(CacheKeyUserInfo, userNo), &result); err != nil {
		return nil, false
	}
	return &result, true
}

// SetUserInfoToCache writes a cached user.
func SetUserInfoToCache(ctx context.Context, user *model.User, expiration time.Duration) error {
	cache := currentCache()
	if cache == nil || user == nil {
		return nil
	}
	return cache.Set(ctx, BuildCacheKey(CacheKeyUserInfo, user.UserNo), user, expiration)
}

// InvalidateUserInfoCache clears a cached user.
func InvalidateUserInfoCache(ctx context.Context, userNo uint64) error {
	cache := currentCache()
	if cache == nil {
		return nil
	}
	return cache.Delete(ctx, BuildCacheKey(CacheKeyUserInfo, userNo))
}
