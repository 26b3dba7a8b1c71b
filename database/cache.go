package database

import (
	"context"
	"encoding/json"
	"time"

	"bloggy-api/helpers"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheItem struct {
	data      []byte
	expiresAt time.Time
}

// Cache is a two level cache: a process-local LRU in front of redis.
// Values are stored as JSON, so every process decodes into its own copy.
type Cache struct {
	local  *lru.Cache[string, cacheItem]
	remote *redis.Client // optional
	prefix string
}

// NewCache with size entries in the local level; remote may be nil
func NewCache(size int, remote *redis.Client, prefix string) (*Cache, error) {
	l, err := lru.New[string, cacheItem](size)
	if err != nil {
		return nil, err
	}
	return &Cache{local: l, remote: remote, prefix: prefix}, nil
}

// Get decodes the cached value into dst; found is false on a miss
func (c *Cache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	key = c.prefix + key

	if item, ok := c.local.Get(key); ok {
		if time.Now().Before(item.expiresAt) {
			return true, json.Unmarshal(item.data, dst)
		}
		c.local.Remove(key)
	}

	if c.remote == nil {
		return false, nil
	}

	ctx, cancel := Timeout(ctx)
	defer cancel()

	b, err := c.remote.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, helpers.WrapError(err, helpers.FuncName())
	}

	if ttl, err := c.remote.TTL(ctx, key).Result(); err == nil && ttl > 0 {
		c.local.Add(key, cacheItem{data: b, expiresAt: time.Now().Add(ttl)})
	}

	return true, json.Unmarshal(b, dst)
}

// Set stores value in both levels
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	key = c.prefix + key

	b, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.local.Add(key, cacheItem{data: b, expiresAt: time.Now().Add(ttl)})

	if c.remote == nil {
		return nil
	}

	ctx, cancel := Timeout(ctx)
	defer cancel()

	if err = c.remote.Set(ctx, key, b, ttl).Err(); err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}
	return nil
}

// Delete removes key from both levels
func (c *Cache) Delete(ctx context.Context, key string) error {
	key = c.prefix + key
	c.local.Remove(key)

	if c.remote == nil {
		return nil
	}

	ctx, cancel := Timeout(ctx)
	defer cancel()

	if err := c.remote.Del(ctx, key).Err(); err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}
	return nil
}
