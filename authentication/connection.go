package authentication

import (
	"context"
	"time"

	"bloggy-api/helpers"

	"github.com/go-redis/redis/v8"
)

// Registry stores the ids of issued tokens; a token whose id is gone was revoked
type Registry interface {
	Register(ctx context.Context, tokenUUID string, userID string, ttl time.Duration) error
	Fetch(ctx context.Context, tokenUUID string) (string, error)
	Revoke(ctx context.Context, tokenUUID string) (int64, error)
}

// RedisRegistry keeps token ids as keys with the token's lifetime as TTL
type RedisRegistry struct {
	Client *redis.Client
}

func (r RedisRegistry) Register(ctx context.Context, tokenUUID string, userID string, ttl time.Duration) error {
	if err := r.Client.Set(ctx, tokenUUID, userID, ttl).Err(); err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}
	return nil
}

// Fetch returns the owner of a token id, ErrUnauthorized when it is not (or no longer) registered
func (r RedisRegistry) Fetch(ctx context.Context, tokenUUID string) (string, error) {
	userID, err := r.Client.Get(ctx, tokenUUID).Result()
	if err == redis.Nil {
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", helpers.WrapError(err, helpers.FuncName())
	}
	return userID, nil
}

// Revoke removes a token id (returns count of deleted records)
func (r RedisRegistry) Revoke(ctx context.Context, tokenUUID string) (int64, error) {
	deleted, err := r.Client.Del(ctx, tokenUUID).Result()
	if err != nil {
		return 0, helpers.WrapError(err, helpers.FuncName())
	}
	return deleted, nil
}
